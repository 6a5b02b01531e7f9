package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// IDGenerator produces unique, sequential entity ids.
type IDGenerator interface {
	NextID() (string, error)
}

// fileIDGenerator persists its counter in a dotfile on disk so ids stay
// unique across invocations.
type fileIDGenerator struct {
	basePath string
	prefix   string
	padWidth int
}

// NewFileIDGenerator creates an IDGenerator that stores its counter in
// a .<prefix>_counter file within basePath. padWidth controls the
// zero-padding of the numeric portion (e.g. TSK-00001); use 0 for none.
func NewFileIDGenerator(basePath, prefix string, padWidth int) IDGenerator {
	return &fileIDGenerator{basePath: basePath, prefix: prefix, padWidth: padWidth}
}

func (g *fileIDGenerator) counterPath() string {
	return filepath.Join(g.basePath, "."+strings.ToLower(g.prefix)+"_counter")
}

// NextID reads the current counter, increments it, writes it back, and
// returns the formatted id. A missing counter file starts from 1.
func (g *fileIDGenerator) NextID() (string, error) {
	path := g.counterPath()

	if err := os.MkdirAll(g.basePath, 0o750); err != nil {
		return "", fmt.Errorf("creating base path for id counter: %w", err)
	}

	// Serialize against concurrent planner processes sharing the data dir.
	unlock, err := lockFile(path + ".lock")
	if err != nil {
		return "", err
	}
	defer unlock()

	counter := 0
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading id counter file: %w", err)
	}
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		counter, err = strconv.Atoi(trimmed)
		if err != nil {
			return "", fmt.Errorf("parsing id counter %q: %w", trimmed, err)
		}
	}

	counter++

	if err := os.WriteFile(path, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("writing id counter file: %w", err)
	}

	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", g.prefix, g.padWidth, counter), nil
	}
	return fmt.Sprintf("%s-%d", g.prefix, counter), nil
}

// memoryIDGenerator counts in memory. Intended for tests.
type memoryIDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

// NewMemoryIDGenerator creates an in-memory IDGenerator.
func NewMemoryIDGenerator(prefix string) IDGenerator {
	return &memoryIDGenerator{prefix: prefix}
}

func (g *memoryIDGenerator) NextID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%05d", g.prefix, g.counter), nil
}
