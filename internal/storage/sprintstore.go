package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/testsprint/testsprint/pkg/models"
)

// sprintFile is the top-level structure of sprints.yaml.
type sprintFile struct {
	Version string                    `yaml:"version"`
	Sprints map[string]*models.Sprint `yaml:"sprints"`
}

// SprintStore is a file-backed core.SprintRepository.
type SprintStore struct {
	basePath string
	data     sprintFile
}

// NewSprintStore creates a SprintStore rooted at basePath.
func NewSprintStore(basePath string) *SprintStore {
	return &SprintStore{
		basePath: basePath,
		data:     sprintFile{Version: storeVersion, Sprints: make(map[string]*models.Sprint)},
	}
}

func (s *SprintStore) filePath() string {
	return filepath.Join(s.basePath, "sprints.yaml")
}

// Load reads sprints.yaml. A missing file leaves the store empty.
func (s *SprintStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading sprints.yaml: %w", err)
	}
	var f sprintFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing sprints.yaml: %w", err)
	}
	if f.Sprints == nil {
		f.Sprints = make(map[string]*models.Sprint)
	}
	f.Version = storeVersion
	s.data = f
	return nil
}

func (s *SprintStore) save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshalling sprints: %w", err)
	}
	if err := os.WriteFile(s.filePath(), out, 0o600); err != nil {
		return fmt.Errorf("writing sprints.yaml: %w", err)
	}
	return nil
}

// FindByID returns a copy of the sprint, or (nil, nil) when absent.
func (s *SprintStore) FindByID(id string) (*models.Sprint, error) {
	sp, ok := s.data.Sprints[id]
	if !ok {
		return nil, nil
	}
	return sp.Clone(), nil
}

// Add inserts a new sprint and persists the collection.
func (s *SprintStore) Add(sp *models.Sprint) error {
	if sp.ID == "" {
		return fmt.Errorf("adding sprint: id must not be empty")
	}
	if _, exists := s.data.Sprints[sp.ID]; exists {
		return fmt.Errorf("adding sprint: sprint %s already exists", sp.ID)
	}
	s.data.Sprints[sp.ID] = sp.Clone()
	return s.save()
}

// Update replaces the stored sprint by id and persists the collection.
func (s *SprintStore) Update(sp *models.Sprint) error {
	if _, exists := s.data.Sprints[sp.ID]; !exists {
		return fmt.Errorf("updating sprint: sprint %s not found", sp.ID)
	}
	s.data.Sprints[sp.ID] = sp.Clone()
	return s.save()
}

// ListAll returns copies of every sprint, ordered by id.
func (s *SprintStore) ListAll() ([]*models.Sprint, error) {
	out := make([]*models.Sprint, 0, len(s.data.Sprints))
	for _, sp := range s.data.Sprints {
		out = append(out, sp.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
