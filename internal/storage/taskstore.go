// Package storage provides the YAML-file repositories behind the
// planner's repository contracts, plus in-memory implementations used
// by tests and ephemeral runs. Each entity collection lives in its own
// file (tasks.yaml, sprints.yaml, users.yaml) under the base path.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/testsprint/testsprint/pkg/models"
)

const storeVersion = "1.0"

// TasksFileName is the task collection file under the base path. It
// doubles as the marker callers look for when resolving a data directory.
const TasksFileName = "tasks.yaml"

// taskFile is the top-level structure of tasks.yaml.
type taskFile struct {
	Version string                  `yaml:"version"`
	Tasks   map[string]*models.Task `yaml:"tasks"`
}

// TaskStore is a file-backed core.TaskRepository. Mutations are written
// through to disk immediately.
type TaskStore struct {
	basePath string
	data     taskFile
}

// NewTaskStore creates a TaskStore rooted at basePath.
func NewTaskStore(basePath string) *TaskStore {
	return &TaskStore{
		basePath: basePath,
		data:     taskFile{Version: storeVersion, Tasks: make(map[string]*models.Task)},
	}
}

func (s *TaskStore) filePath() string {
	return filepath.Join(s.basePath, TasksFileName)
}

// Load reads tasks.yaml. A missing file leaves the store empty.
func (s *TaskStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading tasks.yaml: %w", err)
	}
	var f taskFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing tasks.yaml: %w", err)
	}
	if f.Tasks == nil {
		f.Tasks = make(map[string]*models.Task)
	}
	f.Version = storeVersion
	s.data = f
	return nil
}

func (s *TaskStore) save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshalling tasks: %w", err)
	}
	if err := os.WriteFile(s.filePath(), out, 0o600); err != nil {
		return fmt.Errorf("writing tasks.yaml: %w", err)
	}
	return nil
}

// FindByID returns a copy of the task, or (nil, nil) when absent.
func (s *TaskStore) FindByID(id string) (*models.Task, error) {
	t, ok := s.data.Tasks[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

// Add inserts a new task and persists the collection.
func (s *TaskStore) Add(t *models.Task) error {
	if t.ID == "" {
		return fmt.Errorf("adding task: id must not be empty")
	}
	if _, exists := s.data.Tasks[t.ID]; exists {
		return fmt.Errorf("adding task: task %s already exists", t.ID)
	}
	s.data.Tasks[t.ID] = t.Clone()
	return s.save()
}

// Update replaces the stored task by id and persists the collection.
func (s *TaskStore) Update(t *models.Task) error {
	if _, exists := s.data.Tasks[t.ID]; !exists {
		return fmt.Errorf("updating task: task %s not found", t.ID)
	}
	s.data.Tasks[t.ID] = t.Clone()
	return s.save()
}

// Remove deletes the task by id and persists the collection.
func (s *TaskStore) Remove(id string) error {
	if _, exists := s.data.Tasks[id]; !exists {
		return fmt.Errorf("removing task: task %s not found", id)
	}
	delete(s.data.Tasks, id)
	return s.save()
}

// ListAll returns copies of every task, ordered by id for stable output.
func (s *TaskStore) ListAll() ([]*models.Task, error) {
	out := make([]*models.Task, 0, len(s.data.Tasks))
	for _, t := range s.data.Tasks {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
