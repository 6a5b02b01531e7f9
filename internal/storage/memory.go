package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/testsprint/testsprint/pkg/models"
)

// MemoryTasks is an in-memory core.TaskRepository, safe for concurrent
// use. Used by tests and ephemeral runs.
type MemoryTasks struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

// NewMemoryTasks creates an empty in-memory task repository.
func NewMemoryTasks() *MemoryTasks {
	return &MemoryTasks{tasks: make(map[string]*models.Task)}
}

func (m *MemoryTasks) FindByID(id string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

func (m *MemoryTasks) Add(t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[t.ID]; exists {
		return fmt.Errorf("adding task: task %s already exists", t.ID)
	}
	m.tasks[t.ID] = t.Clone()
	return nil
}

func (m *MemoryTasks) Update(t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[t.ID]; !exists {
		return fmt.Errorf("updating task: task %s not found", t.ID)
	}
	m.tasks[t.ID] = t.Clone()
	return nil
}

func (m *MemoryTasks) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[id]; !exists {
		return fmt.Errorf("removing task: task %s not found", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *MemoryTasks) ListAll() ([]*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemorySprints is an in-memory core.SprintRepository.
type MemorySprints struct {
	mu      sync.RWMutex
	sprints map[string]*models.Sprint
}

// NewMemorySprints creates an empty in-memory sprint repository.
func NewMemorySprints() *MemorySprints {
	return &MemorySprints{sprints: make(map[string]*models.Sprint)}
}

func (m *MemorySprints) FindByID(id string) (*models.Sprint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sprints[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *MemorySprints) Add(s *models.Sprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sprints[s.ID]; exists {
		return fmt.Errorf("adding sprint: sprint %s already exists", s.ID)
	}
	m.sprints[s.ID] = s.Clone()
	return nil
}

func (m *MemorySprints) Update(s *models.Sprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sprints[s.ID]; !exists {
		return fmt.Errorf("updating sprint: sprint %s not found", s.ID)
	}
	m.sprints[s.ID] = s.Clone()
	return nil
}

func (m *MemorySprints) ListAll() ([]*models.Sprint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Sprint, 0, len(m.sprints))
	for _, s := range m.sprints {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemoryUsers is an in-memory user registry.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewMemoryUsers creates an in-memory user registry seeded with the
// given users.
func NewMemoryUsers(users ...*models.User) *MemoryUsers {
	m := &MemoryUsers{users: make(map[string]*models.User, len(users))}
	for _, u := range users {
		c := *u
		m.users[u.ID] = &c
	}
	return m
}

func (m *MemoryUsers) FindByID(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// Add registers a user.
func (m *MemoryUsers) Add(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.ID]; exists {
		return fmt.Errorf("adding user: user %s already exists", u.ID)
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

// ListAll returns every user, sorted by id.
func (m *MemoryUsers) ListAll() ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
