package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/testsprint/testsprint/pkg/models"
)

// userFile is the top-level structure of users.yaml.
type userFile struct {
	Version string                  `yaml:"version"`
	Users   map[string]*models.User `yaml:"users"`
}

// UserStore is a file-backed user registry. The core only reads it;
// Add exists for the user-management commands.
type UserStore struct {
	basePath string
	data     userFile
}

// NewUserStore creates a UserStore rooted at basePath.
func NewUserStore(basePath string) *UserStore {
	return &UserStore{
		basePath: basePath,
		data:     userFile{Version: storeVersion, Users: make(map[string]*models.User)},
	}
}

func (s *UserStore) filePath() string {
	return filepath.Join(s.basePath, "users.yaml")
}

// Load reads users.yaml. A missing file leaves the store empty.
func (s *UserStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading users.yaml: %w", err)
	}
	var f userFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing users.yaml: %w", err)
	}
	if f.Users == nil {
		f.Users = make(map[string]*models.User)
	}
	f.Version = storeVersion
	s.data = f
	return nil
}

func (s *UserStore) save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshalling users: %w", err)
	}
	if err := os.WriteFile(s.filePath(), out, 0o600); err != nil {
		return fmt.Errorf("writing users.yaml: %w", err)
	}
	return nil
}

// FindByID returns a copy of the user, or (nil, nil) when absent.
func (s *UserStore) FindByID(id string) (*models.User, error) {
	u, ok := s.data.Users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// Add inserts a new user and persists the collection.
func (s *UserStore) Add(u *models.User) error {
	if u.ID == "" {
		return fmt.Errorf("adding user: id must not be empty")
	}
	if _, exists := s.data.Users[u.ID]; exists {
		return fmt.Errorf("adding user: user %s already exists", u.ID)
	}
	c := *u
	s.data.Users[u.ID] = &c
	return s.save()
}

// ListAll returns copies of every user, ordered by id.
func (s *UserStore) ListAll() ([]*models.User, error) {
	out := make([]*models.User, 0, len(s.data.Users))
	for _, u := range s.data.Users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
