package core

import (
	"fmt"
	"strings"

	"github.com/testsprint/testsprint/internal/apperr"
	"github.com/testsprint/testsprint/internal/schedule"
	"github.com/testsprint/testsprint/pkg/models"
)

// UserDirectory is the writable user store the registry sits on.
type UserDirectory interface {
	UserRepository
	Add(u *models.User) error
	ListAll() ([]*models.User, error)
}

// UserService is the registry of people tasks can reference as
// assignees or block responsibles.
type UserService interface {
	Create(name, email string) (*models.User, error)
	Get(id string) (*models.User, error)
	List() ([]*models.User, error)
}

type userService struct {
	users UserDirectory
	ids   IDGenerator
	clock schedule.Clock
}

// NewUserService creates a UserService.
func NewUserService(users UserDirectory, ids IDGenerator, clock schedule.Clock) UserService {
	return &userService{users: users, ids: ids, clock: clock}
}

func (s *userService) Create(name, email string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validationf(apperr.TitleRequired, "name", "user name must not be empty")
	}
	id, err := s.ids.NextID()
	if err != nil {
		return nil, fmt.Errorf("generating user id: %w", err)
	}
	u := &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: s.clock.Now(),
	}
	if err := s.users.Add(u); err != nil {
		return nil, fmt.Errorf("adding user: %w", err)
	}
	return u, nil
}

func (s *userService) Get(id string) (*models.User, error) {
	return s.users.FindByID(id)
}

func (s *userService) List() ([]*models.User, error) {
	return s.users.ListAll()
}
