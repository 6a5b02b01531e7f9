// Package core contains the business logic of the planner: the task
// state machine, the sprint lifecycle, capacity planning, and the
// dashboard aggregation. It owns the repository contracts it consumes;
// any store satisfying them (the YAML stores in internal/storage, an
// in-memory fake, a database) is interchangeable.
package core

import "github.com/testsprint/testsprint/pkg/models"

// TaskRepository is the persistence contract for tasks. FindByID returns
// (nil, nil) when the id does not resolve; errors are reserved for
// infrastructure failures.
type TaskRepository interface {
	FindByID(id string) (*models.Task, error)
	Add(t *models.Task) error
	Update(t *models.Task) error
	Remove(id string) error
	ListAll() ([]*models.Task, error)
}

// SprintRepository is the persistence contract for sprints. Sprints are
// never deleted.
type SprintRepository interface {
	FindByID(id string) (*models.Sprint, error)
	Add(s *models.Sprint) error
	Update(s *models.Sprint) error
	ListAll() ([]*models.Sprint, error)
}

// UserRepository is the read-only user lookup used to validate assignee
// and block-responsible references.
type UserRepository interface {
	FindByID(id string) (*models.User, error)
}

// EventRecorder receives domain events for the observability log.
// Recording must never fail an operation; implementations swallow their
// own errors. A nil recorder disables event emission.
type EventRecorder interface {
	Record(eventType, message string, data map[string]any)
}
