package models

import "time"

// SprintStatus represents the lifecycle state of a sprint. Transitions
// are strictly forward: Created -> Started -> Closed.
type SprintStatus string

const (
	SprintCreated SprintStatus = "Created"
	SprintStarted SprintStatus = "Started"
	SprintClosed  SprintStatus = "Closed"
)

// Capacity is the staffing mix of a sprint, in headcounts per
// experience level.
type Capacity struct {
	Junior int `yaml:"junior" json:"junior"`
	Pleno  int `yaml:"pleno" json:"pleno"`
	Senior int `yaml:"senior" json:"senior"`
}

// Sprint represents a capacity-bounded delivery window.
type Sprint struct {
	ID        string       `yaml:"id" json:"id"`
	Name      string       `yaml:"name" json:"name"`
	TaskIDs   []string     `yaml:"taskIds" json:"taskIds"`
	Capacity  Capacity     `yaml:"capacity" json:"capacity"`
	Status    SprintStatus `yaml:"status" json:"status"`
	StartedAt *time.Time   `yaml:"startedAt,omitempty" json:"startedAt,omitempty"`
	ClosedAt  *time.Time   `yaml:"closedAt,omitempty" json:"closedAt,omitempty"`
	DueDate   *time.Time   `yaml:"dueDate,omitempty" json:"dueDate,omitempty"`
	CreatedAt time.Time    `yaml:"createdAt" json:"createdAt"`
	UpdatedAt time.Time    `yaml:"updatedAt" json:"updatedAt"`
}

// HasTask reports whether the given task id is a member of the sprint.
func (s *Sprint) HasTask(taskID string) bool {
	for _, id := range s.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// AddTask appends the task id to the membership, preserving order and
// uniqueness. Returns false if the id was already a member.
func (s *Sprint) AddTask(taskID string) bool {
	if s.HasTask(taskID) {
		return false
	}
	s.TaskIDs = append(s.TaskIDs, taskID)
	return true
}

// RemoveTask removes the task id from the membership. Returns false if
// the id was not a member.
func (s *Sprint) RemoveTask(taskID string) bool {
	for i, id := range s.TaskIDs {
		if id == taskID {
			s.TaskIDs = append(s.TaskIDs[:i], s.TaskIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the sprint.
func (s *Sprint) Clone() *Sprint {
	c := *s
	c.TaskIDs = append([]string(nil), s.TaskIDs...)
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		c.ClosedAt = &t
	}
	if s.DueDate != nil {
		t := *s.DueDate
		c.DueDate = &t
	}
	return &c
}
