package models

import "time"

// User is a minimal registry entry. The planner only needs users to
// resolve assignees and block responsibles; authentication lives in an
// external layer.
type User struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Email     string    `yaml:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `yaml:"createdAt" json:"createdAt"`
}
