package models

import "time"

// TaskStatus represents the current lifecycle state of a test task.
// The values are the canonical (pt-BR) labels used by the QA teams
// this planner was built for.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "Backlog"
	StatusInProgress TaskStatus = "Em Andamento"
	StatusBlocked    TaskStatus = "Bloqueada"
	StatusDone       TaskStatus = "Concluída"
)

// AllTaskStatuses lists every valid status in lifecycle order.
var AllTaskStatuses = []TaskStatus{
	StatusBacklog,
	StatusInProgress,
	StatusBlocked,
	StatusDone,
}

// taskTransitions is the closed transition graph. A status mapping to an
// empty set is terminal.
var taskTransitions = map[TaskStatus][]TaskStatus{
	StatusBacklog:    {StatusInProgress},
	StatusInProgress: {StatusBlocked, StatusDone},
	StatusBlocked:    {StatusInProgress},
	StatusDone:       {},
}

// Valid reports whether s is one of the four lifecycle statuses.
func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target exists in the
// lifecycle graph.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	for _, t := range taskTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// PhaseName identifies one of the four fixed estimation phases.
type PhaseName string

const (
	PhaseAnalysisModeling PhaseName = "analysisModeling"
	PhaseExecution        PhaseName = "execution"
	PhaseRetest           PhaseName = "retest"
	PhaseDocumentation    PhaseName = "documentation"
)

// PhaseOrder is the canonical iteration order over the four phases.
var PhaseOrder = []PhaseName{
	PhaseAnalysisModeling,
	PhaseExecution,
	PhaseRetest,
	PhaseDocumentation,
}

// Estimate is a three-point (optimistic, most-likely, pessimistic)
// effort triple for a single phase, in hours.
type Estimate struct {
	O float64 `yaml:"o" json:"o"`
	M float64 `yaml:"m" json:"m"`
	P float64 `yaml:"p" json:"p"`
}

// PhaseSet holds the triples for the four fixed phases. A nil phase is
// an estimation failure, not an implicit zero.
type PhaseSet struct {
	AnalysisModeling *Estimate `yaml:"analysisModeling" json:"analysisModeling"`
	Execution        *Estimate `yaml:"execution" json:"execution"`
	Retest           *Estimate `yaml:"retest" json:"retest"`
	Documentation    *Estimate `yaml:"documentation" json:"documentation"`
}

// Phase returns the triple for the named phase, nil if absent or unknown.
func (p PhaseSet) Phase(name PhaseName) *Estimate {
	switch name {
	case PhaseAnalysisModeling:
		return p.AnalysisModeling
	case PhaseExecution:
		return p.Execution
	case PhaseRetest:
		return p.Retest
	case PhaseDocumentation:
		return p.Documentation
	}
	return nil
}

// Totals is the derived effort figure for a task: summed PERT hours
// rounded to one decimal, and whole days at the configured productive
// hours per day.
type Totals struct {
	Hours float64 `yaml:"hours" json:"totalHours"`
	Days  int     `yaml:"days" json:"totalDays"`
}

// Block records a task impediment: why it happened, who is responsible
// for unblocking, and the open/resolved timestamps.
type Block struct {
	Motivo        string     `yaml:"motivo" json:"motivo"`
	ResponsavelID string     `yaml:"responsavelId" json:"responsavelId"`
	BlockedAt     time.Time  `yaml:"blockedAt" json:"blockedAt"`
	ResolvedAt    *time.Time `yaml:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// Task represents one unit of test work tracked through the lifecycle.
type Task struct {
	ID           string     `yaml:"id" json:"id"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description,omitempty" json:"description,omitempty"`
	Phases       PhaseSet   `yaml:"phases" json:"phases"`
	Totals       *Totals    `yaml:"totals,omitempty" json:"totals,omitempty"`
	Status       TaskStatus `yaml:"status" json:"status"`
	AssigneeID   string     `yaml:"assigneeId,omitempty" json:"assigneeId,omitempty"`
	Block        *Block     `yaml:"block,omitempty" json:"block,omitempty"`
	SprintID     string     `yaml:"sprintId,omitempty" json:"sprintId,omitempty"`
	DueDate      *time.Time `yaml:"dueDate,omitempty" json:"dueDate,omitempty"`
	Risco        string     `yaml:"risco,omitempty" json:"risco,omitempty"`
	Complexidade string     `yaml:"complexidade,omitempty" json:"complexidade,omitempty"`
	CreatedBy    string     `yaml:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time  `yaml:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `yaml:"updatedAt" json:"updatedAt"`
}

// Clone returns a deep copy of the task. Services validate and mutate
// copies so that a failed operation never leaks partial state.
func (t *Task) Clone() *Task {
	c := *t
	c.Phases = t.Phases.clone()
	if t.Totals != nil {
		tot := *t.Totals
		c.Totals = &tot
	}
	if t.Block != nil {
		b := *t.Block
		if t.Block.ResolvedAt != nil {
			r := *t.Block.ResolvedAt
			b.ResolvedAt = &r
		}
		c.Block = &b
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

func (p PhaseSet) clone() PhaseSet {
	c := p
	if p.AnalysisModeling != nil {
		e := *p.AnalysisModeling
		c.AnalysisModeling = &e
	}
	if p.Execution != nil {
		e := *p.Execution
		c.Execution = &e
	}
	if p.Retest != nil {
		e := *p.Retest
		c.Retest = &e
	}
	if p.Documentation != nil {
		e := *p.Documentation
		c.Documentation = &e
	}
	return c
}
