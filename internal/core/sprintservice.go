package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/testsprint/testsprint/internal/apperr"
	"github.com/testsprint/testsprint/internal/schedule"
	"github.com/testsprint/testsprint/pkg/models"
)

// CreateSprintInput carries the fields accepted at sprint creation.
// TaskIDs may be empty; set RequireTasks to demand an initial
// membership.
type CreateSprintInput struct {
	Name         string
	TaskIDs      []string
	Capacity     models.Capacity
	RequireTasks bool
}

// SprintService owns the sprint lifecycle: creation, capacity,
// membership (with task exclusivity), start and close. The same
// (nil, nil) not-found contract as TaskService applies.
type SprintService interface {
	Create(in CreateSprintInput) (*models.Sprint, error)
	Get(id string) (*models.Sprint, error)
	List() ([]*models.Sprint, error)
	SetCapacity(id string, c models.Capacity) (*models.Sprint, error)
	AddTasks(id string, taskIDs []string) (*models.Sprint, error)
	RemoveTasks(id string, taskIDs []string) (*models.Sprint, error)
	Start(id string) (*models.Sprint, error)
	Close(id string) (*models.Sprint, error)
}

type sprintService struct {
	sprints SprintRepository
	tasks   TaskRepository
	ids     IDGenerator
	clock   schedule.Clock
	policy  Policy
	events  EventRecorder
}

// NewSprintService creates a SprintService with all dependencies
// injected. events may be nil.
func NewSprintService(sprints SprintRepository, tasks TaskRepository, ids IDGenerator, clock schedule.Clock, policy Policy, events EventRecorder) SprintService {
	return &sprintService{
		sprints: sprints,
		tasks:   tasks,
		ids:     ids,
		clock:   clock,
		policy:  policy,
		events:  events,
	}
}

func (s *sprintService) Create(in CreateSprintInput) (*models.Sprint, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validationf(apperr.TitleRequired, "name", "sprint name must not be empty")
	}
	ids := dedupe(in.TaskIDs)
	if in.RequireTasks && len(ids) == 0 {
		return nil, apperr.Validationf(apperr.SprintTasksReq, "taskIds", "at least one task is required")
	}

	// Every candidate must resolve and be unattached before anything is
	// committed.
	candidates := make([]*models.Task, 0, len(ids))
	for _, taskID := range ids {
		t, err := s.tasks.FindByID(taskID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperr.NotFoundf("taskIds", "task %s not found", taskID)
		}
		if t.SprintID != "" {
			return nil, apperr.Conflictf(apperr.TaskAlreadyInSprint, "taskIds",
				"task %s already belongs to sprint %s", t.ID, t.SprintID)
		}
		candidates = append(candidates, t.Clone())
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, fmt.Errorf("generating sprint id: %w", err)
	}

	now := s.clock.Now()
	sprint := &models.Sprint{
		ID:        id,
		Name:      in.Name,
		TaskIDs:   ids,
		Capacity:  clampCapacity(in.Capacity),
		Status:    models.SprintCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sprints.Add(sprint); err != nil {
		return nil, fmt.Errorf("adding sprint: %w", err)
	}
	for _, t := range candidates {
		t.SprintID = sprint.ID
		t.UpdatedAt = now
		if err := s.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("linking task %s to sprint: %w", t.ID, err)
		}
	}

	s.record("sprint.created", "sprint created", map[string]any{"sprint_id": sprint.ID, "name": sprint.Name, "tasks": len(ids)})
	return sprint, nil
}

func (s *sprintService) Get(id string) (*models.Sprint, error) {
	return s.sprints.FindByID(id)
}

func (s *sprintService) List() ([]*models.Sprint, error) {
	return s.sprints.ListAll()
}

// SetCapacity replaces the staffing mix. On a started sprint the sprint
// due date is re-derived from the new throughput, and every member task
// currently Em Andamento gets its due date re-anchored to now.
func (s *sprintService) SetCapacity(id string, c models.Capacity) (*models.Sprint, error) {
	current, err := s.sprints.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	if current.Status == models.SprintClosed {
		return nil, apperr.Conflictf(apperr.SprintNotEditable, "status", "sprint %s is closed", id)
	}

	sprint := current.Clone()
	now := s.clock.Now()
	sprint.Capacity = clampCapacity(c)
	sprint.UpdatedAt = now

	var retimed []*models.Task
	if sprint.Status == models.SprintStarted {
		totals, err := ComputeSprintTotals(sprint, s.tasks, s.policy)
		if err != nil {
			return nil, err
		}
		due := schedule.AddBusinessDays(*sprint.StartedAt, wholeDays(totals.Days))
		sprint.DueDate = &due

		for _, taskID := range sprint.TaskIDs {
			t, err := s.tasks.FindByID(taskID)
			if err != nil {
				return nil, err
			}
			if t == nil || t.SprintID != sprint.ID || t.Status != models.StatusInProgress {
				continue
			}
			tc := t.Clone()
			days := 0
			if tc.Totals != nil {
				days = tc.Totals.Days
			}
			taskDue := schedule.EndOfWorkday(
				schedule.AddBusinessDays(now, max(1, days)),
				s.policy.WorkdayEndHour, s.policy.WorkdayEndMinute,
			)
			tc.DueDate = &taskDue
			tc.UpdatedAt = now
			retimed = append(retimed, tc)
		}
	}

	if err := s.sprints.Update(sprint); err != nil {
		return nil, fmt.Errorf("updating sprint capacity: %w", err)
	}
	for _, t := range retimed {
		if err := s.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("re-anchoring task %s due date: %w", t.ID, err)
		}
	}

	s.record("sprint.capacity_changed", "sprint capacity changed", map[string]any{"sprint_id": sprint.ID})
	return sprint, nil
}

// AddTasks extends the membership. Only legal while the sprint is still
// Created; every added task must exist and be unattached.
func (s *sprintService) AddTasks(id string, taskIDs []string) (*models.Sprint, error) {
	current, err := s.sprints.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	if current.Status != models.SprintCreated {
		return nil, apperr.Conflictf(apperr.SprintNotEditable, "status",
			"sprint %s membership can only change while Created", id)
	}
	ids := dedupe(taskIDs)
	if len(ids) == 0 {
		return nil, apperr.Validationf(apperr.TaskIDsRequired, "taskIds", "provide at least one task id")
	}

	added := make([]*models.Task, 0, len(ids))
	for _, taskID := range ids {
		t, err := s.tasks.FindByID(taskID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperr.NotFoundf("taskIds", "task %s not found", taskID)
		}
		if t.SprintID != "" {
			return nil, apperr.Conflictf(apperr.TaskAlreadyInSprint, "taskIds",
				"task %s already belongs to sprint %s", t.ID, t.SprintID)
		}
		added = append(added, t.Clone())
	}

	sprint := current.Clone()
	now := s.clock.Now()
	for _, t := range added {
		sprint.AddTask(t.ID)
		t.SprintID = sprint.ID
		t.UpdatedAt = now
	}
	sprint.UpdatedAt = now

	if err := s.sprints.Update(sprint); err != nil {
		return nil, fmt.Errorf("adding tasks to sprint: %w", err)
	}
	for _, t := range added {
		if err := s.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("linking task %s to sprint: %w", t.ID, err)
		}
	}
	return sprint, nil
}

// RemoveTasks shrinks the membership. Only legal while Created, and
// every given id must currently be a member.
func (s *sprintService) RemoveTasks(id string, taskIDs []string) (*models.Sprint, error) {
	current, err := s.sprints.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	if current.Status != models.SprintCreated {
		return nil, apperr.Conflictf(apperr.SprintNotEditable, "status",
			"sprint %s membership can only change while Created", id)
	}
	ids := dedupe(taskIDs)
	if len(ids) == 0 {
		return nil, apperr.Validationf(apperr.TaskIDsRequired, "taskIds", "provide at least one task id")
	}
	for _, taskID := range ids {
		if !current.HasTask(taskID) {
			return nil, apperr.Validationf(apperr.TasksNotInSprint, "taskIds",
				"task %s is not a member of sprint %s", taskID, id)
		}
	}

	sprint := current.Clone()
	now := s.clock.Now()
	detached := make([]*models.Task, 0, len(ids))
	for _, taskID := range ids {
		sprint.RemoveTask(taskID)
		t, err := s.tasks.FindByID(taskID)
		if err != nil {
			return nil, err
		}
		if t != nil && t.SprintID == sprint.ID {
			c := t.Clone()
			c.SprintID = ""
			c.UpdatedAt = now
			detached = append(detached, c)
		}
	}
	sprint.UpdatedAt = now

	if err := s.sprints.Update(sprint); err != nil {
		return nil, fmt.Errorf("removing tasks from sprint: %w", err)
	}
	for _, t := range detached {
		if err := s.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("detaching task %s: %w", t.ID, err)
		}
	}
	return sprint, nil
}

// Start activates the sprint: it needs at least one member task, and
// derives the sprint due date from the planned effort and the daily
// capacity.
func (s *sprintService) Start(id string) (*models.Sprint, error) {
	current, err := s.sprints.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	if current.Status != models.SprintCreated {
		return nil, apperr.Conflictf(apperr.SprintAlreadyStarted, "status",
			"sprint %s was already started or closed", id)
	}
	if len(current.TaskIDs) == 0 {
		return nil, apperr.Conflictf(apperr.SprintTasksReqToStart, "taskIds",
			"sprint %s needs at least one task to start", id)
	}

	sprint := current.Clone()
	now := s.clock.Now()
	sprint.Status = models.SprintStarted
	sprint.StartedAt = &now

	totals, err := ComputeSprintTotals(sprint, s.tasks, s.policy)
	if err != nil {
		return nil, err
	}
	due := schedule.AddBusinessDays(now, wholeDays(totals.Days))
	sprint.DueDate = &due
	sprint.UpdatedAt = now

	if err := s.sprints.Update(sprint); err != nil {
		return nil, fmt.Errorf("starting sprint: %w", err)
	}

	s.record("sprint.started", "sprint started", map[string]any{"sprint_id": sprint.ID, "planned_days": totals.Days})
	return sprint, nil
}

// Close finishes the sprint. Every member task must be Concluída.
func (s *sprintService) Close(id string) (*models.Sprint, error) {
	current, err := s.sprints.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	if current.Status != models.SprintStarted {
		return nil, apperr.Conflictf(apperr.SprintNotStarted, "status", "sprint %s is not started", id)
	}
	for _, taskID := range current.TaskIDs {
		t, err := s.tasks.FindByID(taskID)
		if err != nil {
			return nil, err
		}
		if t != nil && t.SprintID == current.ID && t.Status != models.StatusDone {
			return nil, apperr.Conflictf(apperr.SprintHasUnfinished, "taskIds",
				"task %s is %s; close requires every task Concluída", t.ID, t.Status)
		}
	}

	sprint := current.Clone()
	now := s.clock.Now()
	sprint.Status = models.SprintClosed
	sprint.ClosedAt = &now
	sprint.UpdatedAt = now

	if err := s.sprints.Update(sprint); err != nil {
		return nil, fmt.Errorf("closing sprint: %w", err)
	}

	s.record("sprint.closed", "sprint closed", map[string]any{"sprint_id": sprint.ID})
	return sprint, nil
}

func (s *sprintService) record(eventType, message string, data map[string]any) {
	if s.events != nil {
		s.events.Record(eventType, message, data)
	}
}

// wholeDays coerces a fractional day figure to the whole-day count the
// calendar consumes: ceiling, at least 1.
func wholeDays(days float64) int {
	n := int(math.Ceil(days))
	if n < 1 {
		n = 1
	}
	return n
}

func clampCapacity(c models.Capacity) models.Capacity {
	return models.Capacity{
		Junior: clampHeadcount(c.Junior),
		Pleno:  clampHeadcount(c.Pleno),
		Senior: clampHeadcount(c.Senior),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
