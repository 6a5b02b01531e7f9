package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/testsprint/testsprint/internal/apperr"
	"github.com/testsprint/testsprint/internal/estimate"
	"github.com/testsprint/testsprint/internal/schedule"
	"github.com/testsprint/testsprint/pkg/models"
)

// CreateTaskInput carries the fields accepted at task creation.
type CreateTaskInput struct {
	Title        string
	Description  string
	Phases       models.PhaseSet
	Risco        string
	Complexidade string
	SprintID     string
	CreatedBy    string
}

// UpdateTaskInput carries partial task updates. Nil fields are left
// untouched; a non-nil empty SprintID detaches the task from its sprint.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Phases       *models.PhaseSet
	Risco        *string
	Complexidade *string
	SprintID     *string
}

// BlockInput is the payload required when transitioning to Bloqueada.
type BlockInput struct {
	Motivo        string
	ResponsavelID string
}

// TaskFilter selects tasks in List. Zero values match everything.
type TaskFilter struct {
	Status       models.TaskStatus
	SprintID     string
	AssigneeID   string
	Risco        string
	Complexidade string
}

// TaskService owns the task lifecycle: creation, estimation, the status
// state machine with its cross-entity guards, and sprint linkage.
// State-changing operations return (nil, nil) when the target id does
// not resolve; validation and consistency failures are typed
// *apperr.Error values and commit no state.
type TaskService interface {
	Create(in CreateTaskInput) (*models.Task, error)
	Get(id string) (*models.Task, error)
	List(f TaskFilter) ([]*models.Task, error)
	Update(id string, in UpdateTaskInput) (*models.Task, error)
	Assign(id, userID string) (*models.Task, error)
	Transition(id string, target models.TaskStatus, block *BlockInput) (*models.Task, error)
	Delete(id string) (bool, error)
}

type taskService struct {
	tasks   TaskRepository
	sprints SprintRepository
	users   UserRepository
	ids     IDGenerator
	clock   schedule.Clock
	policy  Policy
	events  EventRecorder
}

// NewTaskService creates a TaskService with all dependencies injected.
// events may be nil to disable event emission.
func NewTaskService(tasks TaskRepository, sprints SprintRepository, users UserRepository, ids IDGenerator, clock schedule.Clock, policy Policy, events EventRecorder) TaskService {
	return &taskService{
		tasks:   tasks,
		sprints: sprints,
		users:   users,
		ids:     ids,
		clock:   clock,
		policy:  policy,
		events:  events,
	}
}

func (s *taskService) Create(in CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validationf(apperr.TitleRequired, "title", "title must not be empty")
	}

	totals, err := estimate.TaskTotals(in.Phases, s.policy.ProductiveHoursPerDay)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, fmt.Errorf("generating task id: %w", err)
	}

	now := s.clock.Now()
	t := &models.Task{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Phases:       in.Phases,
		Totals:       &totals,
		Status:       models.StatusBacklog,
		Risco:        in.Risco,
		Complexidade: in.Complexidade,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Optional initial sprint linkage, validated before anything is
	// committed so a rejected link leaves no orphan task behind.
	var sprint *models.Sprint
	if in.SprintID != "" {
		sprint, err = s.attachableSprint(in.SprintID)
		if err != nil {
			return nil, err
		}
		t.SprintID = sprint.ID
		sprint.AddTask(t.ID)
		sprint.UpdatedAt = now
	}

	if err := s.tasks.Add(t); err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	if sprint != nil {
		if err := s.sprints.Update(sprint); err != nil {
			return nil, fmt.Errorf("linking task to sprint: %w", err)
		}
	}

	s.record("task.created", "task created", map[string]any{"task_id": t.ID, "title": t.Title})
	return t, nil
}

func (s *taskService) Get(id string) (*models.Task, error) {
	t, err := s.tasks.FindByID(id)
	if err != nil || t == nil {
		return nil, err
	}
	// Totals are derived state; fill them on first read rather than
	// serving a task without an effort figure.
	if t.Totals == nil {
		totals, err := estimate.TaskTotals(t.Phases, s.policy.ProductiveHoursPerDay)
		if err != nil {
			return nil, err
		}
		t.Totals = &totals
		if err := s.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("caching task totals: %w", err)
		}
	}
	return t, nil
}

func (s *taskService) List(f TaskFilter) ([]*models.Task, error) {
	all, err := s.tasks.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Task, 0, len(all))
	for _, t := range all {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.SprintID != "" && t.SprintID != f.SprintID {
			continue
		}
		if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
			continue
		}
		if f.Risco != "" && t.Risco != f.Risco {
			continue
		}
		if f.Complexidade != "" && t.Complexidade != f.Complexidade {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *taskService) Update(id string, in UpdateTaskInput) (*models.Task, error) {
	current, err := s.tasks.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	t := current.Clone()
	now := s.clock.Now()

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validationf(apperr.TitleRequired, "title", "title must not be empty")
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Risco != nil {
		t.Risco = *in.Risco
	}
	if in.Complexidade != nil {
		t.Complexidade = *in.Complexidade
	}

	if in.Phases != nil {
		totals, err := estimate.TaskTotals(*in.Phases, s.policy.ProductiveHoursPerDay)
		if err != nil {
			return nil, err
		}
		t.Phases = *in.Phases
		t.Totals = &totals
		if t.Status == models.StatusInProgress {
			due := s.dueDate(now, totals.Days)
			t.DueDate = &due
		}
	}

	// Sprint reassignment goes through the shared linkage path so the
	// bidirectional membership invariant holds on both sides.
	var touched []*models.Sprint
	if in.SprintID != nil && *in.SprintID != t.SprintID {
		touched, err = s.relink(t, *in.SprintID, now)
		if err != nil {
			return nil, err
		}
	}

	t.UpdatedAt = now
	for _, sp := range touched {
		if err := s.sprints.Update(sp); err != nil {
			return nil, fmt.Errorf("updating sprint membership: %w", err)
		}
	}
	if err := s.tasks.Update(t); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.record("task.updated", "task updated", map[string]any{"task_id": t.ID})
	return t, nil
}

// relink validates and applies a sprint membership change on the cloned
// task, returning the sprints whose membership changed. Nothing is
// persisted here; the caller commits both sides together.
func (s *taskService) relink(t *models.Task, targetID string, now time.Time) ([]*models.Sprint, error) {
	if targetID == "" {
		// Detach. A task without a sprint may only exist in Backlog.
		if t.Status != models.StatusBacklog {
			return nil, apperr.Conflictf(apperr.StatusWithoutSprint, "sprintId",
				"task %s is %s and cannot leave its sprint", t.ID, t.Status)
		}
		former, err := s.sprints.FindByID(t.SprintID)
		if err != nil {
			return nil, err
		}
		t.SprintID = ""
		if former != nil && former.RemoveTask(t.ID) {
			former.UpdatedAt = now
			return []*models.Sprint{former}, nil
		}
		return nil, nil
	}

	// Attach. Moving between sprints requires an explicit detach first.
	if t.SprintID != "" {
		return nil, apperr.Conflictf(apperr.TaskAlreadyInSprint, "sprintId",
			"task %s already belongs to sprint %s", t.ID, t.SprintID)
	}
	target, err := s.attachableSprint(targetID)
	if err != nil {
		return nil, err
	}
	t.SprintID = target.ID
	target.AddTask(t.ID)
	target.UpdatedAt = now
	return []*models.Sprint{target}, nil
}

func (s *taskService) Assign(id, userID string) (*models.Task, error) {
	current, err := s.tasks.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Validationf(apperr.AssigneeNotFound, "userId", "user %s does not exist", userID)
	}

	t := current.Clone()
	t.AssigneeID = user.ID
	t.UpdatedAt = s.clock.Now()
	if err := s.tasks.Update(t); err != nil {
		return nil, fmt.Errorf("assigning task: %w", err)
	}

	s.record("task.assigned", "task assigned", map[string]any{"task_id": t.ID, "assignee_id": user.ID})
	return t, nil
}

// Transition applies the status state machine. Guards run in a fixed
// order and are side-effect-free; the task is persisted once, after
// every check has passed.
func (s *taskService) Transition(id string, target models.TaskStatus, block *BlockInput) (*models.Task, error) {
	current, err := s.tasks.FindByID(id)
	if err != nil || current == nil {
		return nil, err
	}
	t := current.Clone()
	from := t.Status
	now := s.clock.Now()

	// 1. Target must be a known status.
	if !target.Valid() {
		return nil, apperr.Validationf(apperr.InvalidStatus, "status", "invalid status %q", target)
	}

	// 2. A task outside any sprint lives in Backlog only.
	if t.SprintID == "" {
		if target != models.StatusBacklog {
			return nil, apperr.Conflictf(apperr.StatusWithoutSprint, "status",
				"task %s has no sprint and may only be in Backlog", t.ID)
		}
	} else {
		// 3. The sprint must exist and be active.
		sprint, err := s.sprints.FindByID(t.SprintID)
		if err != nil {
			return nil, err
		}
		if sprint == nil {
			return nil, apperr.Validationf(apperr.TaskSprintNotFound, "sprintId",
				"sprint %s referenced by task %s does not exist", t.SprintID, t.ID)
		}
		if sprint.Status != models.SprintStarted {
			return nil, apperr.Conflictf(apperr.SprintNotStartedForTask, "status",
				"sprint %s is not started; task %s cannot change status", sprint.ID, t.ID)
		}
	}

	// 4. The edge must exist in the lifecycle graph.
	if !from.CanTransitionTo(target) {
		return nil, apperr.Conflictf(apperr.InvalidTransition, "status", "%s -> %s", from, target)
	}

	// 5. Entering Em Andamento: refresh totals and derive the due date.
	if target == models.StatusInProgress {
		totals, err := estimate.TaskTotals(t.Phases, s.policy.ProductiveHoursPerDay)
		if err != nil {
			return nil, err
		}
		t.Totals = &totals
		due := s.dueDate(now, totals.Days)
		t.DueDate = &due
	}

	// 6. Entering Concluída: an assignee is mandatory and the estimate
	// must still validate.
	if target == models.StatusDone {
		if t.AssigneeID == "" {
			return nil, apperr.Conflictf(apperr.MissingAssignee, "assigneeId",
				"set an assignee before completing task %s", t.ID)
		}
		totals, err := estimate.TaskTotals(t.Phases, s.policy.ProductiveHoursPerDay)
		if err != nil {
			return nil, err
		}
		t.Totals = &totals
	}

	// 7. Entering Bloqueada: a reason and an existing responsible are
	// required; the block record opens now.
	if target == models.StatusBlocked {
		if block == nil || block.Motivo == "" || block.ResponsavelID == "" {
			return nil, apperr.Validationf(apperr.BlockInfoRequired, "block",
				"blocking requires motivo and responsavelId")
		}
		resp, err := s.users.FindByID(block.ResponsavelID)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, apperr.Validationf(apperr.BlockRespNotFound, "responsavelId",
				"user %s does not exist", block.ResponsavelID)
		}
		t.Block = &models.Block{
			Motivo:        block.Motivo,
			ResponsavelID: block.ResponsavelID,
			BlockedAt:     now,
		}
	}

	// 8. Leaving Bloqueada: stamp the open block as resolved.
	if from == models.StatusBlocked && target == models.StatusInProgress {
		if t.Block != nil && t.Block.ResolvedAt == nil {
			resolved := now
			t.Block.ResolvedAt = &resolved
		}
	}

	t.Status = target
	t.UpdatedAt = now
	if err := s.tasks.Update(t); err != nil {
		return nil, fmt.Errorf("transitioning task: %w", err)
	}

	s.record("task.status_changed", "task status changed", map[string]any{
		"task_id": t.ID, "from": string(from), "to": string(target),
	})
	return t, nil
}

func (s *taskService) Delete(id string) (bool, error) {
	t, err := s.tasks.FindByID(id)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}

	if t.SprintID != "" {
		sprint, err := s.sprints.FindByID(t.SprintID)
		if err != nil {
			return false, err
		}
		if sprint != nil && sprint.RemoveTask(t.ID) {
			sprint.UpdatedAt = s.clock.Now()
			if err := s.sprints.Update(sprint); err != nil {
				return false, fmt.Errorf("detaching task from sprint: %w", err)
			}
		}
	}

	if err := s.tasks.Remove(id); err != nil {
		return false, fmt.Errorf("removing task: %w", err)
	}

	s.record("task.deleted", "task deleted", map[string]any{"task_id": id})
	return true, nil
}

// attachableSprint resolves a sprint a task may be attached to: it must
// exist and still be editable.
func (s *taskService) attachableSprint(sprintID string) (*models.Sprint, error) {
	sprint, err := s.sprints.FindByID(sprintID)
	if err != nil {
		return nil, err
	}
	if sprint == nil {
		return nil, apperr.Validationf(apperr.SprintNotFound, "sprintId", "sprint %s does not exist", sprintID)
	}
	if sprint.Status != models.SprintCreated {
		return nil, apperr.Conflictf(apperr.SprintNotEditable, "sprintId",
			"sprint %s membership can only change while Created", sprintID)
	}
	return sprint, nil
}

// dueDate derives a task due date: at least one business day out from
// now, normalized to the workday cutoff.
func (s *taskService) dueDate(now time.Time, totalDays int) time.Time {
	days := totalDays
	if days < 1 {
		days = 1
	}
	landed := schedule.AddBusinessDays(now, days)
	return schedule.EndOfWorkday(landed, s.policy.WorkdayEndHour, s.policy.WorkdayEndMinute)
}

func (s *taskService) record(eventType, message string, data map[string]any) {
	if s.events != nil {
		s.events.Record(eventType, message, data)
	}
}
