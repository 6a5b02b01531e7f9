package core

import (
	"testing"
	"time"

	"github.com/testsprint/testsprint/internal/apperr"
	"github.com/testsprint/testsprint/internal/storage"
	"github.com/testsprint/testsprint/pkg/models"
)

// monday is the reference instant for every core test: a business day,
// mid-morning, UTC.
var monday = time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

// stepClock lets a test advance time between calls.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

type testEnv struct {
	tasks   *storage.MemoryTasks
	sprints *storage.MemorySprints
	users   *storage.MemoryUsers
	clock   *stepClock
	policy  Policy

	taskSvc   TaskService
	sprintSvc SprintService
	dashSvc   DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		tasks:   storage.NewMemoryTasks(),
		sprints: storage.NewMemorySprints(),
		users: storage.NewMemoryUsers(
			&models.User{ID: "USR-00001", Name: "Ana", CreatedAt: monday},
			&models.User{ID: "USR-00002", Name: "Rui", CreatedAt: monday},
		),
		clock:  &stepClock{t: monday},
		policy: DefaultPolicy(),
	}
	env.taskSvc = NewTaskService(env.tasks, env.sprints, env.users,
		NewMemoryIDGenerator("TSK"), env.clock, env.policy, nil)
	env.sprintSvc = NewSprintService(env.sprints, env.tasks,
		NewMemoryIDGenerator("SPR"), env.clock, env.policy, nil)
	env.dashSvc = NewDashboardService(env.sprints, env.tasks, env.clock, env.policy)
	return env
}

// phases builds a symmetric estimate set: every phase O=M=P=v, so the
// task totals v*4 hours exactly.
func phases(v float64) models.PhaseSet {
	e := func() *models.Estimate { return &models.Estimate{O: v, M: v, P: v} }
	return models.PhaseSet{
		AnalysisModeling: e(),
		Execution:        e(),
		Retest:           e(),
		Documentation:    e(),
	}
}

func (env *testEnv) mustCreateTask(t *testing.T, title string, v float64) *models.Task {
	t.Helper()
	task, err := env.taskSvc.Create(CreateTaskInput{Title: title, Phases: phases(v)})
	if err != nil {
		t.Fatalf("creating task %q: %v", title, err)
	}
	return task
}

func (env *testEnv) mustCreateSprint(t *testing.T, name string, c models.Capacity, taskIDs ...string) *models.Sprint {
	t.Helper()
	sprint, err := env.sprintSvc.Create(CreateSprintInput{Name: name, Capacity: c, TaskIDs: taskIDs})
	if err != nil {
		t.Fatalf("creating sprint %q: %v", name, err)
	}
	return sprint
}

func (env *testEnv) mustStartSprint(t *testing.T, id string) *models.Sprint {
	t.Helper()
	sprint, err := env.sprintSvc.Start(id)
	if err != nil {
		t.Fatalf("starting sprint %s: %v", id, err)
	}
	return sprint
}

// mustAdvance walks a task through the given statuses, failing the test
// on any rejected step. Blocked steps use a canned block payload.
func (env *testEnv) mustAdvance(t *testing.T, taskID string, statuses ...models.TaskStatus) *models.Task {
	t.Helper()
	var task *models.Task
	var err error
	for _, st := range statuses {
		var block *BlockInput
		if st == models.StatusBlocked {
			block = &BlockInput{Motivo: "aguardando ambiente", ResponsavelID: "USR-00002"}
		}
		task, err = env.taskSvc.Transition(taskID, st, block)
		if err != nil {
			t.Fatalf("transitioning %s to %s: %v", taskID, st, err)
		}
	}
	return task
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := apperr.CodeOf(err); got != code {
		t.Fatalf("error code = %q, want %q (err: %v)", got, code, err)
	}
}
