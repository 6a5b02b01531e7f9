package core

import (
	"testing"
	"time"

	"github.com/testsprint/testsprint/pkg/models"
)

func TestDashboard_MissingSprintReturnsNilNil(t *testing.T) {
	env := newTestEnv(t)
	got, err := env.dashSvc.Summary("SPR-99999")
	if err != nil || got != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", got, err)
	}
}

func TestDashboard_NotStartedIsGreen(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 1)
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID)

	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if d.SprintStartedFlg {
		t.Error("sprint reported as started")
	}
	if d.ExpectedPercent != 0 {
		t.Errorf("expected%% = %v, want 0 before start", d.ExpectedPercent)
	}
	if d.Light != models.LightGreen {
		t.Errorf("light = %s, want Verde", d.Light)
	}
}

func TestDashboard_BehindPaceIsRed(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 2) // 8h
	b := env.mustCreateTask(t, "Beta", 2) // 8h
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID, b.ID)
	env.mustStartSprint(t, sprint.ID)

	// 16h / 6h per day = 2.7 days, ceiling 3. Two business days in with
	// nothing done: 0% real against 66.7% expected.
	env.clock.t = time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC) // Wednesday
	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if d.RealPercent != 0 {
		t.Errorf("real%% = %v, want 0", d.RealPercent)
	}
	if d.ExpectedPercent != 66.7 {
		t.Errorf("expected%% = %v, want 66.7", d.ExpectedPercent)
	}
	if d.Light != models.LightRed {
		t.Errorf("light = %s, want Vermelho", d.Light)
	}
}

func TestDashboard_OnPaceWithBlockIsYellow(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 3) // 12h
	b := env.mustCreateTask(t, "Beta", 1) // 4h
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID, b.ID)
	env.mustStartSprint(t, sprint.ID)
	env.taskSvc.Assign(a.ID, "USR-00001")
	env.mustAdvance(t, a.ID, models.StatusInProgress, models.StatusDone)
	env.mustAdvance(t, b.ID, models.StatusInProgress, models.StatusBlocked)

	// Same day as the start: expected is still 0, real is 75. Ahead of
	// pace but carrying a block.
	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if d.RealPercent != 75.0 {
		t.Errorf("real%% = %v, want 75.0", d.RealPercent)
	}
	if d.Light != models.LightYellow {
		t.Errorf("light = %s, want Amarelo", d.Light)
	}
	if len(d.Blocked) != 1 {
		t.Fatalf("blocked list = %v, want one entry", d.Blocked)
	}
	if d.Blocked[0].ID != b.ID || d.Blocked[0].Motivo == "" {
		t.Errorf("blocked entry = %+v", d.Blocked[0])
	}
}

func TestDashboard_OnPaceCleanIsGreen(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 1)
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID)
	env.mustStartSprint(t, sprint.ID)
	env.taskSvc.Assign(a.ID, "USR-00001")
	env.mustAdvance(t, a.ID, models.StatusInProgress, models.StatusDone)

	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if d.RealPercent != 100.0 {
		t.Errorf("real%% = %v, want 100.0", d.RealPercent)
	}
	if d.Light != models.LightGreen {
		t.Errorf("light = %s, want Verde", d.Light)
	}
}

func TestDashboard_TasksByStatusCountsEveryBucket(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 1)
	b := env.mustCreateTask(t, "Beta", 1)
	c := env.mustCreateTask(t, "Gama", 1)
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID, b.ID, c.ID)
	env.mustStartSprint(t, sprint.ID)
	env.mustAdvance(t, a.ID, models.StatusInProgress)
	env.mustAdvance(t, b.ID, models.StatusInProgress, models.StatusBlocked)

	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	want := map[models.TaskStatus]int{
		models.StatusBacklog:    1,
		models.StatusInProgress: 1,
		models.StatusBlocked:    1,
		models.StatusDone:       0,
	}
	for st, n := range want {
		if d.TasksByStatus[st] != n {
			t.Errorf("count[%s] = %d, want %d", st, d.TasksByStatus[st], n)
		}
	}
}

func TestDashboard_BlockAgeInBusinessDays(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 1)
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID)
	env.mustStartSprint(t, sprint.ID)
	env.mustAdvance(t, a.ID, models.StatusInProgress, models.StatusBlocked) // blocked Monday

	// The following Monday: the weekend does not count.
	env.clock.t = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(d.Blocked) != 1 {
		t.Fatal("expected one blocked entry")
	}
	if d.Blocked[0].AgeBusinessDays != 5 {
		t.Errorf("block age = %d business days, want 5", d.Blocked[0].AgeBusinessDays)
	}
}

func TestDashboard_UnassignedTasks(t *testing.T) {
	env := newTestEnv(t)
	member := env.mustCreateTask(t, "Dentro", 1)
	loose := env.mustCreateTask(t, "Fora", 1)
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, member.ID)

	env.clock.t = time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC) // Wednesday
	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(d.Unassigned) != 1 {
		t.Fatalf("unassigned = %v, want only the loose task", d.Unassigned)
	}
	got := d.Unassigned[0]
	if got.ID != loose.ID {
		t.Errorf("unassigned id = %s, want %s", got.ID, loose.ID)
	}
	if got.AgeBusinessDays != 2 {
		t.Errorf("age = %d, want 2 business days since Monday", got.AgeBusinessDays)
	}
}

func TestDashboard_StaleLinksIgnored(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreateTask(t, "Alfa", 1)
	sprint := env.mustCreateSprint(t, "Onda", models.Capacity{Pleno: 1}, a.ID)

	// Corrupt one side of the link: the sprint lists a task that no
	// longer points back.
	task, _ := env.tasks.FindByID(a.ID)
	task.SprintID = ""
	if err := env.tasks.Update(task); err != nil {
		t.Fatal(err)
	}

	d, err := env.dashSvc.Summary(sprint.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	total := 0
	for _, n := range d.TasksByStatus {
		total += n
	}
	if total != 0 {
		t.Errorf("stale link counted: %v", d.TasksByStatus)
	}
}
