package observability

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) EventLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestMetrics_Calculate(t *testing.T) {
	log := newTestLog(t)
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	events := []Event{
		{Time: base, Level: "INFO", Type: "task.created", Message: "created"},
		{Time: base.Add(time.Minute), Level: "INFO", Type: "task.created", Message: "created"},
		{Time: base.Add(2 * time.Minute), Level: "INFO", Type: "sprint.started", Message: "started"},
		{Time: base.Add(3 * time.Minute), Level: "INFO", Type: "task.status_changed", Message: "moved",
			Data: map[string]any{"to": "Em Andamento"}},
		{Time: base.Add(4 * time.Minute), Level: "INFO", Type: "task.status_changed", Message: "moved",
			Data: map[string]any{"to": "Bloqueada"}},
		{Time: base.Add(5 * time.Minute), Level: "INFO", Type: "sprint.capacity_changed", Message: "capacity"},
		{Time: base.Add(6 * time.Minute), Level: "INFO", Type: "task.deleted", Message: "deleted"},
		{Time: base.Add(7 * time.Minute), Level: "INFO", Type: "sprint.closed", Message: "closed"},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	m, err := NewMetricsCalculator(log).Calculate(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if m.TasksCreated != 2 {
		t.Errorf("tasks created = %d, want 2", m.TasksCreated)
	}
	if m.TasksDeleted != 1 {
		t.Errorf("tasks deleted = %d, want 1", m.TasksDeleted)
	}
	if m.SprintsStarted != 1 || m.SprintsClosed != 1 {
		t.Errorf("sprints started/closed = %d/%d, want 1/1", m.SprintsStarted, m.SprintsClosed)
	}
	if m.CapacityChanges != 1 {
		t.Errorf("capacity changes = %d, want 1", m.CapacityChanges)
	}
	if m.TransitionsTo["Em Andamento"] != 1 || m.TransitionsTo["Bloqueada"] != 1 {
		t.Errorf("transitions = %v", m.TransitionsTo)
	}
	if m.BlocksOpened != 1 {
		t.Errorf("blocks opened = %d, want 1", m.BlocksOpened)
	}
	if m.EventCount != len(events) {
		t.Errorf("event count = %d, want %d", m.EventCount, len(events))
	}
	if m.OldestEvent == nil || !m.OldestEvent.Equal(base) {
		t.Errorf("oldest = %v, want %v", m.OldestEvent, base)
	}
	if m.NewestEvent == nil || !m.NewestEvent.Equal(base.Add(7*time.Minute)) {
		t.Errorf("newest = %v", m.NewestEvent)
	}
}

func TestMetrics_SinceCutoff(t *testing.T) {
	log := newTestLog(t)
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	old := Event{Time: base, Level: "INFO", Type: "task.created", Message: "old"}
	recent := Event{Time: base.Add(time.Hour), Level: "INFO", Type: "task.created", Message: "recent"}
	for _, e := range []Event{old, recent} {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	m, err := NewMetricsCalculator(log).Calculate(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if m.TasksCreated != 1 {
		t.Errorf("tasks created = %d, want only the recent one", m.TasksCreated)
	}
}
