package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	TasksCreated      int            `json:"tasks_created"`
	TasksDeleted      int            `json:"tasks_deleted"`
	TransitionsTo     map[string]int `json:"transitions_to"`
	BlocksOpened      int            `json:"blocks_opened"`
	SprintsStarted    int            `json:"sprints_started"`
	SprintsClosed     int            `json:"sprints_closed"`
	CapacityChanges   int            `json:"capacity_changes"`
	EventCount        int            `json:"event_count"`
	OldestEvent       *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		TransitionsTo: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "task.created":
			m.TasksCreated++
		case "task.deleted":
			m.TasksDeleted++
		case "task.status_changed":
			if to, ok := event.Data["to"].(string); ok {
				m.TransitionsTo[to]++
				if to == "Bloqueada" {
					m.BlocksOpened++
				}
			}
		case "sprint.started":
			m.SprintsStarted++
		case "sprint.closed":
			m.SprintsClosed++
		case "sprint.capacity_changed":
			m.CapacityChanges++
		}
	}

	return m, nil
}
