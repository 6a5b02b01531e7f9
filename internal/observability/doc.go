// Package observability provides event logging and metrics for the
// planner. Lifecycle events (task creation, status changes, sprint
// start and close) are persisted as structured JSON Lines, and metrics
// are derived on demand from the event log.
package observability
