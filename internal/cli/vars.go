package cli

import (
	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string

	Tasks   core.TaskService
	Sprints core.SprintService
	Users   core.UserService
	Dash    core.DashboardService

	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
