// Package internal provides the App struct that wires all components of the
// sprint planner together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/testsprint/testsprint/internal/cli"
	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/internal/observability"
	"github.com/testsprint/testsprint/internal/schedule"
	"github.com/testsprint/testsprint/internal/storage"
)

// App holds all service dependencies for the sprint planner.
type App struct {
	BasePath string

	// Configuration
	Policy core.Policy

	// Storage layer
	TaskStore   *storage.TaskStore
	SprintStore *storage.SprintStore
	UserStore   *storage.UserStore

	// Core services
	Tasks   core.TaskService
	Sprints core.SprintService
	Users   core.UserService
	Dash    core.DashboardService

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of the planner. basePath is the
// directory where the planner keeps its data files (typically the directory
// pointed at by TESTSPRINT_HOME, or the current directory).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	policy, err := core.LoadPolicy(basePath)
	if err != nil {
		return nil, err
	}
	app.Policy = policy

	// --- Storage layer ---
	app.TaskStore = storage.NewTaskStore(basePath)
	if err := app.TaskStore.Load(); err != nil {
		return nil, err
	}
	app.SprintStore = storage.NewSprintStore(basePath)
	if err := app.SprintStore.Load(); err != nil {
		return nil, err
	}
	app.UserStore = storage.NewUserStore(basePath)
	if err := app.UserStore.Load(); err != nil {
		return nil, err
	}

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".testsprint_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: the planner works without an event trail.
		app.EventLog = nil
	}

	clock := schedule.SystemClock{}
	var events core.EventRecorder
	if app.EventLog != nil {
		events = observability.NewRecorder(app.EventLog, clock.Now)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	taskIDs := core.NewFileIDGenerator(basePath, "TSK", 5)
	sprintIDs := core.NewFileIDGenerator(basePath, "SPR", 5)
	userIDs := core.NewFileIDGenerator(basePath, "USR", 5)

	app.Tasks = core.NewTaskService(app.TaskStore, app.SprintStore, app.UserStore, taskIDs, clock, policy, events)
	app.Sprints = core.NewSprintService(app.SprintStore, app.TaskStore, sprintIDs, clock, policy, events)
	app.Users = core.NewUserService(app.UserStore, userIDs, clock)
	app.Dash = core.NewDashboardService(app.SprintStore, app.TaskStore, clock, policy)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Tasks = app.Tasks
	cli.Sprints = app.Sprints
	cli.Users = app.Users
	cli.Dash = app.Dash

	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory where planner data lives. It
// checks the TESTSPRINT_HOME env var, then walks up from the current
// directory looking for an existing data file, and falls back to cwd.
func ResolveBasePath() string {
	if home := os.Getenv("TESTSPRINT_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, storage.TasksFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
