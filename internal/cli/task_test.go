package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/internal/schedule"
	"github.com/testsprint/testsprint/internal/storage"
	"github.com/testsprint/testsprint/pkg/models"
)

func TestParseEstimate(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Estimate
		wantErr bool
	}{
		{"0.5,1,2.5", models.Estimate{O: 0.5, M: 1, P: 2.5}, false},
		{"1, 2, 3", models.Estimate{O: 1, M: 2, P: 3}, false},
		{"1,2", models.Estimate{}, true},
		{"1,2,3,4", models.Estimate{}, true},
		{"a,b,c", models.Estimate{}, true},
		{"", models.Estimate{}, true},
	}
	for _, tt := range tests {
		got, err := parseEstimate(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseEstimate(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseEstimate(%q): %v", tt.input, err)
			continue
		}
		if *got != tt.want {
			t.Errorf("parseEstimate(%q) = %+v, want %+v", tt.input, *got, tt.want)
		}
	}
}

// wireTestServices points the package-level service vars at in-memory
// implementations and restores them afterwards.
func wireTestServices(t *testing.T) {
	t.Helper()

	clock := schedule.FixedClock{T: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)}
	policy := core.DefaultPolicy()
	tasks := storage.NewMemoryTasks()
	sprints := storage.NewMemorySprints()
	users := storage.NewMemoryUsers(&models.User{ID: "USR-00001", Name: "Ana"})

	origTasks, origSprints, origUsers, origDash := Tasks, Sprints, Users, Dash
	t.Cleanup(func() {
		Tasks, Sprints, Users, Dash = origTasks, origSprints, origUsers, origDash
	})

	Tasks = core.NewTaskService(tasks, sprints, users, core.NewMemoryIDGenerator("TSK"), clock, policy, nil)
	Sprints = core.NewSprintService(sprints, tasks, core.NewMemoryIDGenerator("SPR"), clock, policy, nil)
	Users = core.NewUserService(users, core.NewMemoryIDGenerator("USR"), clock)
	Dash = core.NewDashboardService(sprints, tasks, clock, policy)
}

// resetFlags restores a command's flags to their defaults so tests do
// not leak state into each other.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

func TestTaskCreateCommand(t *testing.T) {
	wireTestServices(t)
	resetFlags(t, taskCreateCmd)

	cmd := taskCreateCmd
	for flag, value := range map[string]string{
		"title":         "Regression pass",
		"analysis":      "0.5,1,1.5",
		"execution":     "2,4,6",
		"retest":        "0.5,1,1.5",
		"documentation": "0.5,0.5,0.5",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("setting --%s: %v", flag, err)
		}
	}

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("task create failed: %v", err)
	}

	created, err := Tasks.Get("TSK-00001")
	if err != nil {
		t.Fatal(err)
	}
	if created == nil {
		t.Fatal("task not created")
	}
	if created.Title != "Regression pass" {
		t.Errorf("title = %q", created.Title)
	}
	// 1 + 4 + 1 + 0.5 expected hours across the four phases.
	if created.Totals == nil || created.Totals.Hours != 6.5 {
		t.Errorf("totals = %+v, want 6.5h", created.Totals)
	}
}

func TestTaskCreateCommand_MissingPhase(t *testing.T) {
	wireTestServices(t)
	resetFlags(t, taskCreateCmd)

	cmd := taskCreateCmd
	_ = cmd.Flags().Set("title", "Incompleta")
	_ = cmd.Flags().Set("analysis", "1,1,1")

	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatal("expected error with missing phases")
	}
}
