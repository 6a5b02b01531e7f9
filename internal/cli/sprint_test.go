package cli

import (
	"testing"

	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/pkg/models"
)

func TestSprintCreateAndStartCommands(t *testing.T) {
	wireTestServices(t)
	resetFlags(t, sprintCreateCmd)

	task, err := Tasks.Create(core.CreateTaskInput{
		Title: "Carga",
		Phases: models.PhaseSet{
			AnalysisModeling: &models.Estimate{O: 1, M: 1, P: 1},
			Execution:        &models.Estimate{O: 1, M: 1, P: 1},
			Retest:           &models.Estimate{O: 1, M: 1, P: 1},
			Documentation:    &models.Estimate{O: 1, M: 1, P: 1},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	cmd := sprintCreateCmd
	_ = cmd.Flags().Set("name", "Onda 1")
	_ = cmd.Flags().Set("tasks", task.ID)
	_ = cmd.Flags().Set("pleno", "1")
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("sprint create failed: %v", err)
	}

	sprint, err := Sprints.Get("SPR-00001")
	if err != nil || sprint == nil {
		t.Fatalf("sprint not created: (%v, %v)", sprint, err)
	}
	if !sprint.HasTask(task.ID) {
		t.Error("sprint missing its initial task")
	}

	if err := sprintStartCmd.RunE(sprintStartCmd, []string{sprint.ID}); err != nil {
		t.Fatalf("sprint start failed: %v", err)
	}
	started, _ := Sprints.Get(sprint.ID)
	if started.Status != models.SprintStarted {
		t.Errorf("status = %s, want Started", started.Status)
	}
}

func TestSprintStartCommand_NotFound(t *testing.T) {
	wireTestServices(t)
	if err := sprintStartCmd.RunE(sprintStartCmd, []string{"SPR-99999"}); err == nil {
		t.Fatal("expected not-found error")
	}
}
