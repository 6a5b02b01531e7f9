package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (create, list, show, update, assign, move, delete)",
	Long: `Unified task management commands.

Create tasks with per-phase PERT estimates, inspect and update them,
assign owners, move them through the lifecycle, and delete them.`,
}

// parseEstimate parses an "O,M,P" triple such as "0.5,1,2.5".
func parseEstimate(value string) (*models.Estimate, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected O,M,P (three comma-separated numbers), got %q", value)
	}
	nums := make([]float64, 3)
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		nums[i] = n
	}
	return &models.Estimate{O: nums[0], M: nums[1], P: nums[2]}, nil
}

// phaseFlags collects the four per-phase estimate flags into a PhaseSet.
// Only flags that were actually set produce a phase; absent phases stay
// nil so the estimator can report them as missing.
func phaseFlags(cmd *cobra.Command) (models.PhaseSet, error) {
	var set models.PhaseSet
	flags := []struct {
		name string
		dst  **models.Estimate
	}{
		{"analysis", &set.AnalysisModeling},
		{"execution", &set.Execution},
		{"retest", &set.Retest},
		{"documentation", &set.Documentation},
	}
	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		raw, _ := cmd.Flags().GetString(f.name)
		est, err := parseEstimate(raw)
		if err != nil {
			return set, fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.dst = est
	}
	return set, nil
}

func printTask(t *models.Task) {
	fmt.Printf("%s  %s\n", t.ID, t.Title)
	fmt.Printf("  Status:    %s\n", t.Status)
	if t.Totals != nil {
		fmt.Printf("  Effort:    %.1fh (%d business days)\n", t.Totals.Hours, t.Totals.Days)
	}
	if t.AssigneeID != "" {
		fmt.Printf("  Assignee:  %s\n", t.AssigneeID)
	}
	if t.SprintID != "" {
		fmt.Printf("  Sprint:    %s\n", t.SprintID)
	}
	if t.DueDate != nil {
		fmt.Printf("  Due:       %s\n", t.DueDate.Format("2006-01-02 15:04 UTC"))
	}
	if t.Risco != "" {
		fmt.Printf("  Risk:      %s\n", t.Risco)
	}
	if t.Complexidade != "" {
		fmt.Printf("  Complexity: %s\n", t.Complexidade)
	}
	if t.Block != nil && t.Block.ResolvedAt == nil {
		fmt.Printf("  Blocked:   %s (responsible: %s, since %s)\n",
			t.Block.Motivo, t.Block.ResponsavelID, t.Block.BlockedAt.Format("2006-01-02"))
	}
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task with PERT phase estimates",
	Long: `Create a task. Each test phase takes an optimistic, most likely, and
pessimistic estimate in hours, written as O,M,P:

  testsprint task create --title "Regression pass" \
    --analysis 0.5,1,2 --execution 2,4,8 --retest 0.5,1,1.5 --documentation 0.5,0.5,1

All four phases are required. Total effort is the sum of the PERT
expected values, converted to business days at the configured
productive-hours rate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}

		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		risco, _ := cmd.Flags().GetString("risk")
		complexidade, _ := cmd.Flags().GetString("complexity")
		sprintID, _ := cmd.Flags().GetString("sprint")
		createdBy, _ := cmd.Flags().GetString("created-by")

		set, err := phaseFlags(cmd)
		if err != nil {
			return err
		}

		task, err := Tasks.Create(core.CreateTaskInput{
			Title:        title,
			Description:  description,
			Phases:       set,
			Risco:        risco,
			Complexidade: complexidade,
			SprintID:     sprintID,
			CreatedBy:    createdBy,
		})
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		fmt.Printf("Created task %s\n", task.ID)
		printTask(task)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}

		status, _ := cmd.Flags().GetString("status")
		sprintID, _ := cmd.Flags().GetString("sprint")
		assignee, _ := cmd.Flags().GetString("assignee")

		tasks, err := Tasks.List(core.TaskFilter{
			Status:     models.TaskStatus(status),
			SprintID:   sprintID,
			AssigneeID: assignee,
		})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("%-12s %-14s %-10s %-12s %s\n", "ID", "STATUS", "EFFORT", "SPRINT", "TITLE")
		for _, t := range tasks {
			effort := "-"
			if t.Totals != nil {
				effort = fmt.Sprintf("%.1fh/%dd", t.Totals.Hours, t.Totals.Days)
			}
			sprint := t.SprintID
			if sprint == "" {
				sprint = "-"
			}
			fmt.Printf("%-12s %-14s %-10s %-12s %s\n", t.ID, t.Status, effort, sprint, t.Title)
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show full task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}
		task, err := Tasks.Get(args[0])
		if err != nil {
			return fmt.Errorf("getting task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task %s not found", args[0])
		}
		printTask(task)
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update task fields or re-estimate phases",
	Long: `Update a task. Only the flags you pass are changed. Passing any phase
flag re-runs the PERT estimate over the full set of phases currently on
the task, with the given phases replaced.

Use --sprint to attach the task to a sprint, or --detach to remove it
from its current one (only possible while the task is in Backlog).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}

		var in core.UpdateTaskInput
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			in.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			in.Description = &v
		}
		if cmd.Flags().Changed("risk") {
			v, _ := cmd.Flags().GetString("risk")
			in.Risco = &v
		}
		if cmd.Flags().Changed("complexity") {
			v, _ := cmd.Flags().GetString("complexity")
			in.Complexidade = &v
		}
		if cmd.Flags().Changed("sprint") {
			v, _ := cmd.Flags().GetString("sprint")
			in.SprintID = &v
		}
		if detach, _ := cmd.Flags().GetBool("detach"); detach {
			empty := ""
			in.SprintID = &empty
		}

		anyPhase := cmd.Flags().Changed("analysis") || cmd.Flags().Changed("execution") ||
			cmd.Flags().Changed("retest") || cmd.Flags().Changed("documentation")
		if anyPhase {
			current, err := Tasks.Get(args[0])
			if err != nil {
				return fmt.Errorf("getting task: %w", err)
			}
			if current == nil {
				return fmt.Errorf("task %s not found", args[0])
			}
			set, err := phaseFlags(cmd)
			if err != nil {
				return err
			}
			merged := current.Phases
			if set.AnalysisModeling != nil {
				merged.AnalysisModeling = set.AnalysisModeling
			}
			if set.Execution != nil {
				merged.Execution = set.Execution
			}
			if set.Retest != nil {
				merged.Retest = set.Retest
			}
			if set.Documentation != nil {
				merged.Documentation = set.Documentation
			}
			in.Phases = &merged
		}

		task, err := Tasks.Update(args[0], in)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task %s not found", args[0])
		}

		fmt.Printf("Updated task %s\n", task.ID)
		printTask(task)
		return nil
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign <task-id> <user-id>",
	Short: "Assign a task to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}
		task, err := Tasks.Assign(args[0], args[1])
		if err != nil {
			return fmt.Errorf("assigning task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task %s not found", args[0])
		}
		fmt.Printf("Assigned %s to %s\n", task.ID, task.AssigneeID)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task through the lifecycle",
	Long: `Move a task to a new status. Valid statuses: Backlog, "Em Andamento",
Bloqueada, "Concluída".

Moving to Bloqueada requires --reason and --responsible. Moving to
"Em Andamento" derives a due date from the task's effort and the
business calendar. Moving to "Concluída" requires an assignee.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}

		var block *core.BlockInput
		reason, _ := cmd.Flags().GetString("reason")
		responsible, _ := cmd.Flags().GetString("responsible")
		if reason != "" || responsible != "" {
			block = &core.BlockInput{Motivo: reason, ResponsavelID: responsible}
		}

		task, err := Tasks.Transition(args[0], models.TaskStatus(args[1]), block)
		if err != nil {
			return fmt.Errorf("moving task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task %s not found", args[0])
		}

		fmt.Printf("Task %s is now %s\n", task.ID, task.Status)
		if task.DueDate != nil && task.Status == models.StatusInProgress {
			fmt.Printf("  Due: %s\n", task.DueDate.Format("2006-01-02 15:04 UTC"))
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task service not initialized")
		}
		ok, err := Tasks.Delete(args[0])
		if err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		if !ok {
			return fmt.Errorf("task %s not found", args[0])
		}
		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

// completeTaskStatuses returns valid status values for shell completion.
func completeTaskStatuses(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"Backlog\tNot yet started",
		"Em Andamento\tIn progress",
		"Bloqueada\tBlocked on an impediment",
		"Concluída\tDone",
	}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	taskCreateCmd.Flags().String("title", "", "Task title (required)")
	taskCreateCmd.Flags().String("description", "", "Task description")
	taskCreateCmd.Flags().String("analysis", "", "Analysis/modeling estimate as O,M,P hours")
	taskCreateCmd.Flags().String("execution", "", "Execution estimate as O,M,P hours")
	taskCreateCmd.Flags().String("retest", "", "Retest estimate as O,M,P hours")
	taskCreateCmd.Flags().String("documentation", "", "Documentation estimate as O,M,P hours")
	taskCreateCmd.Flags().String("risk", "", "Risk rating (baixo, medio, alto)")
	taskCreateCmd.Flags().String("complexity", "", "Complexity rating (baixa, media, alta)")
	taskCreateCmd.Flags().String("sprint", "", "Sprint to attach the task to")
	taskCreateCmd.Flags().String("created-by", "", "User creating the task")
	_ = taskCreateCmd.MarkFlagRequired("title")

	taskListCmd.Flags().String("status", "", "Filter by status")
	taskListCmd.Flags().String("sprint", "", "Filter by sprint id")
	taskListCmd.Flags().String("assignee", "", "Filter by assignee id")
	_ = taskListCmd.RegisterFlagCompletionFunc("status", completeTaskStatuses)

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().String("description", "", "New description")
	taskUpdateCmd.Flags().String("analysis", "", "Analysis/modeling estimate as O,M,P hours")
	taskUpdateCmd.Flags().String("execution", "", "Execution estimate as O,M,P hours")
	taskUpdateCmd.Flags().String("retest", "", "Retest estimate as O,M,P hours")
	taskUpdateCmd.Flags().String("documentation", "", "Documentation estimate as O,M,P hours")
	taskUpdateCmd.Flags().String("risk", "", "New risk rating")
	taskUpdateCmd.Flags().String("complexity", "", "New complexity rating")
	taskUpdateCmd.Flags().String("sprint", "", "Attach to this sprint")
	taskUpdateCmd.Flags().Bool("detach", false, "Detach from the current sprint")

	taskMoveCmd.Flags().String("reason", "", "Block reason (required when moving to Bloqueada)")
	taskMoveCmd.Flags().String("responsible", "", "User responsible for resolving the block")
	_ = taskMoveCmd.RegisterFlagCompletionFunc("responsible", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	})

	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskShowCmd, taskUpdateCmd,
		taskAssignCmd, taskMoveCmd, taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
