package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/pkg/models"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints (create, start, close, capacity, membership)",
	Long: `Sprint lifecycle commands.

A sprint is created with a staffing mix (junior/pleno/senior headcounts),
collects tasks while still editable, then starts and eventually closes.
Starting derives the sprint due date from the planned effort and the
daily capacity of the mix.`,
}

func capacityFlags(cmd *cobra.Command) models.Capacity {
	junior, _ := cmd.Flags().GetInt("junior")
	pleno, _ := cmd.Flags().GetInt("pleno")
	senior, _ := cmd.Flags().GetInt("senior")
	return models.Capacity{Junior: junior, Pleno: pleno, Senior: senior}
}

func printSprint(s *models.Sprint) {
	fmt.Printf("%s  %s\n", s.ID, s.Name)
	fmt.Printf("  Status:   %s\n", s.Status)
	fmt.Printf("  Capacity: %d junior / %d pleno / %d senior\n",
		s.Capacity.Junior, s.Capacity.Pleno, s.Capacity.Senior)
	fmt.Printf("  Tasks:    %d\n", len(s.TaskIDs))
	if s.StartedAt != nil {
		fmt.Printf("  Started:  %s\n", s.StartedAt.Format("2006-01-02 15:04 UTC"))
	}
	if s.DueDate != nil {
		fmt.Printf("  Due:      %s\n", s.DueDate.Format("2006-01-02 15:04 UTC"))
	}
	if s.ClosedAt != nil {
		fmt.Printf("  Closed:   %s\n", s.ClosedAt.Format("2006-01-02 15:04 UTC"))
	}
}

var sprintCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new sprint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}

		name, _ := cmd.Flags().GetString("name")
		taskIDs, _ := cmd.Flags().GetStringSlice("tasks")
		requireTasks, _ := cmd.Flags().GetBool("require-tasks")

		sprint, err := Sprints.Create(core.CreateSprintInput{
			Name:         name,
			TaskIDs:      taskIDs,
			Capacity:     capacityFlags(cmd),
			RequireTasks: requireTasks,
		})
		if err != nil {
			return fmt.Errorf("creating sprint: %w", err)
		}

		fmt.Printf("Created sprint %s\n", sprint.ID)
		printSprint(sprint)
		return nil
	},
}

var sprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprints, err := Sprints.List()
		if err != nil {
			return fmt.Errorf("listing sprints: %w", err)
		}
		if len(sprints) == 0 {
			fmt.Println("No sprints found.")
			return nil
		}
		fmt.Printf("%-12s %-10s %-6s %s\n", "ID", "STATUS", "TASKS", "NAME")
		for _, s := range sprints {
			fmt.Printf("%-12s %-10s %-6d %s\n", s.ID, s.Status, len(s.TaskIDs), s.Name)
		}
		return nil
	},
}

var sprintShowCmd = &cobra.Command{
	Use:   "show <sprint-id>",
	Short: "Show sprint details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprint, err := Sprints.Get(args[0])
		if err != nil {
			return fmt.Errorf("getting sprint: %w", err)
		}
		if sprint == nil {
			return fmt.Errorf("sprint %s not found", args[0])
		}
		printSprint(sprint)
		for _, id := range sprint.TaskIDs {
			fmt.Printf("    - %s\n", id)
		}
		return nil
	},
}

var sprintStartCmd = &cobra.Command{
	Use:   "start <sprint-id>",
	Short: "Start a sprint",
	Long: `Start a sprint. The sprint must have at least one task. Its due date is
derived by dividing the planned effort hours by the daily capacity of
the staffing mix and walking that many business days from today.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprint, err := Sprints.Start(args[0])
		if err != nil {
			return fmt.Errorf("starting sprint: %w", err)
		}
		if sprint == nil {
			return fmt.Errorf("sprint %s not found", args[0])
		}
		fmt.Printf("Started sprint %s\n", sprint.ID)
		printSprint(sprint)
		return nil
	},
}

var sprintCloseCmd = &cobra.Command{
	Use:   "close <sprint-id>",
	Short: "Close a sprint (every task must be Concluída)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprint, err := Sprints.Close(args[0])
		if err != nil {
			return fmt.Errorf("closing sprint: %w", err)
		}
		if sprint == nil {
			return fmt.Errorf("sprint %s not found", args[0])
		}
		fmt.Printf("Closed sprint %s\n", sprint.ID)
		return nil
	},
}

var sprintCapacityCmd = &cobra.Command{
	Use:   "capacity <sprint-id>",
	Short: "Change a sprint's staffing mix",
	Long: `Replace the sprint's staffing mix. On a started sprint the sprint due
date is re-derived from the new throughput, and member tasks currently
Em Andamento have their due dates re-anchored to today.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprint, err := Sprints.SetCapacity(args[0], capacityFlags(cmd))
		if err != nil {
			return fmt.Errorf("setting capacity: %w", err)
		}
		if sprint == nil {
			return fmt.Errorf("sprint %s not found", args[0])
		}
		fmt.Printf("Updated capacity of sprint %s\n", sprint.ID)
		printSprint(sprint)
		return nil
	},
}

var sprintAddTasksCmd = &cobra.Command{
	Use:   "add-tasks <sprint-id> <task-id> [task-id...]",
	Short: "Add tasks to a sprint",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprint, err := Sprints.AddTasks(args[0], args[1:])
		if err != nil {
			return fmt.Errorf("adding tasks: %w", err)
		}
		if sprint == nil {
			return fmt.Errorf("sprint %s not found", args[0])
		}
		fmt.Printf("Sprint %s now has %d task(s)\n", sprint.ID, len(sprint.TaskIDs))
		return nil
	},
}

var sprintRemoveTasksCmd = &cobra.Command{
	Use:   "remove-tasks <sprint-id> <task-id> [task-id...]",
	Short: "Remove tasks from a sprint",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sprints == nil {
			return fmt.Errorf("sprint service not initialized")
		}
		sprint, err := Sprints.RemoveTasks(args[0], args[1:])
		if err != nil {
			return fmt.Errorf("removing tasks: %w", err)
		}
		if sprint == nil {
			return fmt.Errorf("sprint %s not found", args[0])
		}
		fmt.Printf("Sprint %s now has %d task(s)\n", sprint.ID, len(sprint.TaskIDs))
		return nil
	},
}

func init() {
	sprintCreateCmd.Flags().String("name", "", "Sprint name (required)")
	sprintCreateCmd.Flags().StringSlice("tasks", nil, "Initial task ids")
	sprintCreateCmd.Flags().Int("junior", 0, "Junior testers in the mix")
	sprintCreateCmd.Flags().Int("pleno", 0, "Mid-level testers in the mix")
	sprintCreateCmd.Flags().Int("senior", 0, "Senior testers in the mix")
	sprintCreateCmd.Flags().Bool("require-tasks", false, "Fail if no tasks are given")
	_ = sprintCreateCmd.MarkFlagRequired("name")

	sprintCapacityCmd.Flags().Int("junior", 0, "Junior testers in the mix")
	sprintCapacityCmd.Flags().Int("pleno", 0, "Mid-level testers in the mix")
	sprintCapacityCmd.Flags().Int("senior", 0, "Senior testers in the mix")

	sprintCmd.AddCommand(sprintCreateCmd, sprintListCmd, sprintShowCmd,
		sprintStartCmd, sprintCloseCmd, sprintCapacityCmd,
		sprintAddTasksCmd, sprintRemoveTasksCmd)
	rootCmd.AddCommand(sprintCmd)
}
