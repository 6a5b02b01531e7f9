package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var metricsSince string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show aggregated planner metrics from the event log",
	Long: `Aggregate planner events into counters: tasks created and deleted,
status transitions, blocks opened, sprints started and closed.

Use --since to set the time window (e.g. 24h, 7d, 30d). Defaults to 7d.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics not available (event log may be disabled)")
		}

		since, err := parseSince(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		m, err := MetricsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		fmt.Printf("Metrics since %s\n", since.Format("2006-01-02 15:04 UTC"))
		fmt.Printf("  Events:          %d\n", m.EventCount)
		fmt.Printf("  Tasks created:   %d\n", m.TasksCreated)
		fmt.Printf("  Tasks deleted:   %d\n", m.TasksDeleted)
		fmt.Printf("  Blocks opened:   %d\n", m.BlocksOpened)
		fmt.Printf("  Sprints started: %d\n", m.SprintsStarted)
		fmt.Printf("  Sprints closed:  %d\n", m.SprintsClosed)
		if len(m.TransitionsTo) > 0 {
			fmt.Println("  Transitions:")
			for status, n := range m.TransitionsTo {
				fmt.Printf("    %-14s %d\n", status, n)
			}
		}
		return nil
	},
}

// parseSince converts a window like "24h", "7d" or "30d" into a point
// in time.
func parseSince(s string) (time.Time, error) {
	if s == "" {
		s = "7d"
	}
	now := time.Now().UTC()
	if n := len(s); n > 1 && s[n-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s[:n-1], "%d", &days); err != nil {
			return time.Time{}, fmt.Errorf("invalid day count %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}

func init() {
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window (e.g. 24h, 7d, 30d)")
	rootCmd.AddCommand(metricsCmd)
}
