package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "testsprint",
	Short: "Test sprint planner with PERT estimation and business-day scheduling",
	Long: `testsprint plans and tracks test engineering work.

Tasks carry three-point (PERT) estimates per test phase, sprints carry a
staffing mix that converts effort hours into calendar days, and due dates
walk the business calendar. A dashboard reconciles real progress against
the expected pace and reports a traffic-light health signal.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("testsprint %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
