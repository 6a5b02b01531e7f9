package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	tsmcp "github.com/testsprint/testsprint/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the testsprint MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the testsprint MCP server on stdio",
	Long: `Start the testsprint MCP server on stdio transport.

The server exposes planner functionality as MCP tools that AI coding
assistants can call: get_task, list_tasks, get_sprint, sprint_dashboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil || Sprints == nil || Dash == nil {
			return fmt.Errorf("services not initialized")
		}

		srv := tsmcp.NewServer(Tasks, Sprints, Dash, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
