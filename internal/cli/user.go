package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user registry",
	Long: `User registry commands.

Tasks reference users as assignees and as responsibles for blocks, so
both must exist here first.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Users == nil {
			return fmt.Errorf("user service not initialized")
		}
		email, _ := cmd.Flags().GetString("email")
		u, err := Users.Create(args[0], email)
		if err != nil {
			return fmt.Errorf("adding user: %w", err)
		}
		fmt.Printf("Added user %s (%s)\n", u.ID, u.Name)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Users == nil {
			return fmt.Errorf("user service not initialized")
		}
		users, err := Users.List()
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users registered.")
			return nil
		}
		fmt.Printf("%-12s %-24s %s\n", "ID", "NAME", "EMAIL")
		for _, u := range users {
			fmt.Printf("%-12s %-24s %s\n", u.ID, u.Name, u.Email)
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("email", "", "User email")
	userCmd.AddCommand(userAddCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}
