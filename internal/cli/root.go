// Package cli wires configuration, stores and HTTP routing into the
// microshop command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "microshop",
		Short:         "Users and products microservices",
		Long:          "microshop runs the users-api (PostgreSQL) and products-api (MongoDB) services, including the products and users composite view.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newProductsCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newDBCheckCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the command tree. ctx is cancelled on shutdown signals.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("microshop %s (%s)\n", version, commit)
		},
	}
}
