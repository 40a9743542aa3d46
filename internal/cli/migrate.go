package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/microshop/microshop/internal/config"
	"github.com/microshop/microshop/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users schema and table in PostgreSQL",
		Long:  "migrate creates USERS_SCHEMA and its users table when they do not exist. It is safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.UsersAPI)
			if err != nil {
				return err
			}
			initLogger(cfg, cmd.ErrOrStderr())
			return runMigrate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, err := repository.NewPostgres(connectCtx, cfg.DatabaseURL, cfg.UsersSchema)
	if err != nil {
		return fmt.Errorf("connect to database: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("migrate: %s", sanitizeError(err, cfg.DatabaseURL))
	}

	fmt.Fprintf(out, "users table ready in schema %q\n", cfg.UsersSchema)
	return nil
}
