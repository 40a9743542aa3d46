package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/microshop/microshop/internal/config"
	"github.com/microshop/microshop/internal/repository"
)

// Supported dbcheck backends.
const (
	backendPostgres = "postgres"
	backendMongo    = "mongo"
)

func newDBCheckCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "dbcheck",
		Short: "Connect to a backing store, ping it and disconnect",
		Long:  "dbcheck verifies that DATABASE_URL reaches the selected backend. It exits non-zero when the connection or ping fails.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := serviceForBackend(backend)
			if err != nil {
				return err
			}
			cfg, err := config.Load(service)
			if err != nil {
				return err
			}
			initLogger(cfg, cmd.ErrOrStderr())
			return runDBCheck(cmd.Context(), cfg, backend, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&backend, "backend", backendPostgres, "backend to check: postgres or mongo")
	return cmd
}

func serviceForBackend(backend string) (string, error) {
	switch backend {
	case backendPostgres:
		return config.UsersAPI, nil
	case backendMongo:
		return config.ProductsAPI, nil
	default:
		return "", fmt.Errorf("unknown backend %q: want %s or %s", backend, backendPostgres, backendMongo)
	}
}

func runDBCheck(ctx context.Context, cfg *config.Config, backend string, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	fmt.Fprintf(out, "connecting to %s at %s\n", backend, redactURL(cfg.DatabaseURL))

	switch backend {
	case backendPostgres:
		store, err := repository.NewPostgres(ctx, cfg.DatabaseURL, cfg.UsersSchema)
		if err != nil {
			return fmt.Errorf("connection failed: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %s", sanitizeError(err, cfg.DatabaseURL))
		}
	case backendMongo:
		store, err := repository.NewMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return fmt.Errorf("connection failed: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		defer func() { _ = store.Close(context.Background()) }()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %s", sanitizeError(err, cfg.DatabaseURL))
		}
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	fmt.Fprintf(out, "%s connection ok, disconnected\n", backend)
	return nil
}
