package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/microshop/microshop/internal/cache"
	"github.com/microshop/microshop/internal/config"
	"github.com/microshop/microshop/internal/handler"
	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/peer"
	"github.com/microshop/microshop/internal/repository"
	"github.com/microshop/microshop/internal/server"
	"github.com/microshop/microshop/internal/service"
)

// connectTimeout bounds the initial database and cache connections.
const connectTimeout = 10 * time.Second

// userBackend is the users store as seen by the HTTP layer.
type userBackend interface {
	service.UserStore
	handler.HealthChecker
}

// productBackend is the products store as seen by the HTTP layer.
type productBackend interface {
	service.ProductStore
	handler.HealthChecker
}

func newUsersCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Serve the users-api backed by PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.UsersAPI)
			if err != nil {
				return err
			}
			logger := initLogger(cfg, os.Stdout)
			return runUsers(cmd.Context(), cfg, logger, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the users schema and table before serving")
	return cmd
}

func newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Serve the products-api backed by MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ProductsAPI)
			if err != nil {
				return err
			}
			logger := initLogger(cfg, os.Stdout)
			return runProducts(cmd.Context(), cfg, logger)
		},
	}
}

func runUsers(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) error {
	recorder := metrics.NewPrometheus(cfg.Service)

	entities, closeCache, err := connectCache(ctx, cfg, logger)
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, err := repository.NewPostgres(connectCtx, cfg.DatabaseURL, cfg.UsersSchema)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		_ = closeCache(ctx)
		return fmt.Errorf("connect to database: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("connected to database", "schema", cfg.UsersSchema)

	if migrate {
		if err := store.EnsureSchema(connectCtx); err != nil {
			store.Close()
			_ = closeCache(ctx)
			return err
		}
		logger.Info("users schema ready")
	}

	srv := newServer(cfg, logger, newUsersRouter(cfg, logger, store, entities, recorder))
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		store.Close()
		return nil
	})
	if cfg.CacheEnabled() {
		srv.OnShutdown("redis", closeCache)
	}

	logger.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
	return srv.Run(ctx)
}

func runProducts(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	recorder := metrics.NewPrometheus(cfg.Service)

	entities, closeCache, err := connectCache(ctx, cfg, logger)
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, err := repository.NewMongo(connectCtx, cfg.DatabaseURL, cfg.MongoDatabase, cfg.MongoCollection)
	if err != nil {
		logger.Error("failed to connect to MongoDB",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		_ = closeCache(ctx)
		return fmt.Errorf("connect to MongoDB: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("connected to MongoDB",
		"database", cfg.MongoDatabase,
		"collection", cfg.MongoCollection,
	)

	srv := newServer(cfg, logger, newProductsRouter(cfg, logger, store, entities, recorder))
	srv.OnShutdown("mongo", store.Close)
	if cfg.CacheEnabled() {
		srv.OnShutdown("redis", closeCache)
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"users_api_url", cfg.UsersAPIURL,
	)
	return srv.Run(ctx)
}

func newServer(cfg *config.Config, logger *slog.Logger, h http.Handler) *server.Server {
	return server.New(h, server.Options{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
}

// connectCache connects to Redis when REDIS_URL is set. Without it the
// returned EntityCache is nil and the close function is a no-op.
func connectCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.EntityCache, server.ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	if !cfg.CacheEnabled() {
		logger.Info("entity cache disabled")
		return nil, noop, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cacheClient, err := cache.New(connectCtx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return nil, noop, fmt.Errorf("connect to Redis: %s", sanitizeError(err, cfg.RedisURL))
	}
	logger.Info("connected to Redis", "ttl", cacheClient.TTL())

	return cacheClient, func(context.Context) error { return cacheClient.Close() }, nil
}

func newUsersRouter(cfg *config.Config, logger *slog.Logger, store userBackend, entities service.EntityCache, recorder *metrics.PrometheusRecorder) *chi.Mux {
	users := service.NewUserService(store, entities, recorder, logger)

	return setupRouter(routerDeps{
		cfg:        cfg,
		logger:     logger,
		health:     handler.NewHealthHandler(cfg.Service, store),
		recorder:   recorder,
		exposition: recorder.Handler(),
		routes: []func(chi.Router){
			handler.NewUserHandler(users, logger).Routes,
		},
	})
}

func newProductsRouter(cfg *config.Config, logger *slog.Logger, store productBackend, entities service.EntityCache, recorder *metrics.PrometheusRecorder) *chi.Mux {
	products := service.NewProductService(store, entities, recorder, logger)
	usersPeer := peer.New(cfg.UsersAPIURL, peer.NewHTTPClient(cfg.PeerTimeout), recorder)
	agg := service.NewAggregator(usersPeer, products, recorder, logger)

	return setupRouter(routerDeps{
		cfg:        cfg,
		logger:     logger,
		health:     handler.NewHealthHandler(cfg.Service, store),
		recorder:   recorder,
		exposition: recorder.Handler(),
		routes: []func(chi.Router){
			handler.NewAggregateHandler(agg, logger).Routes,
			handler.NewProductHandler(products, logger).Routes,
		},
	})
}
