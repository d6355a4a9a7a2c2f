package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipescope/pipescope/internal/server"
	"github.com/pipescope/pipescope/pkg/cache"
	"github.com/pipescope/pipescope/pkg/config"
	"github.com/pipescope/pipescope/pkg/pipeline"
	"github.com/pipescope/pipescope/pkg/scene"
)

// newServeCmd creates the serve command running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Pipescope HTTP API",
		Long: `Serve runs the HTTP API backed by the configured scene store.

The store backend, cache directory, and listen address come from the
config file (--config), overridable via PIPESCOPE_* environment
variables and the --addr flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger.Debug("configuration loaded", "config", cfg.String())

			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := store.Close(context.Background()); cerr != nil {
					logger.Warn("close store", "err", cerr)
				}
			}()

			artifacts, err := newArtifactCache(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := artifacts.Close(); cerr != nil {
					logger.Warn("close cache", "err", cerr)
				}
			}()

			srv := server.New(server.Options{
				Manager:  pipeline.NewDefaultManager(),
				Store:    store,
				Cache:    artifacts,
				Keyer:    newKeyer(cfg),
				CacheTTL: time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
				Logger:   logger,
			})
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}

// newStore builds the scene store selected by the configuration.
// Remote backends are dialed with a bounded retry so a service starting
// alongside its database does not fail on the first connection attempt.
func newStore(ctx context.Context, cfg config.Config) (scene.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return scene.NewMemoryStore(), nil

	case config.BackendFile:
		return scene.NewFileStore(cfg.Store.Dir)

	case config.BackendRedis:
		var store *scene.RedisStore
		err := cache.RetryWithBackoff(ctx, func() error {
			var derr error
			store, derr = scene.NewRedisStore(ctx, scene.RedisConfig{
				Addr:     cfg.Store.Redis.Addr,
				Password: cfg.Store.Redis.Password,
				DB:       cfg.Store.Redis.DB,
			})
			return cache.Retryable(derr)
		})
		return store, err

	case config.BackendMongo:
		var store *scene.MongoStore
		err := cache.RetryWithBackoff(ctx, func() error {
			var derr error
			store, derr = scene.NewMongoStore(ctx, scene.MongoConfig{
				URI:        cfg.Store.Mongo.URI,
				Database:   cfg.Store.Mongo.Database,
				Collection: cfg.Store.Mongo.Collection,
			})
			return cache.Retryable(derr)
		})
		return store, err
	}

	// Unreachable after config.Validate, kept for direct callers.
	return scene.NewMemoryStore(), nil
}

// newArtifactCache builds the render artifact cache. An empty cache
// directory disables caching.
func newArtifactCache(cfg config.Config) (cache.Cache, error) {
	if cfg.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}

// newKeyer scopes artifact keys by the store backend, so processes
// pointed at different stores can share one cache directory without
// serving each other's artifacts.
func newKeyer(cfg config.Config) cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Store.Backend+":")
}
