package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/carematch/internal/config"
	"github.com/jonathan/carematch/internal/db"
	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/pool"
	"github.com/jonathan/carematch/internal/server"
	"github.com/jonathan/carematch/internal/server/ratelimit"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the recommendation endpoints.

Candidates are read from Postgres when database.url (or DATABASE_URL) is set,
otherwise from the fixtures file. When redis.addr is set the candidate pools are
cached in Redis and, with refresh.schedule, refreshed on a cron schedule.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create the profile tables before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	engine, err := matching.NewEngine(cfg.Matching)
	if err != nil {
		return fmt.Errorf("invalid matching configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, cleanup, err := buildSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(cfg.RateLimit.Limiter())
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Server.Port,
		DefaultLimit:    cfg.Server.DefaultLimit,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Engine:          engine,
		Source:          src,
		RateLimiter:     limiter,
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}

// buildSource wires the candidate source described by cfg. The returned cleanup
// releases every resource that was opened, in reverse order.
func buildSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (pool.Source, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var src pool.Source
	switch {
	case cfg.Database.URL != "":
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, database.Close)
		if serveMigrate {
			if err := database.Migrate(ctx); err != nil {
				cleanup()
				return nil, nil, err
			}
		}
		log.Info("using postgres candidate source")
		src = database

	case cfg.Fixtures != "":
		mem, err := pool.LoadMemory(cfg.Fixtures)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using fixture candidate source", zap.String("path", cfg.Fixtures))
		src = mem

	default:
		return nil, nil, errors.New("no candidate source configured: set database.url or fixtures")
	}

	if cfg.Redis.Addr == "" {
		return src, cleanup, nil
	}

	store, err := pool.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, func() { _ = store.Close() })

	cached := pool.NewCached(src, store, &pool.CachedConfig{TTL: cfg.Redis.TTL, Logger: log})
	log.Info("candidate pools cached in redis", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))

	if cfg.Refresh.Schedule != "" {
		warmer, err := pool.NewWarmer(cached, cfg.Refresh.Schedule, time.Minute, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		warmer.Start()
		closers = append(closers, func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			warmer.Stop(stopCtx)
		})
	}

	return cached, cleanup, nil
}
