// Package main is the entry point of the studio agenda API.
//
// Startup order: configuration, logging and error reporting, the schedule
// store, the agenda for today, then the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brucesilvasad-lang/aplicativo-pilares/config"

	// Application layer
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/agenda"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/command"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/query"

	// Infrastructure layer
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/idgen"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/persistence"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/persistence/memory"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/persistence/postgres"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/persistence/redis"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/reporting"

	// Interface layer
	httpserver "github.com/brucesilvasad-lang/aplicativo-pilares/internal/interface/http"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/interface/http/handlers"

	// Packages
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/circuitbreaker"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/logger"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/retry"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING & ERROR REPORTING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
		Service:   cfg.App.Name,
	})
	log.Info("starting agenda service",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
		logger.String("store", cfg.Store.Driver),
	)

	hostname, _ := os.Hostname()
	rollbarReporter := reporting.NewRollbarReporter(reporting.RollbarConfig{
		Token:       cfg.Observability.RollbarToken,
		Environment: string(cfg.App.Environment),
		ServerHost:  hostname,
		CodeVersion: cfg.App.Version,
	})
	defer rollbarReporter.Flush()

	reporter := reporting.Multi{reporting.NewLogReporter(log), rollbarReporter}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SCHEDULE STORE
	// ─────────────────────────────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		log.Info("closing schedule store...")
		closeStore()
	}()

	if cfg.Store.Driver != config.StoreMemory {
		store = persistence.NewGuardedStore(store, circuitbreaker.StoreBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}))
	}

	repo := persistence.NewScheduleRepository(store, reporter, cfg.Store.KeyPrefix)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	state := agenda.NewState()

	loadRange := query.NewLoadRangeHandler(repo, state, query.LoadRangeOptions{
		MaxConcurrentReads: cfg.Loader.MaxConcurrentReads,
		MaxRangeDays:       cfg.Loader.MaxRangeDays,
		Timeout:            cfg.Loader.Timeout,
	})
	getAgenda := query.NewGetAgendaHandler(state)
	engine := command.NewEngine(repo, state, idgen.UUIDGenerator{})

	today := timeutil.Today(time.Now(), cfg.App.Location)
	result, err := loadRange.Handle(logger.WithContext(ctx, log), query.LoadRangeQuery{Start: today, End: today})
	if err != nil {
		return fmt.Errorf("failed to load today's agenda: %w", err)
	}
	log.Info("agenda ready",
		logger.Date(today),
		logger.Int("loaded", result.Loaded),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	checker := handlers.NewCompositeHealthChecker(cfg.App.Version, handlers.DefaultCheckTimeout)
	checker.AddCheck("store", handlers.NewStoreCheck(repo))

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.Version = cfg.App.Version

	server := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		LoadRange: loadRange,
		GetAgenda: getAgenda,
		Engine:    engine,
		Studio: httpserver.StudioInfo{
			Name:        cfg.Studio.Name,
			Timezone:    cfg.App.Timezone,
			StudentTags: cfg.Studio.StudentTags,
		},
		Logger:        log,
		HealthChecker: checker,
	})

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err, ok := <-errCh:
		if ok && err != nil {
			log.Error("http server error", logger.Err(err))
			return err
		}
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE WIRING
// ══════════════════════════════════════════════════════════════════════════════

// openStore connects the configured driver, retrying while the backend comes up.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (schedule.Store, func(), error) {
	onRetry := retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		log.Warn("store not reachable, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})
	opts := append(retry.StoreConnectOptions(), onRetry)

	switch cfg.Store.Driver {
	case config.StoreRedis:
		redisCfg := redis.Config{
			URL:          cfg.Redis.URL,
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		store, err := retry.DoWithData(ctx, func(ctx context.Context) (*redis.Store, error) {
			return redis.NewStore(ctx, redisCfg)
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		log.Info("redis connection established")
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL
		pgCfg.MaxConns = int32(cfg.Database.MaxConns)
		pgCfg.MinConns = int32(cfg.Database.MinConns)
		pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.NewConnection(ctx, pgCfg)
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connection established")

		if cfg.Database.AutoMigrate {
			if err := migrate(ctx, conn, log); err != nil {
				conn.Close()
				return nil, nil, err
			}
		}
		store := postgres.NewStore(conn)
		return store, func() { _ = store.Close() }, nil

	case config.StoreMemory:
		log.Warn("using in-memory store, schedules are lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	return nil, nil, errors.New("unknown store driver " + cfg.Store.Driver)
}

func migrate(ctx context.Context, conn *postgres.Connection, log *logger.Logger) error {
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", logger.Err(err))
		return nil
	}
	applied := 0
	for _, m := range status {
		if m.IsApplied {
			applied++
		}
	}
	log.Info("migrations completed", logger.Int("applied", applied), logger.Int("total", len(status)))
	return nil
}
