// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/ummah-social/internal/activity"
	"github.com/carterperez-dev/ummah-social/internal/admin"
	"github.com/carterperez-dev/ummah-social/internal/auth"
	"github.com/carterperez-dev/ummah-social/internal/config"
	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/health"
	"github.com/carterperez-dev/ummah-social/internal/middleware"
	"github.com/carterperez-dev/ummah-social/internal/remote"
	"github.com/carterperez-dev/ummah-social/internal/server"
	"github.com/carterperez-dev/ummah-social/internal/social"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen,gocyclo // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	configured := cfg.Supabase.IsConfigured()
	healthHandler := health.NewHandler(configured)
	adminCfg := admin.HandlerConfig{Configured: configured}

	var (
		db     *core.Database
		client remote.Client
	)
	if configured {
		db, err = core.NewDatabase(ctx, cfg.Supabase, cfg.Database)
		if err != nil {
			return err
		}
		client = remote.NewPostgres(db.DB)
		healthHandler.AddCheck("database", db)
		adminCfg.DBStats = db.Stats
		adminCfg.DBPing = db.Ping

		logger.Info("database connected",
			"max_open_conns", cfg.Database.MaxOpenConns,
			"max_idle_conns", cfg.Database.MaxIdleConns,
		)
	} else {
		logger.Warn("Supabase environment variables not configured. Using placeholder values.")
		logger.Warn("Please set SUPABASE_URL and SUPABASE_ANON_KEY in your environment.")
	}

	var redis *core.Redis
	if cfg.Redis.URL != "" {
		redis, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting per instance", "error", err)
		} else {
			healthHandler.AddCheck("redis", redis)
			adminCfg.RedisStats = redis.PoolStats
			adminCfg.RedisPing = redis.Ping
			logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
		}
	}

	var publisher activity.Publisher = activity.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, kafkaErr := activity.NewKafkaPublisher(cfg.Kafka)
		if kafkaErr != nil {
			return kafkaErr
		}
		publisher = kafkaPub
		adminCfg.ActivityStats = kafkaPub.Stats
		logger.Info("activity publisher initialized",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
	}

	var verifier middleware.TokenVerifier = auth.Reject{}
	if v, vErr := auth.NewVerifier(cfg.Supabase); vErr == nil {
		verifier = v
	} else {
		logger.Warn("SUPABASE_JWT_SECRET not set, authenticated routes will reject every request")
	}

	store := social.NewStore(client, configured, logger)
	socialHandler := social.NewHandler(store, publisher, logger)
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	limiterCfg := middleware.RateLimitConfig{
		Limit:    middleware.LimitFromConfig(cfg.RateLimit),
		FailOpen: true,
	}
	limiter := middleware.NewRateLimiter(nil, limiterCfg)
	if redis != nil {
		limiter = middleware.NewRateLimiter(redis.Client, limiterCfg)
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(limiter.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)
	adminOnly := middleware.RequireAdmin(store.IsAdmin)

	router.Route("/v1", func(r chi.Router) {
		socialHandler.RegisterRoutes(r, authenticator, optionalAuth)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("activity publisher close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if redis != nil {
		if err := redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
