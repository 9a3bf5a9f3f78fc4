// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Storekeep HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables (and an optional .env).
//  2. Initialize structured logger.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the session core: codec, issuer, cookie sink, refresh flow and gate.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/storekeep/internal/account"
	"github.com/taibuivan/storekeep/internal/api"
	"github.com/taibuivan/storekeep/internal/inventory"
	"github.com/taibuivan/storekeep/internal/platform/config"
	"github.com/taibuivan/storekeep/internal/platform/constants"
	"github.com/taibuivan/storekeep/internal/platform/logger"
	"github.com/taibuivan/storekeep/internal/platform/middleware"
	"github.com/taibuivan/storekeep/internal/platform/migration"
	pgstore "github.com/taibuivan/storekeep/internal/platform/postgres"
	redisstore "github.com/taibuivan/storekeep/internal/platform/redis"
	"github.com/taibuivan/storekeep/internal/platform/sec"
	"github.com/taibuivan/storekeep/internal/session"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Config errors happen before the real logger exists.
	bootLog := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	must(bootLog, err, "load configuration")

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log := logger.New(logger.Config{
		App:         constants.AppName,
		Version:     constants.AppVersion,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A deadline catches misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session Core ───────────────────────────────────────────────────
	issuer, err := session.NewIssuer(sec.NewCodec(sec.WithIssuer(constants.AuthIssuer)), session.IssuerConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	must(log, err, "initialize token issuer")

	sameSite, err := cfg.SameSite()
	must(log, err, "parse cookie samesite")

	sink := session.NewCookieSink(session.CookieConfig{
		Domain:   cfg.CookieDomain,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	})

	accountRepository := account.NewPostgresRepository(pool)
	directory := account.NewDirectory(accountRepository)

	refresh := session.NewRefreshFlow(directory, issuer, sink, cfg.RefreshLookupTimeout)
	gate := session.NewGate(session.NewRouteTable(cfg.PublicRoutes...), issuer, refresh,
		session.WithClearOnReject(constants.LogoutPath))

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	limiter := account.NewRedisLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginLockoutWindow)
	accountService := account.NewService(directory, accountRepository, issuer, limiter)
	accountHandler := account.NewHandler(accountService, issuer, sink, gate, refresh)

	inventoryService := inventory.NewService(inventory.NewPostgresRepository(pool), log)
	inventoryHandler := inventory.NewHandler(inventoryService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, api.Options{
		Port:              cfg.ServerPort,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		RateLimiter: middleware.NewIPRateLimiter(
			constants.DefaultRateLimitRPS,
			constants.DefaultRateLimitBurst,
			constants.RateLimitClientTTL,
		),
	}, log, gate, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Account:   accountHandler,
		Inventory: inventoryHandler,
	})

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
