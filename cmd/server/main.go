// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/travia/internal/api"
	"github.com/tomtom215/travia/internal/config"
	"github.com/tomtom215/travia/internal/database"
	"github.com/tomtom215/travia/internal/logging"
	"github.com/tomtom215/travia/internal/metrics"
	"github.com/tomtom215/travia/internal/middleware"
	"github.com/tomtom215/travia/internal/supervisor"
	"github.com/tomtom215/travia/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Travia with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("artifact_store", cfg.Recommend.ArtifactStore).
		Str("training_mode", cfg.Recommend.TrainingMode).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	recommend, err := initRecommend(ctx, cfg, db, tree, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := recommend.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation resources")
		}
	}()

	if cfg.Recommend.CheckpointInterval > 0 {
		tree.AddDataService(services.NewCheckpointService(
			cfg.Recommend.CheckpointInterval,
			logging.WithComponent("checkpoint"),
			services.NamedCheckpointer{Name: "model", Checkpointer: recommend.Engine},
			services.NamedCheckpointer{Name: "database", Checkpointer: db},
		))
		logging.Info().Dur("interval", cfg.Recommend.CheckpointInterval).Msg("Checkpointing enabled")
	}

	handler, err := api.NewHandler(db, recommend.Engine, api.HandlerConfig{
		MaxBodyBytes:   cfg.Security.MaxBodyBytes,
		RequestTimeout: cfg.Recommend.TrainingTimeout + cfg.Server.Timeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	chiMiddleware := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}

	router := api.NewRouter(handler, chiMiddleware, middleware.DefaultSlowRequestThreshold)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Itinerary requests may train before answering.
		WriteTimeout: cfg.Server.Timeout + cfg.Recommend.TrainingTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server configured")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// Persist whatever the last training runs produced.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := recommend.Engine.Checkpoint(saveCtx); err != nil {
		logging.Error().Err(err).Msg("Failed to save model on shutdown")
	}
	saveCancel()

	logging.Info().Msg("Application stopped gracefully")
}
