// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package main is the entry point for the Speed'n'Adrenaline leaderboard server.
//
// Speed'n'Adrenaline tracks lap-time runs for a racing simulator event. Drivers
// submit runs, the service ranks each driver/car pair by its personal-best lap,
// and connected browsers receive the updated leaderboard over WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Store: Open the Badger key-value store (persistent or in-memory)
//  3. Event Bus: Watermill pub/sub channel decoupling writes from fan-out
//  4. Ranking Engine: Personal-best tracking and leaderboard computation
//  5. History Archiver: Immutable leaderboard and run snapshots
//  6. WebSocket Hub: Real-time updates to connected clients
//  7. HTTP Server: REST API with Prometheus metrics
//
// All long-running components are managed by a suture supervisor tree, so a
// wedged WebSocket hub or a crashed event forwarder restarts without taking
// the HTTP listener down with it.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (HTTP_PORT, BADGER_PATH, CORS_ORIGINS, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Disconnects WebSocket clients and closes the event bus
//   - Closes the Badger store
//
// # Example Usage
//
// Development with an in-memory store:
//
//	export BADGER_IN_MEMORY=true
//	export LOG_FORMAT=console
//	./speednadrenaline
//
// Production:
//
//	export BADGER_PATH=/data/speednadrenaline
//	export CORS_ORIGINS=https://leaderboard.example.com
//	./speednadrenaline
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/j00les/speednadrenaline-BE/internal/api"
	"github.com/j00les/speednadrenaline-BE/internal/config"
	"github.com/j00les/speednadrenaline-BE/internal/eventbus"
	"github.com/j00les/speednadrenaline-BE/internal/history"
	"github.com/j00les/speednadrenaline-BE/internal/logging"
	"github.com/j00les/speednadrenaline-BE/internal/ranking"
	"github.com/j00les/speednadrenaline-BE/internal/store"
	"github.com/j00les/speednadrenaline-BE/internal/supervisor"
	"github.com/j00les/speednadrenaline-BE/internal/supervisor/services"
	ws "github.com/j00les/speednadrenaline-BE/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Speed'n'Adrenaline with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("in_memory", cfg.Database.InMemory).
		Str("listen_addr", cfg.Server.ListenAddr()).
		Msg("Configuration loaded")

	st, err := store.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store opened successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event bus decouples run writes from WebSocket fan-out
	bus := eventbus.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	engine := ranking.NewEngine(st, bus)
	archiver := history.NewArchiver(st, engine)

	// WebSocket hub for real-time leaderboard updates
	wsHub := ws.NewHub()

	forwarder, err := eventbus.NewForwarder(bus, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event forwarder")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(engine, archiver, st, cfg, wsHub)
	chiMiddleware := api.NewChiMiddlewareFromConfig(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor tree: bridges zerolog to slog for sutureslog compatibility
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewForwarderService(forwarder))
	logging.Info().Msg("WebSocket hub and event forwarder added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
