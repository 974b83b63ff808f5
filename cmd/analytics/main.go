// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mtracking/analytics/internal/api"
	"github.com/mtracking/analytics/internal/config"
	"github.com/mtracking/analytics/internal/daemon"
	applog "github.com/mtracking/analytics/internal/log"
	"github.com/mtracking/analytics/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	// Handle command-line flags
	showVersion := flag.Bool("version", false, "print version and exit")
	envFile := flag.String("env-file", config.DefaultEnvFile, "optional dotenv file overlaid below the process environment")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	// Configure logger with safe defaults until settings are loaded
	applog.Configure(applog.Config{
		Level:   "info",
		Service: api.ServiceName,
		Version: version.Version,
	})

	logger := applog.WithComponent("daemon")

	settings, err := config.Load(config.WithEnvFile(*envFile))
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("env_file", *envFile).
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded settings
	applog.Configure(applog.Config{
		Level:   settings.Log.Level,
		Format:  settings.Log.Format,
		Service: api.ServiceName,
		Version: version.Version,
	})
	logger = applog.WithComponent("daemon")

	// Create a context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logStartupBanner(logger, settings)

	app, err := buildApplication(ctx, settings)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.failed").
			Msg("failed to build application")
	}

	mgr, err := daemon.NewManager(settings.Server, app.daemonDeps(logger))
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}
	app.registerShutdownHooks(mgr)

	// Blocks until shutdown
	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon manager failed")
	}

	logger.Info().Msg("server exiting")
}

// logStartupBanner logs the effective settings with secrets masked.
func logStartupBanner(logger zerolog.Logger, settings config.Settings) {
	logger.Info().
		Str("event", "startup").
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Str("environment", settings.Environment).
		Str("addr", settings.Server.ListenAddr).
		Msg("starting " + api.Title)

	logger.Info().
		Str("event", "config.effective").
		Fields(settings.Redacted()).
		Msg("effective settings")

	logger.Info().Msgf("→ Database: %s", config.MaskURL(settings.DatabaseURL))
	logger.Info().Msgf("→ Redis: %s", config.MaskURL(settings.RedisURL))
	logger.Info().Msgf("→ Backend: %s", config.MaskURL(settings.BackendServiceURL))
	logger.Info().Msgf("→ CORS origins: %v", settings.CORSOrigins())
	if settings.OpenAIAPIKey == "" && settings.AnthropicAPIKey == "" {
		logger.Warn().Msg("→ LLM providers: none configured (set OPENAI_API_KEY or ANTHROPIC_API_KEY)")
	}
	if settings.Server.MetricsAddr != "" {
		logger.Info().Msgf("→ Metrics: %s", settings.Server.MetricsAddr)
	} else {
		logger.Info().Msg("→ Metrics: /metrics on API listener")
	}
}
