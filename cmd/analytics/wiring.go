// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mtracking/analytics/internal/api"
	"github.com/mtracking/analytics/internal/config"
	"github.com/mtracking/analytics/internal/daemon"
	"github.com/mtracking/analytics/internal/deps"
	"github.com/mtracking/analytics/internal/health"
	applog "github.com/mtracking/analytics/internal/log"
	"github.com/mtracking/analytics/internal/telemetry"
	"github.com/mtracking/analytics/internal/version"
)

// application bundles everything main wires from one Settings value.
type application struct {
	settings  config.Settings
	telemetry *telemetry.Provider
	deps      *deps.Container
	health    *health.Manager
	server    *api.Server
}

func buildApplication(ctx context.Context, settings config.Settings, depOpts ...deps.Option) (*application, error) {
	tp, err := telemetry.NewProvider(ctx, settings.Tracing, telemetry.Service{
		Name:        api.ServiceName,
		Version:     version.Version,
		Environment: settings.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	container := deps.New(ctx, settings, applog.Base(), depOpts...)

	hm := health.NewManager(version.Version, health.WithStrict(settings.Server.ReadyStrict))
	registerCheckers(hm, container)

	opts := []api.Option{
		api.WithDeps(container),
		api.WithHealthManager(hm),
	}
	if tp.Enabled() {
		opts = append(opts, api.WithTracing(api.ServiceName))
	}

	srv, err := api.New(settings, opts...)
	if err != nil {
		_ = container.Close()
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init http application: %w", err)
	}

	return &application{
		settings:  settings,
		telemetry: tp,
		deps:      container,
		health:    hm,
		server:    srv,
	}, nil
}

// registerCheckers adds one readiness check per collaborator. A collaborator
// whose configuration value could not be used reports unhealthy.
func registerCheckers(hm *health.Manager, c *deps.Container) {
	problems := c.Problems()
	register := func(name string, build func() health.Checker) {
		if err, ok := problems[name]; ok {
			hm.RegisterChecker(health.NewUnavailableChecker(name, err))
			return
		}
		hm.RegisterChecker(build())
	}

	register(deps.NameRedis, func() health.Checker {
		return health.NewRedisChecker(c.Redis())
	})
	register(deps.NamePostgres, func() health.Checker {
		return health.NewPostgresChecker(c.DB())
	})
	register(deps.NameBackend, func() health.Checker {
		return health.NewHTTPChecker(deps.NameBackend, c.BackendClient(), c.BackendURL())
	})
	hm.RegisterChecker(health.NewLLMChecker(c.LLMProviders))
}

func (a *application) daemonDeps(logger zerolog.Logger) daemon.Deps {
	d := daemon.Deps{
		Logger:     logger,
		APIHandler: a.server.Handler(),
	}
	if a.settings.Server.MetricsAddr != "" {
		d.MetricsHandler = promhttp.Handler()
	}
	return d
}

// registerShutdownHooks registers cleanup so that traces are flushed after
// the shared clients close.
func (a *application) registerShutdownHooks(mgr daemon.Manager) {
	mgr.RegisterShutdownHook("telemetry", a.telemetry.Shutdown)
	mgr.RegisterShutdownHook("deps", func(context.Context) error {
		return a.deps.Close()
	})
}
