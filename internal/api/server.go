// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api wires the HTTP surface of the analytics service: the
// middleware stack, the fixed liveness and metadata endpoints, the generated
// documentation and the mount point for feature routers.
package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtracking/analytics/internal/api/middleware"
	"github.com/mtracking/analytics/internal/config"
	"github.com/mtracking/analytics/internal/deps"
	"github.com/mtracking/analytics/internal/health"
	"github.com/mtracking/analytics/internal/log"
)

// V1Prefix is where versioned feature routers are mounted.
const V1Prefix = "/api/v1"

// Router contributes routes beneath a mount prefix.
type Router interface {
	Routes(r chi.Router)
}

// RouterFunc adapts a function to Router.
type RouterFunc func(r chi.Router)

// Routes calls f(r).
func (f RouterFunc) Routes(r chi.Router) {
	f(r)
}

// Server is the HTTP application. Build it with New, mount routers, then
// serve Handler(). Mount must not be called once serving has started.
type Server struct {
	settings config.Settings
	deps     *deps.Container
	health   *health.Manager
	doc      *openapi3.T

	tracingService  string
	metricsOnRouter bool

	mu      sync.Mutex
	router  *chi.Mux
	mounted map[string]struct{}
}

// Option customizes a Server.
type Option func(*Server)

// WithDeps attaches the shared collaborator container.
func WithDeps(c *deps.Container) Option {
	return func(s *Server) {
		s.deps = c
	}
}

// WithHealthManager serves readiness from m instead of an empty manager.
func WithHealthManager(m *health.Manager) Option {
	return func(s *Server) {
		s.health = m
	}
}

// WithTracing enables the tracing middleware under the given tracer name.
func WithTracing(service string) Option {
	return func(s *Server) {
		s.tracingService = service
	}
}

// WithMetricsEndpoint toggles /metrics on the API router. It is enabled by
// default when no dedicated metrics listener is configured.
func WithMetricsEndpoint(enabled bool) Option {
	return func(s *Server) {
		s.metricsOnRouter = enabled
	}
}

// New constructs the application from settings. Middleware is attached
// before any route, then routes are registered in a fixed order.
func New(settings config.Settings, opts ...Option) (*Server, error) {
	s := &Server{
		settings:        settings,
		metricsOnRouter: settings.Server.MetricsAddr == "",
		mounted:         make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.health == nil {
		s.health = health.NewManager(Version, health.WithStrict(settings.Server.ReadyStrict))
	}

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	s.doc = doc

	docs, err := newDocsHandlers(doc)
	if err != nil {
		return nil, err
	}

	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:           true,
		AllowedOrigins:       settings.CORSOrigins(),
		CORSAllowCredentials: true,

		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,

		EnableMetrics:  true,
		TracingService: s.tracingService,
		EnableLogging:  true,
	})
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", handleHealth)
	r.Get("/", handleRoot)
	r.Get("/ready", s.health.ServeReady)
	r.Get(openAPIPath, docs.serveSpec)
	r.Get(docsPath, docs.serveSwaggerUI)
	r.Get(redocPath, docs.serveRedoc)
	if s.metricsOnRouter {
		r.Handle("/metrics", promhttp.Handler())
	}

	s.router = r
	// Fixed endpoints cannot be shadowed by a mounted router.
	for _, p := range []string{"/health", "/ready", docsPath, redocPath, openAPIPath, "/metrics"} {
		s.mounted[p] = struct{}{}
	}

	logger := log.WithComponent("api")
	logger.Debug().
		Strs("cors_origins", settings.CORSOrigins()).
		Bool("metrics_on_router", s.metricsOnRouter).
		Bool("tracing", s.tracingService != "").
		Msg("http application constructed")

	return s, nil
}

// Mount attaches router beneath prefix, e.g. V1Prefix.
func (s *Server) Mount(prefix string, router Router) error {
	if router == nil {
		return ErrNilRouter
	}
	prefix = strings.TrimRight(prefix, "/")
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidMountPrefix, prefix)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mounted[prefix]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyMounted, prefix)
	}

	s.router.Route(prefix, router.Routes)
	s.mounted[prefix] = struct{}{}

	logger := log.WithComponent("api")
	logger.Info().
		Str(log.FieldEvent, "router.mounted").
		Str("prefix", prefix).
		Msg("router mounted")
	return nil
}

// Handler returns the configured HTTP handler with all routes and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Settings returns the settings the server was built from.
func (s *Server) Settings() config.Settings {
	return s.settings
}

// Deps returns the shared collaborator container, or nil when none was attached.
func (s *Server) Deps() *deps.Container {
	return s.deps
}

// OpenAPI returns the validated document served at /openapi.json.
func (s *Server) OpenAPI() *openapi3.T {
	return s.doc
}
