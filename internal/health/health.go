// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package health provides readiness check functionality for container probes.
// Liveness is served by the API as a fixed body; this package only answers
// whether the service's collaborators are reachable.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/mtracking/analytics/internal/log"
	"github.com/mtracking/analytics/internal/telemetry"
)

// DefaultCheckTimeout bounds every individual checker.
const DefaultCheckTimeout = 2 * time.Second

// Status represents the overall readiness status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component health check
type CheckResult struct {
	Status    Status `json:"status"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Strict    bool                   `json:"strict"`
	Version   string                 `json:"version,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager manages readiness checks
type Manager struct {
	version  string
	timeout  time.Duration
	strict   bool
	checkers []Checker
}

// Option configures a Manager.
type Option func(*Manager)

// WithCheckTimeout overrides DefaultCheckTimeout. Non-positive values are ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithStrict makes an unhealthy dependency flip readiness to false. Without
// it failed checks are reported but the service stays ready.
func WithStrict(strict bool) Option {
	return func(m *Manager) {
		m.strict = strict
	}
}

// NewManager creates a new health check manager
func NewManager(version string, opts ...Option) *Manager {
	m := &Manager{
		version:  version,
		timeout:  DefaultCheckTimeout,
		checkers: make([]Checker, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterChecker adds a health checker to the manager. Not safe to call
// once the manager is serving requests.
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// Ready runs every registered checker concurrently, each bounded by the
// manager's check timeout.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Strict:    m.strict,
		Version:   m.version,
		Timestamp: time.Now().UTC(),
	}

	if len(m.checkers) == 0 {
		return resp
	}

	results := make([]CheckResult, len(m.checkers))
	var g errgroup.Group
	for i, checker := range m.checkers {
		g.Go(func() error {
			results[i] = m.run(ctx, checker)
			return nil
		})
	}
	_ = g.Wait()

	resp.Checks = make(map[string]CheckResult, len(m.checkers))
	hasUnhealthy := false
	hasDegraded := false
	for i, checker := range m.checkers {
		result := results[i]
		resp.Checks[checker.Name()] = result

		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	switch {
	case hasUnhealthy && m.strict:
		resp.Ready = false
		resp.Status = StatusUnhealthy
	case hasUnhealthy || hasDegraded:
		resp.Status = StatusDegraded
	}

	return resp
}

func (m *Manager) run(ctx context.Context, checker Checker) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ctx, span := telemetry.Tracer("health").Start(ctx, "readiness."+checker.Name())
	defer span.End()

	start := time.Now()
	result := checker.Check(ctx)
	result.LatencyMS = time.Since(start).Milliseconds()

	if result.Status == "" {
		result.Status = StatusUnhealthy
	}
	span.SetAttributes(telemetry.DependencyAttributes(checker.Name(), string(result.Status))...)
	if result.Status == StatusUnhealthy {
		span.SetStatus(codes.Error, result.Error)
	}
	return result
}

// ServeReady handles HTTP readiness check requests
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "readiness")

	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "readiness.encode_error").Msg("failed to encode readiness response")
	}

	evt := logger.Debug()
	if resp.Status != StatusHealthy {
		evt = logger.Warn()
	}
	evt.Str(log.FieldEvent, "readiness.checked").
		Str("status", string(resp.Status)).
		Bool("ready", resp.Ready).
		Msg("readiness check performed")
}
