// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
	"time"
)

// Settings is the validated startup configuration of the service.
// It is a value type: copies are independent and the origin list is only
// reachable through CORSOrigins, which returns a fresh slice.
type Settings struct {
	// Application
	Environment string
	Port        int

	// Security
	InternalAPIKey string

	// Storage
	DatabaseURL string
	RedisURL    string

	// LLM providers (empty means not configured)
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Backend service
	BackendServiceURL string

	corsOrigins []string

	// Ambient
	Server  ServerConfig
	Log     LogConfig
	Tracing TracingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address to listen on. Defaults to ":<PORT>".
	ListenAddr string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
	MaxHeaderBytes int

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration

	// MetricsAddr serves /metrics on a dedicated listener when set.
	// Empty mounts /metrics on the API router instead.
	MetricsAddr string

	// ReadyStrict turns dependency checks into hard readiness gates.
	ReadyStrict bool
}

// LogConfig holds logger options.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// TracingConfig holds OpenTelemetry exporter options.
type TracingConfig struct {
	Enabled      bool
	Exporter     string // "grpc" or "http"
	Endpoint     string
	SamplingRate float64
}

// CORSOrigins returns a copy of the allowed cross-origin list in configured order.
func (s Settings) CORSOrigins() []string {
	out := make([]string, len(s.corsOrigins))
	copy(out, s.corsOrigins)
	return out
}

// IsDevelopment reports whether the service runs in the development environment.
func (s Settings) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(s.Environment), DefaultEnvironment)
}
