// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Environment variable names. Matching is case-sensitive.
//
//nolint:gosec // Environment variable keys are not credentials.
const (
	// Application
	EnvEnvironment = "ENVIRONMENT"
	EnvPort        = "PORT"

	// Security
	EnvInternalAPIKey = "INTERNAL_API_KEY"

	// Storage
	EnvDatabaseURL = "DATABASE_URL"
	EnvRedisURL    = "REDIS_URL"

	// LLM providers
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"

	// Backend service
	EnvBackendServiceURL = "BACKEND_SERVICE_URL"

	// CORS
	EnvCORSOrigins = "CORS_ORIGINS"

	// Server
	EnvListenAddr            = "LISTEN_ADDR"
	EnvServerReadTimeout     = "SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout     = "SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	EnvServerMaxHeaderBytes  = "SERVER_MAX_HEADER_BYTES"
	EnvMetricsListen         = "METRICS_LISTEN"
	EnvReadyStrict           = "READY_STRICT"

	// Logging
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	// Tracing
	EnvTracingEnabled      = "TRACING_ENABLED"
	EnvTracingExporter     = "TRACING_EXPORTER"
	EnvTracingEndpoint     = "TRACING_ENDPOINT"
	EnvTracingSamplingRate = "TRACING_SAMPLING_RATE"
)

// Defaults for optional settings.
const (
	DefaultEnvironment       = "development"
	DefaultPort              = 5000
	DefaultRedisURL          = "redis://localhost:6379"
	DefaultBackendServiceURL = "http://localhost:4000"

	DefaultLogLevel = "info"

	DefaultTracingExporter     = "grpc"
	DefaultTracingEndpoint     = "localhost:4317"
	DefaultTracingSamplingRate = 1.0

	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	minShutdownTimeout     = 3 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
)

// DefaultCORSOrigins returns the origins allowed when CORS_ORIGINS is unset.
func DefaultCORSOrigins() []string {
	return []string{"http://localhost:3000", "http://localhost:4000"}
}

// KnownEnvKeys returns every environment key read by FromEnv, in declaration order.
func KnownEnvKeys() []string {
	return []string{
		EnvEnvironment,
		EnvPort,
		EnvInternalAPIKey,
		EnvDatabaseURL,
		EnvRedisURL,
		EnvOpenAIAPIKey,
		EnvAnthropicAPIKey,
		EnvBackendServiceURL,
		EnvCORSOrigins,
		EnvListenAddr,
		EnvServerReadTimeout,
		EnvServerWriteTimeout,
		EnvServerIdleTimeout,
		EnvServerShutdownTimeout,
		EnvServerMaxHeaderBytes,
		EnvMetricsListen,
		EnvReadyStrict,
		EnvLogLevel,
		EnvLogFormat,
		EnvTracingEnabled,
		EnvTracingExporter,
		EnvTracingEndpoint,
		EnvTracingSamplingRate,
	}
}
