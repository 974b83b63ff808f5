// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// FromEnv builds Settings from a key/value environment mapping.
// Absent optional keys take their defaults. Present values are used
// verbatim, so an empty string is a value, not an absence; typed keys must
// still coerce. Missing required keys and coercion failures are collected
// into a single *ConfigurationError.
func FromEnv(env map[string]string) (Settings, error) {
	r := &envReader{env: env}

	s := Settings{
		Environment:       r.getString(EnvEnvironment, DefaultEnvironment),
		Port:              r.getInt(EnvPort, DefaultPort),
		InternalAPIKey:    r.getRequired(EnvInternalAPIKey),
		DatabaseURL:       r.getRequired(EnvDatabaseURL),
		RedisURL:          r.getString(EnvRedisURL, DefaultRedisURL),
		OpenAIAPIKey:      r.getString(EnvOpenAIAPIKey, ""),
		AnthropicAPIKey:   r.getString(EnvAnthropicAPIKey, ""),
		BackendServiceURL: r.getString(EnvBackendServiceURL, DefaultBackendServiceURL),
		corsOrigins:       r.getList(EnvCORSOrigins, DefaultCORSOrigins()),
	}

	s.Server = ServerConfig{
		ListenAddr:      r.getString(EnvListenAddr, ""),
		ReadTimeout:     r.getDuration(EnvServerReadTimeout, defaultReadTimeout),
		WriteTimeout:    r.getDuration(EnvServerWriteTimeout, defaultWriteTimeout),
		IdleTimeout:     r.getDuration(EnvServerIdleTimeout, defaultIdleTimeout),
		MaxHeaderBytes:  r.getInt(EnvServerMaxHeaderBytes, defaultMaxHeaderBytes),
		ShutdownTimeout: r.getDuration(EnvServerShutdownTimeout, defaultShutdownTimeout),
		MetricsAddr:     r.getString(EnvMetricsListen, ""),
		ReadyStrict:     r.getBool(EnvReadyStrict, false),
	}
	if s.Server.ListenAddr == "" {
		s.Server.ListenAddr = ":" + strconv.Itoa(s.Port)
	}
	if s.Server.ShutdownTimeout < minShutdownTimeout {
		s.Server.ShutdownTimeout = minShutdownTimeout
	}
	if s.Server.MaxHeaderBytes <= 0 {
		s.Server.MaxHeaderBytes = defaultMaxHeaderBytes
	}

	defaultFormat := "json"
	if s.IsDevelopment() {
		defaultFormat = "console"
	}
	s.Log = LogConfig{
		Level:  strings.ToLower(r.getString(EnvLogLevel, DefaultLogLevel)),
		Format: strings.ToLower(r.getString(EnvLogFormat, defaultFormat)),
	}
	if s.Log.Format != "json" && s.Log.Format != "console" {
		r.fail(EnvLogFormat, fmt.Sprintf("unsupported format %q (use json or console)", s.Log.Format))
	}

	s.Tracing = TracingConfig{
		Enabled:      r.getBool(EnvTracingEnabled, false),
		Exporter:     strings.ToLower(r.getString(EnvTracingExporter, DefaultTracingExporter)),
		Endpoint:     r.getString(EnvTracingEndpoint, DefaultTracingEndpoint),
		SamplingRate: r.getFloat(EnvTracingSamplingRate, DefaultTracingSamplingRate),
	}
	if s.Tracing.Exporter != "grpc" && s.Tracing.Exporter != "http" {
		r.fail(EnvTracingExporter, fmt.Sprintf("unsupported exporter %q (use grpc or http)", s.Tracing.Exporter))
	}
	if s.Tracing.SamplingRate < 0 || s.Tracing.SamplingRate > 1 {
		r.fail(EnvTracingSamplingRate, "out of range (0.0 to 1.0)")
	}

	if len(r.problems) > 0 {
		return Settings{}, &ConfigurationError{Problems: r.problems}
	}
	return s, nil
}

// envReader performs typed lookups against an environment mapping and
// accumulates coercion problems instead of stopping at the first one.
type envReader struct {
	env      map[string]string
	problems []FieldError
}

func (r *envReader) fail(key, problem string) {
	r.problems = append(r.problems, FieldError{Key: key, Problem: problem})
}

// lookup returns the value exactly as given.
func (r *envReader) lookup(key string) (string, bool) {
	v, ok := r.env[key]
	return v, ok
}

// lookupTyped returns a present value with surrounding blanks removed for
// numeric, boolean and duration coercion.
func (r *envReader) lookupTyped(key string) (string, bool) {
	v, ok := r.env[key]
	return strings.TrimSpace(v), ok
}

func (r *envReader) getString(key, defaultValue string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return defaultValue
}

func (r *envReader) getRequired(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		r.fail(key, "field required")
		return ""
	}
	return v
}

func (r *envReader) getInt(key string, defaultValue int) int {
	v, ok := r.lookupTyped(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, fmt.Sprintf("invalid integer %q", v))
		return defaultValue
	}
	return i
}

func (r *envReader) getFloat(key string, defaultValue float64) float64 {
	v, ok := r.lookupTyped(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, fmt.Sprintf("invalid number %q", v))
		return defaultValue
	}
	return f
}

func (r *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := r.lookupTyped(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, fmt.Sprintf("invalid duration %q (use Go format, e.g. 5s)", v))
		return defaultValue
	}
	if d < 0 {
		r.fail(key, "must not be negative")
		return defaultValue
	}
	return d
}

// getBool accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func (r *envReader) getBool(key string, defaultValue bool) bool {
	v, ok := r.lookupTyped(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		r.fail(key, fmt.Sprintf("invalid boolean %q", v))
		return defaultValue
	}
}

// getList accepts a JSON array (["a","b"]) or a comma-separated value.
// Entries are trimmed, blanks dropped and duplicates removed keeping first
// occurrence. A blank value or an empty list falls back to defaultValue.
func (r *envReader) getList(key string, defaultValue []string) []string {
	v, _ := r.lookupTyped(key)
	if v == "" {
		return defaultValue
	}

	var items []string
	if strings.HasPrefix(v, "[") {
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			r.fail(key, fmt.Sprintf("invalid JSON list: %v", err))
			return defaultValue
		}
	} else {
		items = strings.Split(v, ",")
	}

	items = lo.Uniq(lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	})))
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
