// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"net/url"
	"strings"
)

const maskedValue = "***"

// sensitiveKeywords mark environment keys whose values must never be logged.
var sensitiveKeywords = []string{
	"KEY",
	"TOKEN",
	"SECRET",
	"PASSWORD",
}

func isSensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// MaskSecret returns "***" for non-empty secrets and "" otherwise, so dumps
// still show whether a secret is configured.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	return maskedValue
}

// MaskURL strips the password from a connection URL. Unparseable input is
// replaced entirely because it may still embed credentials.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	return u.Redacted()
}

// Redacted returns the effective settings keyed by environment name with
// secrets masked. It backs `config dump` and the startup banner.
func (s Settings) Redacted() map[string]any {
	return map[string]any{
		EnvEnvironment:           s.Environment,
		EnvPort:                  s.Port,
		EnvInternalAPIKey:        MaskSecret(s.InternalAPIKey),
		EnvDatabaseURL:           MaskURL(s.DatabaseURL),
		EnvRedisURL:              MaskURL(s.RedisURL),
		EnvOpenAIAPIKey:          MaskSecret(s.OpenAIAPIKey),
		EnvAnthropicAPIKey:       MaskSecret(s.AnthropicAPIKey),
		EnvBackendServiceURL:     MaskURL(s.BackendServiceURL),
		EnvCORSOrigins:           s.CORSOrigins(),
		EnvListenAddr:            s.Server.ListenAddr,
		EnvServerReadTimeout:     s.Server.ReadTimeout.String(),
		EnvServerWriteTimeout:    s.Server.WriteTimeout.String(),
		EnvServerIdleTimeout:     s.Server.IdleTimeout.String(),
		EnvServerShutdownTimeout: s.Server.ShutdownTimeout.String(),
		EnvServerMaxHeaderBytes:  s.Server.MaxHeaderBytes,
		EnvMetricsListen:         s.Server.MetricsAddr,
		EnvReadyStrict:           s.Server.ReadyStrict,
		EnvLogLevel:              s.Log.Level,
		EnvLogFormat:             s.Log.Format,
		EnvTracingEnabled:        s.Tracing.Enabled,
		EnvTracingExporter:       s.Tracing.Exporter,
		EnvTracingEndpoint:       s.Tracing.Endpoint,
		EnvTracingSamplingRate:   s.Tracing.SamplingRate,
	}
}
