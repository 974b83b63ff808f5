// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the service.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPUserAgentKey  = "http.user_agent"

	// Dependency attributes (readiness checks, outbound clients)
	DependencyNameKey   = "dependency.name"
	DependencyStatusKey = "dependency.status"

	// LLM attributes
	LLMProviderKey = "llm.provider"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// UserAgentAttribute records the caller's User-Agent.
func UserAgentAttribute(userAgent string) attribute.KeyValue {
	return attribute.String(HTTPUserAgentKey, userAgent)
}

// DependencyAttributes describes a probed dependency. An empty status is omitted.
func DependencyAttributes(name, status string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(DependencyNameKey, name)}
	if status != "" {
		attrs = append(attrs, attribute.String(DependencyStatusKey, status))
	}
	return attrs
}

// LLMProviderAttribute names the configured model provider.
func LLMProviderAttribute(provider string) attribute.KeyValue {
	return attribute.String(LLMProviderKey, provider)
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
