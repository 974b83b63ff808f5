// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mtracking/analytics/internal/config"
)

func testService() Service {
	return Service{Name: "analytics", Version: "1.0.0", Environment: "test"}
}

func resetGlobalProvider(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
}

func TestNewProvider_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	provider, err := NewProvider(context.Background(), config.TracingConfig{Exporter: "grpc"}, testService())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if provider.Enabled() {
		t.Error("Expected disabled provider")
	}
	if otel.GetTracerProvider() != before {
		t.Error("disabled provider must not replace the global tracer provider")
	}
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), config.TracingConfig{
		Enabled:  true,
		Exporter: "zipkin",
	}, testService())
	if err == nil {
		t.Fatal("Expected error for unsupported exporter")
	}

	expectedMsg := `unsupported exporter "zipkin"`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		exporter string
		endpoint string
		rate     float64
	}{
		{exporter: "grpc", endpoint: "127.0.0.1:4317", rate: 1.0},
		{exporter: "http", endpoint: "127.0.0.1:4318", rate: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.exporter, func(t *testing.T) {
			resetGlobalProvider(t)

			// Exporters connect lazily, so construction succeeds offline.
			provider, err := NewProvider(context.Background(), config.TracingConfig{
				Enabled:      true,
				Exporter:     tt.exporter,
				Endpoint:     tt.endpoint,
				SamplingRate: tt.rate,
			}, testService())
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if !provider.Enabled() {
				t.Fatal("Expected enabled provider")
			}
			if otel.GetTracerProvider() != provider.tp {
				t.Error("enabled provider must be installed globally")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = provider.Shutdown(ctx)
		})
	}
}

func TestNewProvider_ResourceCarriesEnvironment(t *testing.T) {
	resetGlobalProvider(t)

	provider, err := NewProvider(context.Background(), config.TracingConfig{
		Enabled:      true,
		Exporter:     "http",
		Endpoint:     "127.0.0.1:4318",
		SamplingRate: 1.0,
	}, Service{Name: "analytics", Version: "2.1.0", Environment: "staging"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = provider.Shutdown(ctx)
	})

	_, span := Tracer("test").Start(context.Background(), "resource-check")
	defer span.End()
	if !span.IsRecording() {
		t.Fatal("Expected recording span at full sampling")
	}

	ro, ok := span.(sdktrace.ReadOnlySpan)
	if !ok {
		t.Fatalf("Expected sdk span, got %T", span)
	}
	attrs := map[attribute.Key]string{}
	for _, kv := range ro.Resource().Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	for key, want := range map[attribute.Key]string{
		semconv.ServiceNameKey:           "analytics",
		semconv.ServiceVersionKey:        "2.1.0",
		semconv.DeploymentEnvironmentKey: "staging",
	} {
		if attrs[key] != want {
			t.Errorf("resource %s = %q, want %q", key, attrs[key], want)
		}
	}
}

func TestProvider_ShutdownDisabled(t *testing.T) {
	provider := &Provider{}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected no error on disabled shutdown, got: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Expected no error on disabled shutdown with canceled context, got: %v", err)
	}
}

func TestProvider_EnabledNil(t *testing.T) {
	var p *Provider
	if p.Enabled() {
		t.Error("nil provider must report disabled")
	}
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-tracer")
	if tracer == nil {
		t.Fatal("Expected non-nil tracer")
	}

	_, span := tracer.Start(context.Background(), "test-span")
	if span == nil {
		t.Fatal("Expected non-nil span")
	}
	span.End()
}
