// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisChecker(client)
	assert.Equal(t, "redis", c.Name())

	res := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)

	mr.SetError("LOADING dataset in memory")
	res = c.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Contains(t, res.Error, "LOADING")
}

func TestRedisChecker_ServerGone(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	res := NewRedisChecker(client).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestRedisChecker_NotConfigured(t *testing.T) {
	res := NewRedisChecker(nil).Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPostgresChecker(t *testing.T) {
	ok := NewPostgresChecker(pingFunc(func(context.Context) error { return nil }))
	assert.Equal(t, "postgres", ok.Name())
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)

	failing := NewPostgresChecker(pingFunc(func(context.Context) error {
		return errors.New("dial tcp: connection refused")
	}))
	res := failing.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "dial tcp: connection refused", res.Error)

	assert.Equal(t, StatusDegraded, NewPostgresChecker(nil).Check(context.Background()).Status)
}

func TestHTTPChecker(t *testing.T) {
	tests := []struct {
		name string
		code int
		want Status
	}{
		{name: "ok", code: http.StatusOK, want: StatusHealthy},
		{name: "not found still reachable", code: http.StatusNotFound, want: StatusHealthy},
		{name: "server error", code: http.StatusBadGateway, want: StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
			}))
			t.Cleanup(srv.Close)

			c := NewHTTPChecker("backend", srv.Client(), srv.URL)
			assert.Equal(t, "backend", c.Name())
			assert.Equal(t, tt.want, c.Check(context.Background()).Status)
		})
	}
}

func TestHTTPChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewHTTPChecker("backend", nil, url).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestLLMChecker(t *testing.T) {
	none := NewLLMChecker(func() []string { return nil })
	assert.Equal(t, StatusDegraded, none.Check(context.Background()).Status)

	both := NewLLMChecker(func() []string { return []string{"openai", "anthropic"} })
	res := both.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, "configured: openai, anthropic", res.Message)
}

func TestUnavailableChecker(t *testing.T) {
	c := NewUnavailableChecker("redis", errors.New("invalid redis url"))
	assert.Equal(t, "redis", c.Name())

	res := c.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "not configured", res.Message)
	assert.Equal(t, "invalid redis url", res.Error)

	assert.Empty(t, NewUnavailableChecker("backend", nil).Check(context.Background()).Error)
}
