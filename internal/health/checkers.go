// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mtracking/analytics/internal/platform/httpx"
)

// RedisPinger is the subset of a go-redis client used by RedisChecker.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisChecker pings the cache.
type RedisChecker struct {
	client RedisPinger
}

// NewRedisChecker creates a checker that issues PING against client.
func NewRedisChecker(client RedisPinger) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string {
	return "redis"
}

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	if c.client == nil {
		return CheckResult{Status: StatusDegraded, Message: "not configured"}
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "PONG"}
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PostgresChecker pings the database pool.
type PostgresChecker struct {
	pool Pinger
}

// NewPostgresChecker creates a checker that pings pool.
func NewPostgresChecker(pool Pinger) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string {
	return "postgres"
}

func (c *PostgresChecker) Check(ctx context.Context) CheckResult {
	if c.pool == nil {
		return CheckResult{Status: StatusDegraded, Message: "not configured"}
	}
	if err := c.pool.Ping(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "connection ok"}
}

// HTTPChecker probes an upstream HTTP service. Any response below 500 counts
// as reachable; a 5xx is degraded and a transport failure unhealthy.
type HTTPChecker struct {
	name   string
	client *http.Client
	url    string
}

// NewHTTPChecker creates a checker issuing GET requests to url.
func NewHTTPChecker(name string, client *http.Client, url string) *HTTPChecker {
	if client == nil {
		client = httpx.NewClient(DefaultCheckTimeout, nil)
	}
	return &HTTPChecker{name: name, client: client, url: url}
}

func (c *HTTPChecker) Name() string {
	return c.name
}

func (c *HTTPChecker) Check(ctx context.Context) CheckResult {
	if strings.TrimSpace(c.url) == "" {
		return CheckResult{Status: StatusDegraded, Message: "not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= http.StatusInternalServerError {
		return CheckResult{Status: StatusDegraded, Message: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("status %d", resp.StatusCode)}
}

// LLMChecker reports which model providers have credentials. It never
// contacts the providers.
type LLMChecker struct {
	providers func() []string
}

// NewLLMChecker creates a checker around a provider listing function.
func NewLLMChecker(providers func() []string) *LLMChecker {
	return &LLMChecker{providers: providers}
}

func (c *LLMChecker) Name() string {
	return "llm"
}

func (c *LLMChecker) Check(_ context.Context) CheckResult {
	var configured []string
	if c.providers != nil {
		configured = c.providers()
	}
	if len(configured) == 0 {
		return CheckResult{Status: StatusDegraded, Message: "no LLM provider configured"}
	}
	return CheckResult{Status: StatusHealthy, Message: "configured: " + strings.Join(configured, ", ")}
}

// UnavailableChecker stands in for a dependency whose client could not be
// built from its configuration value.
type UnavailableChecker struct {
	name string
	err  error
}

// NewUnavailableChecker creates a checker that always reports err.
func NewUnavailableChecker(name string, err error) *UnavailableChecker {
	return &UnavailableChecker{name: name, err: err}
}

func (c *UnavailableChecker) Name() string {
	return c.name
}

func (c *UnavailableChecker) Check(_ context.Context) CheckResult {
	res := CheckResult{Status: StatusUnhealthy, Message: "not configured"}
	if c.err != nil {
		res.Error = c.err.Error()
	}
	return res
}
