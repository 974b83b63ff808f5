// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package deps builds the collaborators shared by mounted routers and
// readiness checks: cache, database pool, LLM clients and the backend
// service client. Construction parses connection strings but never dials.
// A value that does not parse leaves its client nil and is reported by
// Problems instead of failing startup.
package deps

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/mtracking/analytics/internal/config"
	"github.com/mtracking/analytics/internal/platform/httpx"
)

// Provider names reported by LLMProviders.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Dependency names used as keys of Problems and as readiness check names.
const (
	NameRedis    = "redis"
	NamePostgres = "postgres"
	NameBackend  = "backend"
)

const defaultBackendTimeout = 10 * time.Second

var (
	// ErrInvalidRedisURL is reported when REDIS_URL cannot be parsed.
	ErrInvalidRedisURL = errors.New("invalid redis url")

	// ErrInvalidDatabaseURL is reported when DATABASE_URL cannot be parsed.
	ErrInvalidDatabaseURL = errors.New("invalid database url")

	// ErrInvalidBackendURL is reported when BACKEND_SERVICE_URL is not an absolute http(s) URL.
	ErrInvalidBackendURL = errors.New("invalid backend service url")
)

// Container holds ready-to-use clients. It is safe for concurrent use.
type Container struct {
	settings config.Settings
	logger   zerolog.Logger

	redis     *redis.Client
	db        *pgxpool.Pool
	openai    *openai.Client
	anthropic *anthropic.LLM

	backendURL    *url.URL
	backendClient *http.Client

	problems map[string]error

	closeOnce sync.Once
	closeErr  error
}

// Option customizes a Container.
type Option func(*options)

type options struct {
	backendTransport http.RoundTripper
}

// WithBackendTransport sets the base transport of the backend client. It is
// still wrapped for tracing.
func WithBackendTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.backendTransport = rt
	}
}

// New builds the container from settings. It does not fail: clients whose
// connection string is unusable stay nil and are listed by Problems.
func New(ctx context.Context, settings config.Settings, logger zerolog.Logger, opts ...Option) *Container {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		settings: settings,
		logger:   logger.With().Str("component", "deps").Logger(),
		problems: make(map[string]error),
	}

	if redisOpts, err := redis.ParseURL(settings.RedisURL); err != nil {
		c.problem(NameRedis, fmt.Errorf("%w: %w", ErrInvalidRedisURL, err))
	} else {
		c.redis = redis.NewClient(redisOpts)
	}

	// pgx redacts the password in its parse errors.
	if poolCfg, err := pgxpool.ParseConfig(settings.DatabaseURL); err != nil {
		c.problem(NamePostgres, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err))
	} else {
		// MinConns stays 0 so the pool opens connections on first use.
		poolCfg.MinConns = 0
		if c.db, err = pgxpool.NewWithConfig(ctx, poolCfg); err != nil {
			c.problem(NamePostgres, fmt.Errorf("create database pool: %w", err))
		}
	}

	if u, err := parseBackendURL(settings.BackendServiceURL); err != nil {
		c.problem(NameBackend, err)
	} else {
		c.backendURL = u
	}
	c.backendClient = httpx.NewClient(defaultBackendTimeout, o.backendTransport)

	if settings.OpenAIAPIKey != "" {
		client := openai.NewClient(option.WithAPIKey(settings.OpenAIAPIKey))
		c.openai = &client
	}

	if settings.AnthropicAPIKey != "" {
		llm, err := anthropic.New(anthropic.WithToken(settings.AnthropicAPIKey))
		if err != nil {
			c.problem(ProviderAnthropic, fmt.Errorf("create anthropic client: %w", err))
		} else {
			c.anthropic = llm
		}
	}

	c.logger.Info().
		Str("event", "deps.ready").
		Bool("redis", c.redis != nil).
		Bool("postgres", c.db != nil).
		Str("backend", config.MaskURL(settings.BackendServiceURL)).
		Strs("llm_providers", c.LLMProviders()).
		Strs("unavailable", lo.Keys(c.problems)).
		Msg("shared clients constructed")

	return c
}

func (c *Container) problem(name string, err error) {
	c.problems[name] = err
	c.logger.Warn().
		Err(err).
		Str("event", "deps.unavailable").
		Str("dependency", name).
		Msg("dependency disabled: unusable configuration value")
}

func parseBackendURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		// url errors echo the input, which may carry credentials.
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackendURL, config.MaskURL(raw))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackendURL, config.MaskURL(raw))
	}
	return u, nil
}

// Settings returns the shared immutable settings.
func (c *Container) Settings() config.Settings {
	return c.settings
}

// Problems returns why a dependency was left unconfigured, keyed by
// dependency name. The map is a copy.
func (c *Container) Problems() map[string]error {
	return maps.Clone(c.problems)
}

// Redis returns the cache client, or nil when REDIS_URL is unusable.
func (c *Container) Redis() *redis.Client {
	return c.redis
}

// DB returns the lazily connecting database pool, or nil when DATABASE_URL
// is unusable.
func (c *Container) DB() *pgxpool.Pool {
	return c.db
}

// OpenAI returns the OpenAI client, or nil when no key is configured.
func (c *Container) OpenAI() *openai.Client {
	return c.openai
}

// Anthropic returns the Anthropic model, or nil when no key is configured.
func (c *Container) Anthropic() *anthropic.LLM {
	return c.anthropic
}

// BackendClient returns the traced HTTP client for the backend service.
func (c *Container) BackendClient() *http.Client {
	return c.backendClient
}

// BackendURL resolves path segments against BACKEND_SERVICE_URL. It returns
// "" when that value is unusable.
func (c *Container) BackendURL(elem ...string) string {
	if c.backendURL == nil {
		return ""
	}
	return c.backendURL.JoinPath(elem...).String()
}

// LLMProviders lists the providers with credentials, in a stable order.
// Keys are never exposed.
func (c *Container) LLMProviders() []string {
	configured := map[string]bool{
		ProviderOpenAI:    c.openai != nil,
		ProviderAnthropic: c.anthropic != nil,
	}
	return lo.Filter([]string{ProviderOpenAI, ProviderAnthropic}, func(name string, _ int) bool {
		return configured[name]
	})
}

// Close releases pooled connections. Safe to call more than once.
func (c *Container) Close() error {
	c.closeOnce.Do(func() {
		if c.db != nil {
			c.db.Close()
		}
		if c.redis != nil {
			if err := c.redis.Close(); err != nil {
				c.closeErr = fmt.Errorf("close redis: %w", err)
			}
		}
		c.backendClient.CloseIdleConnections()
		c.logger.Debug().Str("event", "deps.closed").Msg("shared clients closed")
	})
	return c.closeErr
}
