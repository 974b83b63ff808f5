// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mtracking/analytics/internal/log"
)

// DefaultEnvFile is the optional local overlay read by Load.
const DefaultEnvFile = ".env"

// Source identifies where a setting value came from.
type Source string

const (
	SourceDefault     Source = "default"
	SourceEnvFile     Source = "env_file"
	SourceEnvironment Source = "environment"
)

// Loader merges defaults, the optional env file and the process environment.
type Loader struct {
	envFile string
	environ func() []string
	sources map[string]Source
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvFile overrides the env file path. An empty path disables the overlay.
func WithEnvFile(path string) Option {
	return func(l *Loader) {
		l.envFile = path
	}
}

// WithEnviron replaces os.Environ as the process environment source.
func WithEnviron(environ func() []string) Option {
	return func(l *Loader) {
		l.environ = environ
	}
}

// NewLoader creates a loader reading ./.env and os.Environ by default.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		envFile: DefaultEnvFile,
		environ: os.Environ,
		sources: make(map[string]Source),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is shorthand for NewLoader(opts...).Load().
func Load(opts ...Option) (Settings, error) {
	return NewLoader(opts...).Load()
}

// Load returns validated Settings with precedence: ENV > env file > defaults.
func (l *Loader) Load() (Settings, error) {
	merged, err := l.Merged()
	if err != nil {
		return Settings{}, err
	}

	s, err := FromEnv(merged)
	if err != nil {
		return Settings{}, err
	}

	logger := log.WithComponent("config")
	for _, key := range KnownEnvKeys() {
		src := l.Source(key)
		evt := logger.Debug().Str("key", key).Str("source", string(src))
		if isSensitiveKey(key) {
			evt = evt.Bool("sensitive", true)
		}
		evt.Msg("resolved setting")
	}
	return s, nil
}

// Merged returns the raw key/value view after overlaying the env file with
// the process environment. Only keys known to the service are kept.
func (l *Loader) Merged() (map[string]string, error) {
	known := make(map[string]struct{})
	for _, key := range KnownEnvKeys() {
		known[key] = struct{}{}
	}

	merged := make(map[string]string)
	clear(l.sources)

	fileValues, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}
	for key, value := range fileValues {
		if _, ok := known[key]; !ok {
			continue
		}
		merged[key] = value
		l.sources[key] = SourceEnvFile
	}

	for _, pair := range l.environ() {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		if _, ok := known[key]; !ok {
			continue
		}
		merged[key] = value
		l.sources[key] = SourceEnvironment
	}

	return merged, nil
}

// Source reports where key was resolved from during the last Load/Merged call.
func (l *Loader) Source(key string) Source {
	if src, ok := l.sources[key]; ok {
		return src
	}
	return SourceDefault
}

func (l *Loader) readEnvFile() (map[string]string, error) {
	path := strings.TrimSpace(l.envFile)
	if path == "" {
		return nil, nil
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, envFileError(path, err)
	}
	if info.IsDir() {
		return nil, envFileError(path, fmt.Errorf("is a directory"))
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, envFileError(path, err)
	}
	return values, nil
}

func envFileError(path string, err error) error {
	return &ConfigurationError{Problems: []FieldError{{
		Key:     path,
		Problem: fmt.Sprintf("unreadable env file: %v", err),
	}}}
}
