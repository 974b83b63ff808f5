// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration classifies every settings failure.
// Use errors.Is(err, ErrConfiguration) instead of string matching.
var ErrConfiguration = errors.New("configuration error")

// FieldError describes one offending setting.
type FieldError struct {
	Key     string
	Problem string
}

func (f FieldError) String() string {
	return f.Key + ": " + f.Problem
}

// ConfigurationError is returned when required settings are missing or a
// value fails type coercion. It is fatal: the service must not start serving.
type ConfigurationError struct {
	Problems []FieldError
}

func (e *ConfigurationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return ErrConfiguration.Error()
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(parts, "; "))
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Keys returns the offending environment keys in report order.
func (e *ConfigurationError) Keys() []string {
	keys := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		keys = append(keys, p.Key)
	}
	return keys
}
