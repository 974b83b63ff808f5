// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config builds the immutable Settings record of the analytics
// service from built-in defaults, an optional .env file and the process
// environment (lowest to highest precedence).
//
// Settings is constructed once in main and passed explicitly to everything
// that needs it. There is no package-level settings value.
package config
