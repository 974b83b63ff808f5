// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mtracking/analytics/internal/log"
)

var (
	// ErrInvalidMountPrefix is returned when a mount prefix is not an absolute path.
	ErrInvalidMountPrefix = errors.New("mount prefix must start with / and not be the root")

	// ErrAlreadyMounted is returned when a prefix already has a router.
	ErrAlreadyMounted = errors.New("prefix already mounted")

	// ErrNilRouter is returned when Mount is given no router.
	ErrNilRouter = errors.New("router is required")
)

// errorDetail is the body shape of every framework-level error.
type errorDetail struct {
	Detail string `json:"detail"`
}

// writeJSON writes v as compact JSON without a trailing newline.
func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).
			Str(log.FieldEvent, "response.encode_error").
			Msg("failed to encode response")
		code = http.StatusInternalServerError
		body = []byte(`{"detail":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// writeDetail writes {"detail": http.StatusText(code)}.
func writeDetail(w http.ResponseWriter, r *http.Request, code int) {
	writeJSON(w, r, code, errorDetail{Detail: http.StatusText(code)})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, r, http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, r, http.StatusMethodNotAllowed)
}
