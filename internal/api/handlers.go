// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"
)

// Application metadata surfaced by GET / and the OpenAPI document.
const (
	Title       = "M-Tracking Analytics API"
	Description = "AI/LLM service for transaction categorization and chat assistant"
	Version     = "1.0.0"

	// ServiceName identifies this service in liveness responses.
	ServiceName = "analytics"

	docsPath    = "/docs"
	redocPath   = "/redoc"
	openAPIPath = "/openapi.json"
)

// HealthResponse is the fixed liveness body.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// RootResponse is the fixed service metadata body.
type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// handleHealth answers liveness probes. It never consults settings or
// dependencies, so it stays green while collaborators are down.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, RootResponse{
		Service: Title,
		Version: Version,
		Docs:    docsPath,
	})
}
