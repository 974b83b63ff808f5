// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"net/http"
	"strings"
)

const (
	// corsAllowMethods lists every method the API accepts cross-origin.
	corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"
	corsMaxAge       = "600"

	corsPreflightOK     = "OK"
	corsPreflightDenied = "Disallowed CORS origin"
)

// CORS returns a middleware enforcing an origin allow-list.
//
// An entry of "*" allows any origin. Allowed origins are reflected verbatim,
// which keeps credentialed requests valid. All methods and request headers
// are accepted. Preflight requests are answered here and never reach the
// router; simple requests from unknown origins are served without
// Access-Control-Allow-Origin so the browser blocks the read.
func CORS(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	allowAll := allowed["*"]

	isAllowed := func(origin string) bool {
		return allowAll || allowed[origin]
	}

	// allowOriginValue is the Access-Control-Allow-Origin value for an allowed origin.
	allowOriginValue := func(origin string) string {
		if allowAll && !allowCredentials {
			return "*"
		}
		return origin
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			addVary(h, "Origin")

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if isPreflight(r) {
				h.Set("Content-Type", "text/plain; charset=utf-8")
				if !isAllowed(origin) {
					w.WriteHeader(http.StatusBadRequest)
					_, _ = w.Write([]byte(corsPreflightDenied))
					return
				}

				h.Set("Access-Control-Allow-Origin", allowOriginValue(origin))
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					h.Set("Access-Control-Allow-Headers", requested)
				}
				h.Set("Access-Control-Max-Age", corsMaxAge)
				if allowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(corsPreflightOK))
				return
			}

			if isAllowed(origin) {
				h.Set("Access-Control-Allow-Origin", allowOriginValue(origin))
				if allowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Set("Access-Control-Expose-Headers", HeaderRequestID)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// addVary appends value to the Vary header unless it is already listed.
func addVary(h http.Header, value string) {
	for _, line := range h.Values("Vary") {
		for _, v := range strings.Split(line, ",") {
			if strings.EqualFold(strings.TrimSpace(v), value) {
				return
			}
		}
	}
	h.Add("Vary", value)
}
