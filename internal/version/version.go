// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package version

var (
	// Version is the published API version. It is also the value reported by GET /.
	Version = "1.0.0"

	// Commit is the git short hash of the build (set via ldflags).
	Commit = "unknown"

	// Date is the build timestamp (set via ldflags).
	Date = "unknown"
)
