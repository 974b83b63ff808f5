// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mtracking/analytics/internal/config"
	"github.com/mtracking/analytics/internal/platform/httpx"
)

func runHealthcheckCLI(args []string) int {
	return healthcheck(args, os.Stdout, os.Stderr)
}

// defaultHealthcheckPort follows PORT so container probes need no flags.
func defaultHealthcheckPort() int {
	if p, err := strconv.Atoi(os.Getenv(config.EnvPort)); err == nil && p > 0 {
		return p
	}
	return config.DefaultPort
}

func healthcheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "live", "healthcheck mode: live (default) or ready")
	host := fs.String("host", "localhost", "API host to check")
	port := fs.Int("port", defaultHealthcheckPort(), "API port to check")
	timeout := fs.Duration("timeout", 5*time.Second, "check timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var path string
	switch *mode {
	case "live":
		path = "/health"
	case "ready":
		path = "/ready"
	default:
		fmt.Fprintf(stderr, "Unsupported mode: %s (use live or ready)\n", *mode)
		return 2
	}

	url := "http://" + net.JoinHostPort(*host, strconv.Itoa(*port)) + path
	client := http.Client{
		Timeout:   *timeout,
		Transport: httpx.NewTransport(*timeout),
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(stderr, "Healthcheck failed (network): %v\n", err)
		return 1
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(stderr, "Healthcheck failed (status): %s\n", resp.Status)
		return 1
	}

	fmt.Fprintf(stdout, "Healthcheck successful (%s)\n", *mode)
	return 0
}
