// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mtracking/analytics/internal/config"
)

// configCLI implements `analytics config ...`.
type configCLI struct {
	stdout  io.Writer
	stderr  io.Writer
	environ func() []string
}

func runConfigCLI(args []string) int {
	return configCLI{stdout: os.Stdout, stderr: os.Stderr, environ: os.Environ}.run(args)
}

func (c configCLI) run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		c.printUsage()
		return 0
	}

	switch args[0] {
	case "validate":
		return c.validate(args[1:])
	case "dump":
		return c.dump(args[1:])
	default:
		fmt.Fprintf(c.stderr, "Unknown subcommand: %s\n\n", args[0])
		c.printUsage()
		return 2
	}
}

func (c configCLI) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  analytics config validate [--env-file .env]")
	fmt.Fprintln(c.stderr, "  analytics config dump [--env-file .env] [--format=yaml|json]")
}

func (c configCLI) load(envFile string) (config.Settings, error) {
	return config.Load(config.WithEnvFile(envFile), config.WithEnviron(c.environ))
}

func (c configCLI) validate(args []string) int {
	fs := flag.NewFlagSet("analytics config validate", flag.ContinueOnError)
	fs.SetOutput(c.stderr)

	var envFile string
	fs.StringVar(&envFile, "env-file", config.DefaultEnvFile, "optional dotenv file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if _, err := c.load(envFile); err != nil {
		fmt.Fprintf(c.stderr, "Configuration error:\n  %v\n", err)
		return 1
	}

	fmt.Fprintln(c.stdout, "✓ configuration is valid")
	return 0
}

func (c configCLI) dump(args []string) int {
	fs := flag.NewFlagSet("analytics config dump", flag.ContinueOnError)
	fs.SetOutput(c.stderr)

	var envFile string
	var format string
	fs.StringVar(&envFile, "env-file", config.DefaultEnvFile, "optional dotenv file")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	settings, err := c.load(envFile)
	if err != nil {
		fmt.Fprintf(c.stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	effective := settings.Redacted()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(effective); err != nil {
			fmt.Fprintf(c.stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(effective); err != nil {
			fmt.Fprintf(c.stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(c.stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}
}
