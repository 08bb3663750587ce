// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main is the cinematch command: the recommendation engine over a
// DuckDB catalog, driven from the command line or run as a supervised
// service.
//
// # Usage
//
//	cinematch [-config path] <command> [flags]
//
// Commands:
//
//	recommend  -user N -limit N        hybrid recommendations (anonymous when -user is 0)
//	trending   -user N -limit N        movies rated well in the trending window
//	similar    -movie N -user N        movies similar to one movie
//	explain    -movie N -user N        why a movie would be recommended
//	refresh    [-user N]               re-derive preferences (all raters when -user is 0)
//	rate       -user N -movie N -score S [-review text]
//	watch      -user N -movie N [-completion P]
//	stats                              catalog totals
//	load       -file dataset.json      import a dataset ("-" reads stdin)
//	serve                              run preference refresh, cache maintenance and
//	                                   the metrics and health endpoint until SIGINT/SIGTERM
//
// Every command prints JSON to stdout; logs go to stderr.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 (highest priority wins):
//   - Environment variables (DUCKDB_PATH, CACHE_BACKEND, REDIS_ADDR, LOG_LEVEL, RECOMMEND_*)
//   - Config file (-config, CONFIG_PATH, or the default search paths)
//   - Built-in defaults
//
// # Example Usage
//
//	export DUCKDB_PATH=./data/cinematch.duckdb
//	cinematch load -file testdata/catalog.json
//	cinematch rate -user 7 -movie 42 -score 9
//	cinematch recommend -user 7 -limit 10
//
//	CACHE_BACKEND=redis REDIS_ADDR=redis:6379 cinematch serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run parses global flags, loads configuration and dispatches a command.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cinematch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		printUsage(stderr)
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	if err := dispatch(ctx, cfg, fs.Arg(0), fs.Args()[1:], stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		logging.Error().Err(err).Str("command", fs.Arg(0)).Msg("Command failed")
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: cinematch [-config path] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
}
