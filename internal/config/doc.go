// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config provides centralized configuration management for Cinematch.

# Configuration Sources

Configuration is layered with Koanf v2. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Mapped environment variables

# Environment Variables

Only the variables listed in envMappings are read. The common ones:

Database (DatabaseConfig):
  - DUCKDB_PATH: Database file path (default: /data/cinematch.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: Thread count (default: CPU count)

Cache (CacheConfig):
  - CACHE_BACKEND: none, memory, badger or redis (default: memory)
  - BADGER_PATH: Badger directory (default: /data/cache)
  - REDIS_ADDR: Redis address (default: 127.0.0.1:6379)
  - BREAKER_MAX_FAILURES: Consecutive Redis failures before the breaker opens

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)

Engine (recommend.Config):
  - RECOMMEND_CF_WEIGHT / RECOMMEND_CBF_WEIGHT: hybrid weights (0.6 / 0.4)
  - RECOMMEND_TRENDING_WINDOW: trending window (default: 720h)
  - RECOMMEND_CACHE_TTL: response cache TTL (default: 5m)

# Validation

Validate applies the validate struct tags through the validation package,
then cross-field rules such as a Redis address being required for the redis
backend, and finally recommend.Config.Validate.

# Example Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	db, err := database.New(&cfg.Database)
*/
package config
