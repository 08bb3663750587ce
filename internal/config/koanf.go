// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/cinematch.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Cache: CacheConfig{
			Backend:        CacheBackendMemory,
			MemoryCapacity: 10000,
			Badger: BadgerConfig{
				Path:     "/data/cache",
				InMemory: false,
			},
			Redis: RedisConfig{
				Addr:         "127.0.0.1:6379",
				DB:           0,
				KeyPrefix:    "cinematch:",
				DialTimeout:  2 * time.Second,
				ReadTimeout:  500 * time.Millisecond,
				WriteTimeout: 500 * time.Millisecond,
			},
			Breaker: BreakerConfig{
				MaxFailures: 5,
				OpenTimeout: 30 * time.Second,
				Interval:    time.Minute,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Server: ServerConfig{
			MetricsAddr:     ":9090",
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       600,
		},
		Refresh: RefreshConfig{
			Enabled:   true,
			Interval:  6 * time.Hour,
			OnStartup: false,
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables
	// DUCKDB_PATH -> database.path
	// RECOMMEND_TRENDING_WINDOW -> recommend.trending.window
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Cache
	"cache_backend":         "cache.backend",
	"cache_memory_capacity": "cache.memory_capacity",
	"badger_path":           "cache.badger.path",
	"badger_in_memory":      "cache.badger.in_memory",
	"redis_addr":            "cache.redis.addr",
	"redis_password":        "cache.redis.password",
	"redis_db":              "cache.redis.db",
	"redis_key_prefix":      "cache.redis.key_prefix",
	"redis_dial_timeout":    "cache.redis.dial_timeout",
	"redis_read_timeout":    "cache.redis.read_timeout",
	"redis_write_timeout":   "cache.redis.write_timeout",
	"breaker_max_failures":  "cache.breaker.max_failures",
	"breaker_open_timeout":  "cache.breaker.open_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Server
	"metrics_addr":     "server.metrics_addr",
	"shutdown_timeout": "server.shutdown_timeout",
	"http_rate_limit":  "server.rate_limit",

	// Preference refresh
	"refresh_enabled":    "refresh.enabled",
	"refresh_interval":   "refresh.interval",
	"refresh_on_startup": "refresh.on_startup",

	// Recommendation engine
	"recommend_cf_weight":              "recommend.weights.collaborative",
	"recommend_cbf_weight":             "recommend.weights.content",
	"recommend_cf_min_ratings":         "recommend.collaborative.min_ratings",
	"recommend_cf_max_rank":            "recommend.collaborative.max_rank",
	"recommend_cf_max_matrix_cells":    "recommend.collaborative.max_matrix_cells",
	"recommend_cf_timeout":             "recommend.collaborative.timeout",
	"recommend_max_vocabulary_terms":   "recommend.content.max_vocabulary_terms",
	"recommend_trending_window":        "recommend.trending.window",
	"recommend_trending_min_ratings":   "recommend.trending.min_ratings",
	"recommend_trending_min_mean":      "recommend.trending.min_mean",
	"recommend_liked_threshold":        "recommend.behavior.liked_threshold",
	"recommend_low_threshold":          "recommend.behavior.low_threshold",
	"recommend_favorite_share":         "recommend.behavior.favorite_share",
	"recommend_disliked_share":         "recommend.behavior.disliked_share",
	"recommend_default_limit":          "recommend.limits.default_limit",
	"recommend_max_limit":              "recommend.limits.max_limit",
	"recommend_cache_enabled":          "recommend.cache.enabled",
	"recommend_cache_ttl":              "recommend.cache.ttl",
	"recommend_explain_high_rating":    "recommend.explain.high_rating",
	"recommend_explain_popular_count":  "recommend.explain.popular_count",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return an empty key and are skipped, which keeps
// unrelated environment out of the configuration.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - CACHE_BACKEND -> cache.backend
//   - REDIS_ADDR -> cache.redis.addr
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
