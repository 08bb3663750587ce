// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Cache backends.
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig   `koanf:"database"`
	Cache     CacheConfig      `koanf:"cache"`
	Logging   LoggingConfig    `koanf:"logging"`
	Server    ServerConfig     `koanf:"server"`
	Refresh   RefreshConfig    `koanf:"refresh"`
	Recommend recommend.Config `koanf:"recommend"`
}

// DatabaseConfig holds DuckDB database configuration
type DatabaseConfig struct {
	Path                   string `koanf:"path" validate:"required"`
	MaxMemory              string `koanf:"max_memory" validate:"required"`
	Threads                int    `koanf:"threads" validate:"gte=0"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
	SkipIndexes            bool   `koanf:"skip_indexes"` // for bulk loads
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	// Backend is one of none, memory, badger or redis.
	Backend string `koanf:"backend" validate:"oneof=none memory badger redis"`

	// MemoryCapacity bounds the in-process cache entry count.
	MemoryCapacity int `koanf:"memory_capacity" validate:"gte=0"`

	Badger  BadgerConfig  `koanf:"badger"`
	Redis   RedisConfig   `koanf:"redis"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// BadgerConfig configures the embedded persistent cache.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// RedisConfig configures the shared remote cache.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db" validate:"gte=0"`
	KeyPrefix    string        `koanf:"key_prefix"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// BreakerConfig configures the circuit breaker guarding remote cache calls.
type BreakerConfig struct {
	// MaxFailures is the consecutive failure count that opens the breaker.
	MaxFailures uint32 `koanf:"max_failures" validate:"gte=1"`

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration `koanf:"open_timeout"`

	// Interval resets the closed-state counts; 0 never resets.
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ServerConfig configures the long-running serve mode.
type ServerConfig struct {
	// MetricsAddr is the listen address of the metrics and health endpoint.
	// Empty disables the listener.
	MetricsAddr     string        `koanf:"metrics_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the per-client request budget per minute; 0 disables.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
}

// RefreshConfig configures the periodic preference refresh.
type RefreshConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"on_startup"`
}
