// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"

	"github.com/tomtom215/cinematch/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules tags
// cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateCache,
		c.validateServer,
		c.validateRefresh,
		c.Recommend.Validate,
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheBackendMemory:
		if c.Cache.MemoryCapacity < 1 {
			return fmt.Errorf("cache.memory_capacity must be positive for the memory backend, got %d", c.Cache.MemoryCapacity)
		}
	case CacheBackendBadger:
		if !c.Cache.Badger.InMemory && c.Cache.Badger.Path == "" {
			return fmt.Errorf("cache.badger.path is required unless cache.badger.in_memory is set")
		}
	case CacheBackendRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
		if c.Cache.Breaker.OpenTimeout <= 0 {
			return fmt.Errorf("cache.breaker.open_timeout must be positive, got %v", c.Cache.Breaker.OpenTimeout)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.Refresh.Enabled && c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive when refresh is enabled, got %v", c.Refresh.Interval)
	}
	return nil
}

// CacheEnabled reports whether a response cache backend is configured and
// the engine is allowed to use it.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Backend != CacheBackendNone && c.Recommend.Cache.Enabled
}
