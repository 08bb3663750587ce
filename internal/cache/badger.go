// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// badgerKeyPrefix namespaces response entries inside the Badger keyspace.
const badgerKeyPrefix = "resp:"

// badgerGCDiscardRatio is the value log discard ratio used by Maintain.
const badgerGCDiscardRatio = 0.5

// Badger is a response cache persisted in an embedded BadgerDB. Entries
// carry Badger's native TTL, so expired keys are invisible to Get and are
// reclaimed by compaction.
type Badger struct {
	db       *badger.DB
	inMemory bool
	logger   zerolog.Logger
}

// OpenBadger opens (or creates) the Badger cache. InMemory ignores Path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(cfg *config.BadgerConfig, logger zerolog.Logger) (*Badger, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger cache path is required unless in_memory is set")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger cache directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB cache: %w", err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Badger response cache opened")

	return &Badger{db: db, inMemory: cfg.InMemory, logger: logger}, nil
}

// Get returns the cached value for key. Read errors are logged and reported
// as misses.
func (b *Badger) Get(_ context.Context, key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	switch {
	case err == nil:
		metrics.RecordCacheLookup(BackendBadger, true)
		return value, true
	case errors.Is(err, badger.ErrKeyNotFound):
		metrics.RecordCacheLookup(BackendBadger, false)
		return nil, false
	default:
		b.logger.Warn().Err(err).Str("key", key).Msg("badger cache read failed")
		metrics.RecordCacheLookup(BackendBadger, false)
		return nil, false
	}
}

// Set stores value under key for ttl. Write errors are logged and dropped.
func (b *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("badger cache write failed")
	}
}

// Maintain runs one value log garbage collection pass. Having nothing to
// rewrite is not an error.
func (b *Badger) Maintain(_ context.Context) error {
	if b.inMemory {
		return nil
	}
	err := b.db.RunValueLogGC(badgerGCDiscardRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("badger value log gc: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB cache: %w", err)
	}
	return nil
}
