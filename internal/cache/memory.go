// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// DefaultMemoryCapacity is used when a non-positive capacity is configured.
const DefaultMemoryCapacity = 10000

// memoryEntry is a node in the recency list.
type memoryEntry struct {
	key       string
	value     []byte
	prev      *memoryEntry
	next      *memoryEntry
	expiresAt time.Time
}

// Memory is a thread-safe in-process response cache with per-entry TTL and
// least-recently-used eviction once capacity is reached.
//
// Get, Set and eviction are O(1): a map indexes nodes of a doubly linked
// list whose head is the most recently used entry. Expired entries are
// dropped lazily on Get and in bulk by Maintain.
type Memory struct {
	mu sync.Mutex

	capacity int
	items    map[string]*memoryEntry

	// head.next is the most recently used, tail.prev the least.
	head *memoryEntry
	tail *memoryEntry

	hits      int64
	misses    int64
	evictions int64

	now func() time.Time
}

// NewMemory creates a memory cache holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}

	c := &Memory{
		capacity: capacity,
		items:    make(map[string]*memoryEntry),
		head:     &memoryEntry{},
		tail:     &memoryEntry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the cached value for key. Expired entries are removed and
// reported as misses.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.RecordCacheLookup(BackendMemory, false)
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.removeEntry(entry)
		c.evictions++
		c.misses++
		metrics.CacheEvictions.WithLabelValues(BackendMemory).Inc()
		metrics.RecordCacheLookup(BackendMemory, false)
		return nil, false
	}

	c.moveToFront(entry)
	c.hits++
	metrics.RecordCacheLookup(BackendMemory, true)
	return entry.value, true
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &memoryEntry{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(len(c.items)))
}

// Delete removes key.
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.removeEntry(entry)
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes every entry.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*memoryEntry)
	c.head.next = c.tail
	c.tail.prev = c.head
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(0)
}

// Maintain removes every expired entry.
func (c *Memory) Maintain(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if !now.Before(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
		entry = prev
	}

	c.evictions += int64(removed)
	metrics.CacheEvictions.WithLabelValues(BackendMemory).Add(float64(removed))
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(len(c.items)))
	return nil
}

// Stats returns hit, miss and eviction counts.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   int64(len(c.items)),
	}
}

// Close clears the cache.
func (c *Memory) Close() error {
	c.Clear()
	return nil
}

// List helpers; callers hold c.mu.

func (c *Memory) addToFront(entry *memoryEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *Memory) moveToFront(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *Memory) removeEntry(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

func (c *Memory) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
	c.evictions++
	metrics.CacheEvictions.WithLabelValues(BackendMemory).Inc()
}
