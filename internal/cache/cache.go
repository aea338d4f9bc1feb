// Package cache implements the six named, size- and TTL-bounded caches described in the
// boost-guardd design (proposal, vote, pow, num_votes, weighted_ratio, lottery_winners), each
// enforcing single-producer "sync-writes" semantics: concurrent requesters for the same key
// fold onto one in-flight computation instead of issuing redundant adapter calls.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value    any
	expireAt time.Time
}

// Cache is a generic, size-bounded, optionally-TTL'd cache with per-key load coalescing.
// A zero TTL means entries never expire on their own.
type Cache struct {
	name  string
	ttl   time.Duration
	lru   *lru.Cache
	group singleflight.Group
}

// New builds a named cache holding up to size entries, each valid for ttl (0 disables expiry).
func New(name string, size int, ttl time.Duration) *Cache {
	backing, err := lru.New(size)
	if err != nil {
		// size is always a positive compile-time constant supplied by callers in this
		// package's constructors; New only errors for size <= 0.
		panic("cache: invalid size for " + name)
	}
	return &Cache{name: name, ttl: ttl, lru: backing}
}

// Name returns the cache's identifier, used for metrics labeling.
func (c *Cache) Name() string {
	return c.name
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(key any) (any, bool) {
	raw, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if !e.expireAt.IsZero() && time.Now().After(e.expireAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, resetting its TTL.
func (c *Cache) Set(key, value any) {
	e := entry{value: value}
	if c.ttl > 0 {
		e.expireAt = time.Now().Add(c.ttl)
	}
	c.lru.Add(key, e)
}

// Remove evicts key unconditionally.
func (c *Cache) Remove(key any) {
	c.lru.Remove(key)
}

// KeyString renders a cache key into a comparable string for the singleflight group. Callers
// pass an already-formatted key (e.g. fmt.Sprintf("%s:%d", boostID, chainID)).
type KeyString = string

// GetOrLoad returns the cached value for key, or computes it via load, coalescing concurrent
// callers for the same sfKey onto a single invocation of load (spec §4.7 "sync-writes").
// Errors from load are not cached: a failed producer lets the next caller retry.
func (c *Cache) GetOrLoad(ctx context.Context, key any, sfKey KeyString, load func(context.Context) (any, error)) (any, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	result, err, _ := c.group.Do(sfKey, func() (any, error) {
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, false, nil
}
