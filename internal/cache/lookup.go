// Package cache provides caching utilities for the MCP server.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// Cache is a thread-safe LRU cache whose entries expire after a TTL.
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New creates a cache holding at most maxItems entries for ttl each.
// A zero ttl disables expiry.
func New[V any](maxItems int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{lru: expirable.NewLRU[string, V](maxItems, nil, ttl)}
}

// Get retrieves a value by key.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Put adds or updates a value.
func (c *Cache[V]) Put(key string, v V) {
	c.lru.Add(key, v)
}

// Remove drops a key.
func (c *Cache[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Len returns the current number of items in the cache.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// LookupCache caches QRZ records by normalized key. Each lookup counts
// against the account's daily quota, so repeated lookups are served locally.
type LookupCache struct {
	Callsigns   *Cache[*client.Callsign]
	DXCC        *Cache[*client.DXCC]
	Biographies *Cache[*client.Biography]
}

// NewLookupCache creates a LookupCache with the same bounds for every record kind.
func NewLookupCache(maxItems int, ttl time.Duration) *LookupCache {
	return &LookupCache{
		Callsigns:   New[*client.Callsign](maxItems, ttl),
		DXCC:        New[*client.DXCC](maxItems, ttl),
		Biographies: New[*client.Biography](maxItems, ttl),
	}
}
