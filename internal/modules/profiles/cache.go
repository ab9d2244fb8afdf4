package profiles

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize bounds the number of users whose profile is kept.
const DefaultCacheSize = 10_000

// Cache keeps the last known profile per user for checkout prefill and for
// deciding between create and update at submission time. Entries expire after
// ttl and the least recently used are evicted past the size bound.
type Cache struct {
	lru *expirable.LRU[string, Profile]
}

// NewCache returns a cache of DefaultCacheSize entries. A zero ttl never expires.
func NewCache(ttl time.Duration) *Cache {
	return NewSizedCache(DefaultCacheSize, ttl)
}

func NewSizedCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, Profile](size, nil, ttl)}
}

func (c *Cache) Get(userID string) (Profile, bool) { return c.lru.Get(userID) }

func (c *Cache) Put(userID string, p Profile) { c.lru.Add(userID, p) }

func (c *Cache) Delete(userID string) { c.lru.Remove(userID) }

// Len counts the entries still held, expired ones included until purged.
func (c *Cache) Len() int { return c.lru.Len() }
