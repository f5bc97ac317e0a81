package service

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"
)

// ListingCache keeps rendered public listings in memcached so the landing
// pages don't hit Postgres on every load. Entries carry an xxh3-derived ETag
// for conditional requests. A nil memcache client degrades to pass-through.
type ListingCache struct {
	mc  *memcache.Client
	ttl int32
}

func NewListingCache(mc *memcache.Client, ttlSeconds int32) *ListingCache {
	return &ListingCache{mc: mc, ttl: ttlSeconds}
}

func (c *ListingCache) Get(key string) ([]byte, string, bool) {
	if c.mc == nil {
		return nil, "", false
	}
	item, err := c.mc.Get(key)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			slog.Debug(
				"Listing cache get failed",
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
		return nil, "", false
	}
	return item.Value, ETag(item.Value), true
}

// Put stores the JSON encoding of v and returns it with its ETag. Cache
// write failures are non-fatal.
func (c *ListingCache) Put(key string, v any) ([]byte, string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	if c.mc != nil {
		err = c.mc.Set(&memcache.Item{Key: key, Value: payload, Expiration: c.ttl})
		if err != nil {
			slog.Debug(
				"Listing cache set failed",
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
	}
	return payload, ETag(payload), nil
}

func (c *ListingCache) Invalidate(keys ...string) {
	if c.mc == nil {
		return
	}
	for _, key := range keys {
		err := c.mc.Delete(key)
		if err != nil && err != memcache.ErrCacheMiss {
			slog.Debug(
				"Listing cache delete failed",
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
	}
}

// ETag derives a strong validator from a rendered payload.
func ETag(payload []byte) string {
	return fmt.Sprintf("\"%016x\"", xxh3.Hash(payload))
}
