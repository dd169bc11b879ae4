// Package respcache memoizes idempotent backend reads for the lifetime of an
// app session. Entries are written once per key and never refreshed; only
// Invalidate, Clear and Close remove them.
package respcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/yanqian/aqi-insight/pkg/metrics"
)

// Fetcher performs the underlying GET on a miss.
type Fetcher interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
}

// Store persists raw response bodies by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetIfAbsent(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Cache is a read-through cache in front of a Fetcher. Concurrent misses for
// the same key share one upstream request.
type Cache struct {
	store   Store
	fetcher Fetcher
	group   singleflight.Group
	logger  *slog.Logger
}

// New builds a cache over store and fetcher.
func New(store Store, fetcher Fetcher, logger *slog.Logger) *Cache {
	return &Cache{
		store:   store,
		fetcher: fetcher,
		logger:  logger.With("component", "respcache"),
	}
}

// Key composes the cache key from a path and its query parameters.
// url.Values.Encode sorts by key, so equivalent parameter sets share a key.
func Key(path string, params url.Values) string {
	encoded := params.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

// Get returns the decoded body for path and params, fetching on a miss.
// Failed fetches are not cached.
func (c *Cache) Get(ctx context.Context, path string, params url.Values) (any, error) {
	key := Key(path, params)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache store read failed, fetching", "key", key, "error", err)
	}
	if ok {
		metrics.RecordCacheLookup(metrics.CacheHit)
		return decode(raw)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if cached, ok, _ := c.store.Get(fetchCtx, key); ok {
			return cached, nil
		}
		body, err := c.fetcher.Get(fetchCtx, path, params)
		if err != nil {
			return nil, err
		}
		if _, err := decode(body); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := c.store.SetIfAbsent(fetchCtx, key, body); err != nil {
			c.logger.Warn("cache store write failed", "key", key, "error", err)
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.RecordCacheLookup(metrics.CacheShared)
		} else {
			metrics.RecordCacheLookup(metrics.CacheMiss)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return decode(res.Val.([]byte))
	}
}

// Invalidate drops the entry for path and params.
func (c *Cache) Invalidate(ctx context.Context, path string, params url.Values) error {
	return c.store.Delete(ctx, Key(path, params))
}

// Clear drops every entry of this session.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Close clears the session's entries and releases the store.
func (c *Cache) Close(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("cache clear on close failed", "error", err)
	}
	return c.store.Close()
}

func decode(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return doc, nil
}
