// Package cache wraps roster and fee sources with a TTL cache. While an entry
// is fresh the wrapped source is not called and the very same result is
// returned, so identity-memoized reconcilers and aggregators hit.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultSize is the number of entries kept per cache.
	DefaultSize = 256
	// DefaultTTL is how long an entry stays fresh.
	DefaultTTL = time.Minute
	// DefaultFetchTimeout bounds a fetch shared by several callers.
	DefaultFetchTimeout = 30 * time.Second
)

// Config sizes a cache.
type Config struct {
	Size int
	TTL  time.Duration
	// FetchTimeout bounds a shared fetch, which outlives the cancellation
	// of the caller that started it.
	FetchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	return c
}

// store is a TTL cache whose concurrent misses for one key share a single
// fetch. Failed fetches are not cached.
type store[V any] struct {
	name    string
	lru     *expirable.LRU[string, V]
	group   singleflight.Group
	timeout time.Duration
	logger  *slog.Logger
}

func newStore[V any](name string, cfg Config, logger *slog.Logger) *store[V] {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &store[V]{
		name:    name,
		lru:     expirable.NewLRU[string, V](cfg.Size, nil, cfg.TTL),
		timeout: cfg.FetchTimeout,
		logger:  logger,
	}
}

func (s *store[V]) get(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	if v, ok := s.lru.Get(key); ok {
		s.logger.Debug("cache hit", "cache", s.name, "key", key)
		return v, nil
	}

	// The fetch runs detached from ctx: a caller that gives up must not fail
	// the others waiting on the same key.
	ch := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.lru.Peek(key); ok {
			return v, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		v, err := fetch(fetchCtx)
		if err != nil {
			return v, err
		}
		s.lru.Add(key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("cache fetch failed", "cache", s.name, "key", key, "error", res.Err)
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (s *store[V]) purge() {
	s.lru.Purge()
}
