package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// maxLoadTime bounds a shared load once it is detached from its callers.
const maxLoadTime = 2 * time.Minute

// PayloadCache stores raw model payloads under hashed keys.
// Redis failures are logged and treated as misses; the cache never turns a
// successful model call into an error.
type PayloadCache struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
	group  singleflight.Group
	log    *slog.Logger
}

// NewPayloadCache creates a PayloadCache. A zero ttl stores keys without expiry.
func NewPayloadCache(client goredis.Cmdable, prefix string, ttl time.Duration, logger *slog.Logger) *PayloadCache {
	return &PayloadCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    logger.With("adapter", "redis"),
	}
}

// GetOrLoad returns the cached payload for key, or calls load and stores its
// result. Concurrent callers for the same key share one load, which runs
// detached from any single caller's cancellation; a caller whose ctx ends
// stops waiting without failing the others. Load errors are returned
// unchanged and nothing is stored.
func (c *PayloadCache) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	full := c.prefix + key

	data, err := c.client.Get(ctx, full).Bytes()
	switch {
	case err == nil:
		c.log.DebugContext(ctx, "payload cache hit", slog.String("key", key))
		return data, nil
	case !errors.Is(err, goredis.Nil):
		c.log.WarnContext(ctx, "payload cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	ch := c.group.DoChan(full, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), maxLoadTime)
		defer cancel()

		payload, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(lctx, full, payload, c.ttl).Err(); err != nil {
			c.log.WarnContext(lctx, "payload cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.DebugContext(ctx, "payload load shared", slog.String("key", key))
		}
		return res.Val.([]byte), nil
	}
}

// Ping reports whether Redis is reachable.
func (c *PayloadCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
