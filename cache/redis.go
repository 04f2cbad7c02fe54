package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through byte cache on Redis. Concurrent misses for the
// same key share a single load.
type Cache struct {
	RDB *redis.Client
	TTL time.Duration
	sf  singleflight.Group
}

func New(addr, pass string, db int, ttl time.Duration) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		TTL: ttl,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.RDB.Ping(ctx).Err()
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Redis errors degrade to calling load; load errors are not cached.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, c.TTL).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.RDB.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error {
	return c.RDB.Close()
}
