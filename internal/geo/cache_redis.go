package geo

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"routewise/internal/model"
)

// RedisCache shares resolved coordinates across processes. Misses and backend
// errors both read as cache misses; the wrapped resolver is the fallback.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, address string) (model.GeoPoint, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	raw, err := c.rdb.Get(ctx, c.key(address)).Bytes()
	if err != nil {
		return model.GeoPoint{}, false
	}
	var pt model.GeoPoint
	if err := json.Unmarshal(raw, &pt); err != nil {
		return model.GeoPoint{}, false
	}
	return pt, true
}

func (c *RedisCache) Put(ctx context.Context, address string, pt model.GeoPoint) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(pt)
	if err := c.rdb.Set(ctx, c.key(address), data, c.ttl).Err(); err != nil {
		slog.Warn("geocode cache write failed", "err", err)
	}
}

func (c *RedisCache) key(address string) string { return "geocode:" + address }
