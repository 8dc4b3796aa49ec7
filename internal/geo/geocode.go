package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"routewise/internal/model"
)

// Resolver is the external geocoding contract. Implementations live outside
// the optimizer; a failed resolution drops the stop upstream, it is never
// fatal to a call.
type Resolver interface {
	Resolve(ctx context.Context, address string) (model.GeoPoint, error)
}

// ErrNotFound is returned when an address has no known coordinates.
var ErrNotFound = errors.New("geocode: address not found")

// Cache is a read-through coordinate cache. Coordinates for an address are
// immutable once resolved, so concurrent readers need no coordination beyond
// the backend itself.
type Cache interface {
	Get(ctx context.Context, address string) (model.GeoPoint, bool)
	Put(ctx context.Context, address string, pt model.GeoPoint)
}

// MemoryCache is the default process-wide cache backend.
type MemoryCache struct {
	m sync.Map
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (c *MemoryCache) Get(_ context.Context, address string) (model.GeoPoint, bool) {
	v, ok := c.m.Load(address)
	if !ok {
		return model.GeoPoint{}, false
	}
	return v.(model.GeoPoint), true
}

func (c *MemoryCache) Put(_ context.Context, address string, pt model.GeoPoint) {
	c.m.Store(address, pt)
}

// CachingResolver consults the cache before the wrapped resolver and stores
// successful resolutions. Failures are not cached.
type CachingResolver struct {
	next  Resolver
	cache Cache
}

func NewCachingResolver(next Resolver, cache Cache) *CachingResolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &CachingResolver{next: next, cache: cache}
}

func (r *CachingResolver) Resolve(ctx context.Context, address string) (model.GeoPoint, error) {
	if pt, ok := r.cache.Get(ctx, address); ok {
		return pt, nil
	}
	pt, err := r.next.Resolve(ctx, address)
	if err != nil {
		return model.GeoPoint{}, err
	}
	r.cache.Put(ctx, address, pt)
	return pt, nil
}

// RateLimitedResolver throttles calls to an upstream geocoder.
type RateLimitedResolver struct {
	next    Resolver
	limiter *rate.Limiter
}

func NewRateLimitedResolver(next Resolver, perSecond float64, burst int) *RateLimitedResolver {
	if perSecond <= 0 {
		perSecond = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedResolver{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *RateLimitedResolver) Resolve(ctx context.Context, address string) (model.GeoPoint, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.GeoPoint{}, fmt.Errorf("geocode: rate wait: %w", err)
	}
	return r.next.Resolve(ctx, address)
}

// StaticResolver resolves from a fixed table. Used by the CLI and tests in
// place of a live geocoding service.
type StaticResolver map[string]model.GeoPoint

func (r StaticResolver) Resolve(_ context.Context, address string) (model.GeoPoint, error) {
	if pt, ok := r[address]; ok {
		return pt, nil
	}
	return model.GeoPoint{}, ErrNotFound
}
