package geo

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routewise/internal/model"
)

// countingResolver wraps a static table and counts upstream calls.
type countingResolver struct {
	table StaticResolver
	calls atomic.Int64
}

func (r *countingResolver) Resolve(ctx context.Context, address string) (model.GeoPoint, error) {
	r.calls.Add(1)
	return r.table.Resolve(ctx, address)
}

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{"12 Pier Rd": {Lat: 1, Lng: 2}}
	pt, err := r.Resolve(context.Background(), "12 Pier Rd")
	require.NoError(t, err)
	assert.Equal(t, model.GeoPoint{Lat: 1, Lng: 2}, pt)

	_, err = r.Resolve(context.Background(), "99 Nowhere Ln")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachingResolverHitsUpstreamOnce(t *testing.T) {
	up := &countingResolver{table: StaticResolver{"12 Pier Rd": {Lat: 1, Lng: 2}}}
	r := NewCachingResolver(up, NewMemoryCache())

	for i := 0; i < 3; i++ {
		pt, err := r.Resolve(context.Background(), "12 Pier Rd")
		require.NoError(t, err)
		assert.Equal(t, model.GeoPoint{Lat: 1, Lng: 2}, pt)
	}
	assert.Equal(t, int64(1), up.calls.Load())
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	up := &countingResolver{table: StaticResolver{}}
	r := NewCachingResolver(up, nil)

	for i := 0; i < 2; i++ {
		_, err := r.Resolve(context.Background(), "99 Nowhere Ln")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int64(2), up.calls.Load())
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	_, ok := c.Get(context.Background(), "12 Pier Rd")
	assert.False(t, ok)

	c.Put(context.Background(), "12 Pier Rd", model.GeoPoint{Lat: 1, Lng: 2})
	pt, ok := c.Get(context.Background(), "12 Pier Rd")
	require.True(t, ok)
	assert.Equal(t, model.GeoPoint{Lat: 1, Lng: 2}, pt)
}

func TestRateLimitedResolverPassesThrough(t *testing.T) {
	up := &countingResolver{table: StaticResolver{"12 Pier Rd": {Lat: 1, Lng: 2}}}
	r := NewRateLimitedResolver(up, 1000, 10)
	pt, err := r.Resolve(context.Background(), "12 Pier Rd")
	require.NoError(t, err)
	assert.Equal(t, model.GeoPoint{Lat: 1, Lng: 2}, pt)
}

func TestRateLimitedResolverHonorsContext(t *testing.T) {
	up := &countingResolver{table: StaticResolver{"12 Pier Rd": {Lat: 1, Lng: 2}}}
	// burst 1, very slow refill: the second call has to wait and the
	// cancelled context aborts it
	r := NewRateLimitedResolver(up, 0.001, 1)
	_, err := r.Resolve(context.Background(), "12 Pier Rd")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx, "12 Pier Rd")
	assert.Error(t, err)
}
