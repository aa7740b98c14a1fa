package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/metrics"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// fakeRedis implements the three commands the parcel cache uses. Any other
// call panics on the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func testParcel() *models.LandParcel {
	location := models.NewPoint(-1.9441, 30.0619)
	return &models.LandParcel{
		ID:             7,
		ParcelID:       "LP-2026-0007",
		OwnerAddress:   "0x1111111111111111111111111111111111111111",
		EstimatedValue: decimal.RequireFromString("123456.78"),
		Location:       location,
		Boundary:       models.SquareAround(location, 0.001),
		Status:         models.ParcelStatusActive,
	}
}

func TestRedisParcelCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	m := metrics.New(prometheus.NewRegistry())
	c := NewRedisParcelCache(fake, 5*time.Minute, m)

	_, ok, err := c.Get(ctx, "LP-2026-0007")
	require.NoError(t, err)
	assert.False(t, ok)

	parcel := testParcel()
	require.NoError(t, c.Set(ctx, parcel))
	assert.Equal(t, 5*time.Minute, fake.ttls["landregistry:parcel:LP-2026-0007"])

	cached, ok, err := c.Get(ctx, "LP-2026-0007")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, parcel.ID, cached.ID)
	assert.True(t, parcel.EstimatedValue.Equal(cached.EstimatedValue))
	assert.True(t, cached.Boundary.IsClosed())

	require.NoError(t, c.Invalidate(ctx, "LP-2026-0007", "LP-2026-0008"))
	_, ok, err = c.Get(ctx, "LP-2026-0007")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheHit)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheMiss)))
}

func TestRedisParcelCache_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := NewRedisParcelCache(fake, time.Minute, nil)

	fake.data[parcelKey("LP-2026-0001")] = []byte("not json")
	_, ok, err := c.Get(ctx, "LP-2026-0001")
	assert.Error(t, err)
	assert.False(t, ok)

	fake.failGet = true
	_, ok, err = c.Get(ctx, "LP-2026-0002")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Invalidate(ctx))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	c := NewNoop()

	require.NoError(t, c.Set(ctx, testParcel()))
	parcel, ok, err := c.Get(ctx, "LP-2026-0007")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, parcel)
	assert.NoError(t, c.Invalidate(ctx, "LP-2026-0007"))
}

func TestNewClient_EmptyURL(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), config.RedisConfig{URL: "://bad"})
	assert.Error(t, err)
}
