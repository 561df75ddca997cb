package ai

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraatlas/entities"
)

func TestCacheKeyCarriesVersion(t *testing.T) {
	assert.Equal(t, "analysis:v1:FRA-1", cacheKey("FRA-1"))
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	c.Set(ctx, "a", &entities.AnalysisRecord{ClaimID: "a"})
	c.Set(ctx, "b", &entities.AnalysisRecord{ClaimID: "b"})
	rec, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "a", rec.ClaimID)

	c.Delete(ctx, "a", "b")
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

// An unreachable Redis degrades to misses; analysis still succeeds.
func TestRedisCache_UnavailableFallsThrough(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	client := NewCached(NewSynthetic(), NewRedisCache(rdb, time.Minute))
	claim := &entities.Claim{ID: "FRA-5", SoilType: entities.SoilClay, WaterAvailability: entities.WaterLow}

	rec, err := client.Analyze(context.Background(), claim)
	require.NoError(t, err)
	assert.Equal(t, Generate(InputFromClaim(claim)), rec)
}

func TestOpenCache(t *testing.T) {
	c, rdb, err := OpenCache("none", "", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, rdb)

	c, rdb, err = OpenCache("memory", "", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &memoryCache{}, c)
	assert.Nil(t, rdb)

	c, rdb, err = OpenCache("redis", "redis://127.0.0.1:1/3", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()
	assert.IsType(t, &redisCache{}, c)
	assert.Equal(t, 3, rdb.Options().DB)

	_, _, err = OpenCache("redis", "not a url", time.Minute)
	assert.Error(t, err)
	_, _, err = OpenCache("memcached", "", time.Minute)
	assert.Error(t, err)
}
