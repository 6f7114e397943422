package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/vetcart/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProducts = []domain.Product{
	{ID: "p1", Name: "Kibble 5kg", Price: 32.5, Category: "food", Stock: 12},
	{ID: "p2", Name: "Flea collar", Price: 14, Category: "care", Stock: 3},
}

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, 15*time.Minute), mr
}

func TestRedisGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	data, err := json.Marshal(testProducts)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey("all"), string(data)))

	result, err := cache.Get(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, testProducts, result)
}

func TestRedisGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestRedisGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cacheKey("all"), `[{"id":"p1","na`))

	_, err := cache.Get(context.Background(), "all")
	require.ErrorContains(t, err, "unmarshal products failed")
}

func TestRedisGet_ServerDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "all")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisSet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "all", testProducts))

	stored, err := mr.Get(cacheKey("all"))
	require.NoError(t, err)

	var decoded []domain.Product
	require.NoError(t, json.Unmarshal([]byte(stored), &decoded))
	assert.Equal(t, testProducts, decoded)
}

func TestRedisSet_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "all", testProducts))

	ttl := mr.TTL(cacheKey("all"))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 20*time.Minute, "TTL should be base + max jitter")
}

func TestRedisDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("all"), "[]"))

	require.NoError(t, cache.Delete(context.Background(), "all"))
	assert.False(t, mr.Exists(cacheKey("all")))

	// deleting a missing key is not an error
	assert.NoError(t, cache.Delete(context.Background(), "nonexistent"))
}

func TestNewRedisCache_DefaultTTL(t *testing.T) {
	c := NewRedisCache(nil, 0)
	assert.Equal(t, DefaultTTL, c.baseTTL)
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "catalog:all", cacheKey("all"))
}
