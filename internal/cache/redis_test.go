package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, 15*time.Minute), mr
}

func sampleCart() *model.Cart {
	cart := model.NewCart("user123")
	cart.Version = 4
	cart.AddProduct(&model.Product{ID: "p-1", Name: "Keyboard", Price: 49.5, Image: "kb.png"}, 2)
	cart.AddProduct(&model.Product{ID: "p-2", Name: "Mouse", Price: 19.99}, 1)
	return cart
}

func TestGet_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	cart, err := cache.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, cart)
}

func TestSetThenGet_KeepsVersionAndLines(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	cart := sampleCart()

	require.NoError(t, cache.Set(ctx, cart))
	assert.True(t, mr.Exists(cacheKey("user123")))

	got, err := cache.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, int64(4), got.Version)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p-1", got.Items[0].ProductID)
	assert.Equal(t, cart.Items[0].ID, got.Items[0].ID)
	assert.Equal(t, 49.5, got.Items[0].Price)
	assert.Equal(t, "kb.png", got.Items[0].Image)
	assert.Equal(t, cart.ID, got.Items[1].CartID)
	assert.Equal(t, 1, got.Items[1].Position)
}

func TestSet_AppliesTTLWithJitter(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), sampleCart()))

	ttl := mr.TTL(cacheKey("user123"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.Less(t, ttl, 20*time.Minute)
}

func TestDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleCart()))
	require.NoError(t, cache.Delete(ctx, "user123"))
	assert.False(t, mr.Exists(cacheKey("user123")))

	// deleting a missing key is fine
	assert.NoError(t, cache.Delete(ctx, "user123"))
}

func TestGet_CorruptEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.HSet(cacheKey("user123"), "version", "1", "data", "{not json")

	_, err := cache.Get(context.Background(), "user123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_KeepsNewerVersion(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	newer := sampleCart()
	newer.Version = 5
	require.NoError(t, cache.Set(ctx, newer))

	older := sampleCart()
	older.Version = 3
	older.Items = older.Items[:1]
	require.NoError(t, cache.Set(ctx, older))

	got, err := cache.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Version)
	assert.Len(t, got.Items, 2)

	// equal or higher versions replace the entry
	newer.Version = 6
	newer.Items = nil
	require.NoError(t, cache.Set(ctx, newer))
	got, err = cache.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Version)
	assert.Empty(t, got.Items)
}
