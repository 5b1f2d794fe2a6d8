package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// setIfNewer stores a cart entry unless the cached one carries a higher
// version. KEYS[1] entry, ARGV[1] version, ARGV[2] payload, ARGV[3] ttl ms.
var setIfNewer = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], 'version'))
if current and current > tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

// cachedLine and cachedCart mirror the model with every field exported to
// JSON, including the ones the API hides.
type cachedLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type cachedCart struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Version   int64        `json:"version"`
	Items     []cachedLine `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (r *RedisCache) Get(ctx context.Context, userID string) (*model.Cart, error) {
	data, err := r.client.HGet(ctx, cacheKey(userID), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var entry cachedCart
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	cart := &model.Cart{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Version:   entry.Version,
		Items:     make([]model.CartLine, len(entry.Items)),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	for i, l := range entry.Items {
		cart.Items[i] = model.CartLine{
			ID:        l.ID,
			CartID:    entry.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Image:     l.Image,
			Quantity:  l.Quantity,
			Position:  i,
		}
	}
	return cart, nil
}

// Set caches cart. An entry holding a newer version is left alone, so a slow
// reader cannot put back a cart that a writer has already replaced.
func (r *RedisCache) Set(ctx context.Context, cart *model.Cart) error {
	entry := cachedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Version:   cart.Version,
		Items:     make([]cachedLine, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for i, l := range cart.Items {
		entry.Items[i] = cachedLine{
			ID:        l.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Image:     l.Image,
			Quantity:  l.Quantity,
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// jitter keeps a burst of carts from expiring together
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	stored, err := setIfNewer.Run(ctx, r.client, []string{cacheKey(cart.UserID)}, cart.Version, data, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	if stored == 0 {
		logger.Debug("Cached cart is newer, skipping write", map[string]interface{}{
			"user_id": cart.UserID,
			"version": cart.Version,
		})
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
