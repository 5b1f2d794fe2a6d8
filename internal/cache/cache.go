package cache

import (
	"context"
	"errors"

	"github.com/electromart/electromart-backend/internal/app/model"
)

type CartCache interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	// Set must not replace an entry with a newer cart version
	Set(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
