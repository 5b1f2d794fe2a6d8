package cache

import (
	"context"
	"errors"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/repository"
	"github.com/electromart/electromart-backend/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// CachedCartRepository puts a read-through cache in front of a
// CartRepository. Writes go to the store first and are then written through.
// Cache writes are version guarded, so a fill that read the store before a
// save on another replica cannot overwrite the saved cart.
type CachedCartRepository struct {
	next  repository.CartRepository
	cache CartCache
	group singleflight.Group
}

func NewCachedCartRepository(next repository.CartRepository, cache CartCache) *CachedCartRepository {
	return &CachedCartRepository{next: next, cache: cache}
}

func (r *CachedCartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := r.cache.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("Cart cache read failed, falling back to store", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	v, err, _ := r.group.Do(userID, func() (interface{}, error) {
		cart, err := r.next.FindByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, cart); err != nil {
			logger.Warn("Failed to populate cart cache", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	// callers mutate the cart, so shared results must not alias
	return cloneCart(v.(*model.Cart)), nil
}

func (r *CachedCartRepository) Create(ctx context.Context, cart *model.Cart) error {
	if err := r.next.Create(ctx, cart); err != nil {
		return err
	}
	r.store(ctx, cart)
	return nil
}

func (r *CachedCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	err := r.next.Save(ctx, cart)
	switch {
	case err == nil:
		r.store(ctx, cart)
	case errors.Is(err, repository.ErrCartVersionConflict):
		// another writer won, so cache its cart for the retry to read
		r.refresh(ctx, cart.UserID)
	default:
		r.invalidate(ctx, cart.UserID)
	}
	return err
}

// store writes cart through, dropping the entry when that fails
func (r *CachedCartRepository) store(ctx context.Context, cart *model.Cart) {
	if err := r.cache.Set(ctx, cart); err != nil {
		logger.Warn("Failed to write cart through cache", map[string]interface{}{
			"user_id": cart.UserID,
			"error":   err.Error(),
		})
		r.invalidate(ctx, cart.UserID)
	}
}

func (r *CachedCartRepository) refresh(ctx context.Context, userID string) {
	fresh, err := r.next.FindByUserID(ctx, userID)
	if err != nil {
		r.invalidate(ctx, userID)
		return
	}
	r.store(ctx, fresh)
}

func (r *CachedCartRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Delete(ctx, userID); err != nil {
		logger.Warn("Failed to invalidate cart cache", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func cloneCart(c *model.Cart) *model.Cart {
	out := *c
	out.Items = make([]model.CartLine, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}
