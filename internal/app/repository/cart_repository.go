package repository

import (
	"context"
	"time"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/pkg/logger"
	"gorm.io/gorm"
)

// CartRepository stores one cart document per user.
//
// Save is a conditional write: it succeeds only if the stored version still
// equals cart.Version, and on success bumps cart.Version. A stale cart yields
// ErrCartVersionConflict. Create yields ErrDuplicateKey if the user already
// has a cart.
type CartRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	Save(ctx context.Context, cart *model.Cart) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartLine{}
	}

	logger.Debug("Cart found in database", map[string]interface{}{
		"cart_id": cart.ID,
		"lines":   len(cart.Items),
		"version": cart.Version,
	})
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	if cart.Version == 0 {
		cart.Version = 1
	}
	numberLines(cart)

	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		err = translateGormError(err)
		if err != ErrDuplicateKey {
			logger.Error("Failed to create cart in database", err, map[string]interface{}{
				"user_id": cart.UserID,
			})
		}
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	next := cart.Version + 1
	now := time.Now()
	numberLines(cart)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{"version": next, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartVersionConflict
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartLine{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		return tx.Create(&cart.Items).Error
	})
	if err != nil {
		if err != ErrCartVersionConflict {
			logger.Error("Failed to save cart in database", err, map[string]interface{}{
				"cart_id": cart.ID,
				"version": cart.Version,
			})
		}
		return err
	}

	cart.Version = next
	cart.UpdatedAt = now

	logger.Debug("Cart saved in database", map[string]interface{}{
		"cart_id": cart.ID,
		"lines":   len(cart.Items),
		"version": cart.Version,
	})
	return nil
}

func numberLines(cart *model.Cart) {
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
		cart.Items[i].Position = i
	}
}
