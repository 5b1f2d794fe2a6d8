package repository

import (
	"context"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductRepository is the catalog store. The cart only ever calls FindByID.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	BulkCreate(ctx context.Context, products []model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, limit int) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
	// ReplaceAll swaps the whole catalog for products. On failure the
	// previous catalog is left in place.
	ReplaceAll(ctx context.Context, products []model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	})

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return translateGormError(err)
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) BulkCreate(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(products, 500).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return translateGormError(err)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Debug("Products listed from database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, 500).Error
	})
	if err != nil {
		logger.Error("Failed to replace catalog", err, map[string]interface{}{
			"count": len(products),
		})
		return translateGormError(err)
	}
	return nil
}
