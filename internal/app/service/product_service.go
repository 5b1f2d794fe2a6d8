package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/repository"
	"github.com/electromart/electromart-backend/internal/storage"
	"github.com/electromart/electromart-backend/pkg/logger"
)

// MaxProductListLimit caps a catalog listing, which is also the default size
const MaxProductListLimit = 50

// ImageUploader issues presigned upload URLs for product images
type ImageUploader interface {
	PresignProductImage(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error)
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	InStock     *bool
	Image       string
}

type ProductService interface {
	ListProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error)
	// SeedCatalog inserts products only when the catalog is empty
	SeedCatalog(ctx context.Context, products []model.Product) (int, error)
	// ReplaceCatalog swaps the catalog for products in one step
	ReplaceCatalog(ctx context.Context, products []model.Product) (int, error)
	GenerateImageUploadURL(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error)
}

type productService struct {
	productRepo repository.ProductRepository
	uploader    ImageUploader
}

// NewProductService builds the catalog service. uploader may be nil, in
// which case image upload URLs are unavailable.
func NewProductService(productRepo repository.ProductRepository, uploader ImageUploader) ProductService {
	return &productService{
		productRepo: productRepo,
		uploader:    uploader,
	}
}

func (s *productService) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > MaxProductListLimit {
		limit = MaxProductListLimit
	}

	products, err := s.productRepo.List(ctx, limit)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	product := model.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		InStock:     true,
		Image:       input.Image,
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if !validProduct(&product) {
		return nil, ErrInvalidProduct
	}

	logger.Info("Creating product", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	})

	if err := s.productRepo.Create(ctx, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return &product, nil
}

func (s *productService) SeedCatalog(ctx context.Context, products []model.Product) (int, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Debug("Catalog already populated, skipping seed", map[string]interface{}{
			"count": count,
		})
		return 0, nil
	}
	return s.insertCatalog(ctx, products)
}

func (s *productService) ReplaceCatalog(ctx context.Context, products []model.Product) (int, error) {
	for i := range products {
		if !validProduct(&products[i]) {
			return 0, fmt.Errorf("%w: row %d (%q)", ErrInvalidProduct, i+1, products[i].Name)
		}
	}

	if err := s.productRepo.ReplaceAll(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to replace catalog: %w", err)
	}

	logger.Info("Catalog replaced", map[string]interface{}{
		"count": len(products),
	})
	return len(products), nil
}

func (s *productService) insertCatalog(ctx context.Context, products []model.Product) (int, error) {
	if err := s.productRepo.BulkCreate(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to insert products: %w", err)
	}

	logger.Info("Catalog seeded", map[string]interface{}{
		"count": len(products),
	})
	return len(products), nil
}

func (s *productService) GenerateImageUploadURL(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}
	if s.uploader == nil {
		return nil, ErrImageUploadsUnavailable
	}

	upload, err := s.uploader.PresignProductImage(ctx, filename, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, ErrUnsupportedImageType
		}
		logger.Error("Failed to presign product image upload", err, map[string]interface{}{
			"filename": filename,
		})
		return nil, err
	}
	return upload, nil
}

func validProduct(p *model.Product) bool {
	if strings.TrimSpace(p.Name) == "" {
		return false
	}
	return p.Price >= 0 && !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0)
}
