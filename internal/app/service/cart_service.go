package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/repository"
	"github.com/electromart/electromart-backend/pkg/logger"
)

// maxSaveAttempts bounds how often a mutation is re-applied after losing a
// version race to a writer outside this process.
const maxSaveAttempts = 3

type CartService interface {
	GetCart(ctx context.Context, userID string) (model.CartView, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (model.CartView, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (model.CartView, error)
	RemoveItem(ctx context.Context, userID, lineID string) (model.CartView, error)
	Checkout(ctx context.Context, userID string) (model.OrderSummary, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	locks       *userLocks
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		locks:       newUserLocks(),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID string) (model.CartView, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		unlock := s.locks.Lock(userID)
		cart, err = s.loadOrCreate(ctx, userID)
		unlock()
	}
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return model.CartView{}, fmt.Errorf("failed to load cart: %w", err)
	}

	return cart.View(), nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (model.CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return model.CartView{}, ErrProductIDRequired
	}
	if quantity < 1 {
		return model.CartView{}, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return model.CartView{}, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for cart", err, map[string]interface{}{
			"product_id": productID,
		})
		return model.CartView{}, fmt.Errorf("failed to load product: %w", err)
	}

	cart, err := s.mutate(ctx, userID, nil, func(cart *model.Cart) error {
		cart.AddProduct(product, quantity)
		return nil
	})
	if err != nil {
		return model.CartView{}, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":     userID,
		"product_id":  productID,
		"total_items": cart.TotalItems(),
	})
	return cart.View(), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (model.CartView, error) {
	if quantity < 1 {
		return model.CartView{}, ErrInvalidQuantity
	}

	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":  userID,
		"line_id":  lineID,
		"quantity": quantity,
	})

	cart, err := s.mutate(ctx, userID, ErrCartNotFound, func(cart *model.Cart) error {
		i := cart.Line(lineID)
		if i < 0 {
			return ErrCartItemNotFound
		}
		cart.Items[i].Quantity = quantity
		return nil
	})
	if err != nil {
		return model.CartView{}, err
	}
	return cart.View(), nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, lineID string) (model.CartView, error) {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id": userID,
		"line_id": lineID,
	})

	cart, err := s.mutate(ctx, userID, ErrCartNotFound, func(cart *model.Cart) error {
		if !cart.RemoveLine(lineID) {
			logger.Debug("Cart line already absent", map[string]interface{}{
				"user_id": userID,
				"line_id": lineID,
			})
		}
		return nil
	})
	if err != nil {
		return model.CartView{}, err
	}
	return cart.View(), nil
}

func (s *cartService) Checkout(ctx context.Context, userID string) (model.OrderSummary, error) {
	logger.Info("Processing checkout", map[string]interface{}{
		"user_id": userID,
	})

	var summary model.OrderSummary
	_, err := s.mutate(ctx, userID, ErrCartEmpty, func(cart *model.Cart) error {
		if cart.IsEmpty() {
			return ErrCartEmpty
		}
		summary = model.OrderSummary{
			TotalAmount: cart.TotalPrice(),
			ItemCount:   cart.TotalItems(),
		}
		cart.Clear()
		return nil
	})
	if err != nil {
		return model.OrderSummary{}, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"total_amount": summary.TotalAmount,
		"item_count":   summary.ItemCount,
	})
	return summary, nil
}

// mutate applies fn to the user's cart and saves it, holding the user's lock
// throughout. A nil missingErr means a missing cart is created on the fly;
// otherwise missingErr is returned. Version conflicts reload and re-apply fn.
func (s *cartService) mutate(ctx context.Context, userID string, missingErr error, fn func(*model.Cart) error) (*model.Cart, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		var cart *model.Cart
		var err error
		if missingErr == nil {
			cart, err = s.loadOrCreate(ctx, userID)
		} else {
			cart, err = s.cartRepo.FindByUserID(ctx, userID)
			if errors.Is(err, repository.ErrRecordNotFound) {
				return nil, missingErr
			}
		}
		if err != nil {
			logger.Error("Failed to load cart", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		err = s.cartRepo.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrCartVersionConflict) {
			logger.Error("Failed to save cart", err, map[string]interface{}{
				"user_id": userID,
				"cart_id": cart.ID,
			})
			return nil, fmt.Errorf("failed to save cart: %w", err)
		}

		logger.Warn("Cart version conflict, retrying", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
			"attempt": attempt,
		})
	}

	return nil, ErrCartConflict
}

// loadOrCreate returns the user's cart, inserting an empty one when none
// exists. Losing the insert race to another writer re-reads the winner's.
func (s *cartService) loadOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}

	cart = model.NewCart(userID)
	err = s.cartRepo.Create(ctx, cart)
	if errors.Is(err, repository.ErrDuplicateKey) {
		return s.cartRepo.FindByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Created empty cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
	})
	return cart, nil
}
