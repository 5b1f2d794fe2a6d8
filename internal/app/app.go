// Package app assembles the store, cache, service and HTTP layers.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/electromart/electromart-backend/config"
	"github.com/electromart/electromart-backend/internal/app/controller"
	"github.com/electromart/electromart-backend/internal/app/repository"
	"github.com/electromart/electromart-backend/internal/app/service"
	"github.com/electromart/electromart-backend/internal/cache"
	"github.com/electromart/electromart-backend/internal/db"
	"github.com/electromart/electromart-backend/internal/middleware"
	"github.com/electromart/electromart-backend/internal/router"
	"github.com/electromart/electromart-backend/pkg/logger"
	tokenstore "github.com/electromart/electromart-backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Stores groups the repositories of one backing database
type Stores struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Carts    repository.CartRepository

	close func(ctx context.Context) error
}

// NewGormStores builds stores over an open gorm connection. Closing them is
// left to the owner of conn.
func NewGormStores(conn *gorm.DB) *Stores {
	return &Stores{
		Users:    repository.NewUserRepository(conn),
		Products: repository.NewProductRepository(conn),
		Carts:    repository.NewCartRepository(conn),
	}
}

// OpenStores connects to the database selected by cfg.Store.Driver and
// prepares its schema
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, err
		}
		if err := db.Migrate(db.GetDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
		stores := NewGormStores(db.GetDB())
		stores.close = func(context.Context) error { return db.Close() }
		return stores, nil

	case config.StoreDriverMongo:
		database, err := db.ConnectMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := repository.CreateMongoIndexes(ctx, database); err != nil {
			_ = db.DisconnectMongo(ctx, database)
			return nil, err
		}
		return &Stores{
			Users:    repository.NewMongoUserRepository(database),
			Products: repository.NewMongoProductRepository(database),
			Carts:    repository.NewMongoCartRepository(database),
			close: func(ctx context.Context) error {
				return db.DisconnectMongo(ctx, database)
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Server is the wired HTTP application
type Server struct {
	Engine   *gin.Engine
	Auth     service.AuthService
	Products service.ProductService
	Carts    service.CartService
}

// NewServer wires services, controllers and routes over stores. redisClient
// and uploader are optional: without Redis carts are read straight from the
// store and logout cannot revoke tokens; without an uploader image upload
// URLs are unavailable.
func NewServer(cfg *config.Config, stores *Stores, redisClient *redis.Client, uploader service.ImageUploader) (*Server, error) {
	if stores == nil || stores.Users == nil || stores.Products == nil || stores.Carts == nil {
		return nil, errors.New("stores are not fully initialized")
	}

	carts := stores.Carts
	var revoker service.TokenRevoker
	if redisClient != nil {
		carts = cache.NewCachedCartRepository(carts, cache.NewRedisCache(redisClient, cfg.Redis.CartTTL))
		revoker = tokenstore.NewTokenBlacklist(redisClient)
	} else {
		logger.Warn("Redis unavailable, cart cache and token revocation disabled")
	}

	authService := service.NewAuthService(
		stores.Users,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(stores.Products, uploader)
	cartService := service.NewCartService(carts, stores.Products)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProductController(productService),
		controller.NewCartController(cartService),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	return &Server{
		Engine:   r.Setup(),
		Auth:     authService,
		Products: productService,
		Carts:    cartService,
	}, nil
}
