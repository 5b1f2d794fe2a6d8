package router

import (
	"fmt"
	"net/http"

	"github.com/electromart/electromart-backend/config"
	"github.com/electromart/electromart-backend/internal/app/controller"
	apperrors "github.com/electromart/electromart-backend/internal/errors"
	"github.com/electromart/electromart-backend/internal/middleware"
	"github.com/electromart/electromart-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	cartController    *controller.CartController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		cartController:    cartController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(recoverPanic))
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.NoRoute(routeNotFound)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ElectroMart backend running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", r.authController.Signup)
			auth.POST("/signin", r.authController.Signin)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.POST("", r.authMiddleware.Authenticate(), r.productController.CreateProduct)
			products.POST("/image-upload-url", r.authMiddleware.Authenticate(), r.productController.GenerateImageUploadURL)
		}

		cart := api.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/add", r.cartController.AddToCart)
			cart.PUT("/update/:itemId", r.cartController.UpdateCartItem)
			cart.DELETE("/remove/:itemId", r.cartController.RemoveFromCart)
			cart.POST("/checkout", r.cartController.Checkout)
		}
	}

	return router
}

// recoverPanic answers a panicking handler with the standard 500 envelope
func recoverPanic(c *gin.Context, recovered any) {
	logger.Error("Recovered from panic", fmt.Errorf("%v", recovered), map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	})
	apperrors.InternalError(c, "")
	c.Abort()
}

func routeNotFound(c *gin.Context) {
	apperrors.NotFound(c, apperrors.ResourceNotFound, "Route not found")
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
