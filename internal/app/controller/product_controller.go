package controller

import (
	"net/http"
	"strconv"

	"github.com/electromart/electromart-backend/internal/app/service"
	"github.com/electromart/electromart-backend/internal/errors"
	"github.com/electromart/electromart-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	InStock     *bool    `json:"inStock"`
	Image       string   `json:"image"`
}

type ImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ListProducts returns the newest products as a bare array
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := ctrl.productService.ListProducts(c.Request.Context(), limit)
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns a product by ID
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// CreateProduct adds a catalog entry
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ProductInvalid, service.ErrInvalidProduct.Message)
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		InStock:     req.InStock,
		Image:       req.Image,
	})
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GenerateImageUploadURL issues a presigned URL for a product image
// POST /api/products/image-upload-url
func (ctrl *ProductController) GenerateImageUploadURL(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Filename and content type are required")
		return
	}

	upload, err := ctrl.productService.GenerateImageUploadURL(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"upload":  upload,
	})
}
