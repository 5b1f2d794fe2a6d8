package controller

import (
	"io"
	"net/http"

	"github.com/electromart/electromart-backend/internal/app/service"
	"github.com/electromart/electromart-backend/internal/errors"
	"github.com/electromart/electromart-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity"`
}

// currentUser reads the id the auth gate stored. Routes are always behind the
// gate, so a miss means the router was wired wrong.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Cart route reached without authenticated user")
		errors.Unauthorized(c, "No token provided. Please login.")
	}
	return userID, ok
}

// GetCart returns the caller's cart, creating an empty one on first access
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cart":    view,
	})
}

// AddToCart adds a product, merging with an existing line
// POST /api/cart/add
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	// an empty body reads as {} and fails validation in the service
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := ctrl.cartService.AddItem(c.Request.Context(), userID, req.ProductID, quantity)
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item added to cart",
		"cart":    view,
	})
}

// UpdateCartItem sets a line's quantity
// PUT /api/cart/update/:itemId
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), userID, c.Param("itemId"), quantity)
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quantity updated",
		"cart":    view,
	})
}

// RemoveFromCart drops a line; unknown lines are ignored
// DELETE /api/cart/remove/:itemId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveItem(c.Request.Context(), userID, c.Param("itemId"))
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from cart",
		"cart":    view,
	})
}

// Checkout empties the cart and reports what was bought. No payment is taken.
// POST /api/cart/checkout
func (ctrl *CartController) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := ctrl.cartService.Checkout(c.Request.Context(), userID)
	if err != nil {
		errors.RespondWithServiceError(c, err, "Failed to process checkout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Payment successful! Your order has been placed.",
		"orderSummary": summary,
	})
}
