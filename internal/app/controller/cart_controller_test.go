package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/repository"
	"github.com/electromart/electromart-backend/internal/app/service"
	"github.com/electromart/electromart-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "3f0e1c2a-0000-4000-8000-000000000001"

func newCartRouter(ctrl *CartController, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cart := router.Group("/api/cart", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	cart.GET("", ctrl.GetCart)
	cart.POST("/add", ctrl.AddToCart)
	cart.PUT("/update/:itemId", ctrl.UpdateCartItem)
	cart.DELETE("/remove/:itemId", ctrl.RemoveFromCart)
	cart.POST("/checkout", ctrl.Checkout)
	return router
}

func setupCartControllerTest(t *testing.T) (*gin.Engine, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(repository.NewCartRepository(testDB), productRepo)

	product := &model.Product{Name: "Phone Case", Price: 12.99, InStock: true, Image: "case.png"}
	require.NoError(t, productRepo.Create(context.Background(), product))

	return newCartRouter(NewCartController(cartService), testUserID), product
}

func performJSON(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return decodeRecorder(w)
}

func decodeRecorder(w *httptest.ResponseRecorder) (*httptest.ResponseRecorder, map[string]interface{}) {
	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func cartOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	cart, ok := body["cart"].(map[string]interface{})
	require.True(t, ok, "response has no cart: %v", body)
	return cart
}

func TestCartController_GetCart_Empty(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	w, body := performJSON(router, http.MethodGet, "/api/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	cart := cartOf(t, body)
	assert.Equal(t, []interface{}{}, cart["items"])
	assert.Equal(t, float64(0), cart["totalPrice"])
	assert.Equal(t, float64(0), cart["totalItems"])
}

func TestCartController_AddToCart(t *testing.T) {
	router, product := setupCartControllerTest(t)

	w, body := performJSON(router, http.MethodPost, "/api/cart/add", gin.H{"productId": product.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item added to cart", body["message"])
	assert.Equal(t, float64(1), cartOf(t, body)["totalItems"])

	w, body = performJSON(router, http.MethodPost, "/api/cart/add", gin.H{"productId": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	cart := cartOf(t, body)
	assert.Equal(t, 25.98, cart["totalPrice"])
	assert.Equal(t, float64(2), cart["totalItems"])

	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, product.ID, line["product"])
	assert.Equal(t, "Phone Case", line["name"])
	assert.Equal(t, "case.png", line["image"])
	assert.Equal(t, float64(2), line["quantity"])
	assert.NotEmpty(t, line["_id"])
}

func TestCartController_AddToCart_Errors(t *testing.T) {
	router, product := setupCartControllerTest(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{name: "missing product", body: gin.H{"quantity": 1}, wantStatus: http.StatusBadRequest, wantMsg: "Product ID is required"},
		{name: "zero quantity", body: gin.H{"productId": product.ID, "quantity": 0}, wantStatus: http.StatusBadRequest, wantMsg: "Valid quantity is required"},
		{name: "unknown product", body: gin.H{"productId": "nope"}, wantStatus: http.StatusNotFound, wantMsg: "Product not found"},
		{name: "malformed json", body: "{", wantStatus: http.StatusBadRequest, wantMsg: "Invalid request data"},
		{name: "empty body", body: nil, wantStatus: http.StatusBadRequest, wantMsg: "Product ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := performJSON(router, http.MethodPost, "/api/cart/add", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestCartController_UpdateCartItem_EmptyBody(t *testing.T) {
	router, product := setupCartControllerTest(t)

	_, body := performJSON(router, http.MethodPost, "/api/cart/add", gin.H{"productId": product.ID})
	lineID := cartOf(t, body)["items"].([]interface{})[0].(map[string]interface{})["_id"].(string)

	w, body := performJSON(router, http.MethodPut, "/api/cart/update/"+lineID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Valid quantity is required", body["message"])
}

func TestCartController_UpdateAndRemove(t *testing.T) {
	router, product := setupCartControllerTest(t)

	w, body := performJSON(router, http.MethodPut, "/api/cart/update/any", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart not found", body["message"])

	_, body = performJSON(router, http.MethodPost, "/api/cart/add", gin.H{"productId": product.ID})
	lineID := cartOf(t, body)["items"].([]interface{})[0].(map[string]interface{})["_id"].(string)

	w, body = performJSON(router, http.MethodPut, "/api/cart/update/"+lineID, gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Quantity updated", body["message"])
	assert.Equal(t, float64(4), cartOf(t, body)["totalItems"])

	w, body = performJSON(router, http.MethodPut, "/api/cart/update/"+lineID, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Valid quantity is required", body["message"])

	w, body = performJSON(router, http.MethodPut, "/api/cart/update/unknown", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item not found in cart", body["message"])

	w, body = performJSON(router, http.MethodDelete, "/api/cart/remove/"+lineID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item removed from cart", body["message"])
	assert.Empty(t, cartOf(t, body)["items"])

	// removing again is a no-op
	w, _ = performJSON(router, http.MethodDelete, "/api/cart/remove/"+lineID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_Checkout(t *testing.T) {
	router, product := setupCartControllerTest(t)

	w, body := performJSON(router, http.MethodPost, "/api/cart/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", body["message"])
	assert.Equal(t, "CART_EMPTY", body["error"])

	performJSON(router, http.MethodPost, "/api/cart/add", gin.H{"productId": product.ID, "quantity": 3})

	w, body = performJSON(router, http.MethodPost, "/api/cart/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment successful! Your order has been placed.", body["message"])
	summary := body["orderSummary"].(map[string]interface{})
	assert.Equal(t, 38.97, summary["totalAmount"])
	assert.Equal(t, float64(3), summary["itemCount"])

	_, body = performJSON(router, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, cartOf(t, body)["items"])
}

// brokenCartService fails every call like a store outage would
type brokenCartService struct{}

var errStoreDown = errors.New("connection refused")

func (brokenCartService) GetCart(context.Context, string) (model.CartView, error) {
	return model.CartView{}, errStoreDown
}

func (brokenCartService) AddItem(context.Context, string, string, int) (model.CartView, error) {
	return model.CartView{}, errStoreDown
}

func (brokenCartService) UpdateQuantity(context.Context, string, string, int) (model.CartView, error) {
	return model.CartView{}, errStoreDown
}

func (brokenCartService) RemoveItem(context.Context, string, string) (model.CartView, error) {
	return model.CartView{}, errStoreDown
}

func (brokenCartService) Checkout(context.Context, string) (model.OrderSummary, error) {
	return model.OrderSummary{}, errStoreDown
}

func TestCartController_InfrastructureErrorsAreOpaque(t *testing.T) {
	router := newCartRouter(NewCartController(brokenCartService{}), testUserID)

	tests := []struct {
		method, path string
		body         interface{}
		wantMsg      string
	}{
		{http.MethodGet, "/api/cart", nil, "Failed to retrieve cart"},
		{http.MethodPost, "/api/cart/add", gin.H{"productId": "p"}, "Failed to add item to cart"},
		{http.MethodPut, "/api/cart/update/l", gin.H{"quantity": 1}, "Failed to update cart"},
		{http.MethodDelete, "/api/cart/remove/l", nil, "Failed to remove item"},
		{http.MethodPost, "/api/cart/checkout", nil, "Failed to process checkout"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, body := performJSON(router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestCartController_RequiresUser(t *testing.T) {
	router := newCartRouter(NewCartController(brokenCartService{}), "")

	w, body := performJSON(router, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided. Please login.", body["message"])
}
