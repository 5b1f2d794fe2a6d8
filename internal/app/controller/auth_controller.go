package controller

import (
	"net/http"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/service"
	apperrors "github.com/electromart/electromart-backend/internal/errors"
	"github.com/electromart/electromart-backend/internal/middleware"
	"github.com/electromart/electromart-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func authResponse(user *model.User, tokens *util.TokenPair) gin.H {
	return gin.H{
		"success":      true,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	}
}

// Signup registers a user and signs them in
// POST /api/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, authResponse(user, tokens))
}

// Signin exchanges credentials for a token pair
// POST /api/auth/signin
func (ctrl *AuthController) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, authResponse(user, tokens))
}

// Refresh rotates a refresh token into a new pair
// POST /api/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Refresh token is required")
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// Logout revokes the bearer token and an optional refresh token
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)

	err := ctrl.authService.Logout(c.Request.Context(), middleware.GetAccessToken(c), req.RefreshToken)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user
// GET /api/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "No token provided. Please login.")
		return
	}

	user, err := ctrl.authService.Me(c.Request.Context(), userID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
