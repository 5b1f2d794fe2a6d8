package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/app/repository"
	"github.com/electromart/electromart-backend/pkg/logger"
	"github.com/electromart/electromart-backend/pkg/util"
)

const minPasswordLength = 6

// TokenRevoker remembers revoked tokens until they expire
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiry time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, *util.TokenPair, error)
	Signin(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	// Logout revokes the access token and, when given, the refresh token
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Me(ctx context.Context, userID string) (*model.User, error)
	// Authenticate validates a live access token and returns its claims
	Authenticate(ctx context.Context, accessToken string) (*util.Claims, error)
}

type authService struct {
	userRepo      repository.UserRepository
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the auth service. revoker may be nil, in which case
// logout is a no-op and tokens stay valid until they expire.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, *util.TokenPair, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, nil, ErrSignupFieldsRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, NewValidationError("Valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return nil, nil, ErrPasswordTooLong
		}
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// unique index caught a concurrent signup for the same email
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) Signin(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, ErrSigninFieldsRequired
	}

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.validate(ctx, refreshToken, util.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// rotation: the presented refresh token is single use
	s.revoke(ctx, refreshToken, claims)

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.validate(ctx, accessToken, util.TokenTypeAccess)
	if err != nil {
		return err
	}
	if s.revoker == nil {
		logger.Warn("Token revocation unavailable, logout is client-side only", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil
	}

	if err := s.revoker.Revoke(ctx, accessToken, claims.RemainingLifetime()); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	if refreshToken != "" {
		if refreshClaims, err := util.ValidateToken(refreshToken, s.jwtSecret); err == nil && refreshClaims.UserID == claims.UserID {
			s.revoke(ctx, refreshToken, refreshClaims)
		}
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*util.Claims, error) {
	return s.validate(ctx, accessToken, util.TokenTypeAccess)
}

func (s *authService) validate(ctx context.Context, token string, want util.TokenType) (*util.Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		logger.Debug("Token validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ErrInvalidToken
	}
	if claims.Type != want || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, token)
		if err != nil {
			// an unreachable blacklist must not lock every user out
			logger.Warn("Token blacklist check failed, accepting token", map[string]interface{}{
				"user_id": claims.UserID,
				"error":   err.Error(),
			})
		} else if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, token string, claims *util.Claims) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.Revoke(ctx, token, claims.RemainingLifetime()); err != nil {
		logger.Warn("Failed to revoke token", map[string]interface{}{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
	}
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}
