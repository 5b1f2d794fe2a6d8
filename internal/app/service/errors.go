package service

import "errors"

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindAuth       ErrorKind = "auth"
	KindConflict   ErrorKind = "conflict"
)

// Error is a domain failure whose Message is safe to show to clients.
// Anything that is not an *Error is treated as an infrastructure failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// AsError unwraps err to a domain error if it carries one
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	domainErr, ok := AsError(err)
	return ok && domainErr.Kind == kind
}

// Cart
var (
	ErrProductIDRequired = NewValidationError("Product ID is required")
	ErrInvalidQuantity   = NewValidationError("Valid quantity is required")
	ErrCartEmpty         = NewValidationError("Cart is empty")
	ErrProductNotFound   = NewNotFoundError("Product not found")
	ErrCartNotFound      = NewNotFoundError("Cart not found")
	ErrCartItemNotFound  = NewNotFoundError("Item not found in cart")
	ErrCartConflict      = NewConflictError("Cart was modified concurrently, please retry")
)

// Catalog
var (
	ErrInvalidProduct          = NewValidationError("Invalid product data")
	ErrFilenameRequired        = NewValidationError("Filename is required")
	ErrUnsupportedImageType    = NewValidationError("Only JPEG, PNG, WebP and GIF images are allowed")
	ErrImageUploadsUnavailable = errors.New("image uploads are not configured")
)

// Auth
var (
	ErrSignupFieldsRequired = NewValidationError("Name, email and password are required")
	ErrSigninFieldsRequired = NewValidationError("Email and password are required")
	ErrPasswordTooShort     = NewValidationError("Password must be at least 6 characters")
	ErrPasswordTooLong      = NewValidationError("Password must be at most 72 bytes")
	ErrEmailAlreadyExists   = NewConflictError("Email already registered")
	ErrInvalidCredentials   = NewAuthError("Invalid email or password")
	ErrInvalidToken         = NewAuthError("Invalid or expired token")
	ErrUserNotFound         = NewNotFoundError("User not found")
)
