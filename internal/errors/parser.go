package errors

import (
	"errors"
	"net/http"

	"github.com/electromart/electromart-backend/internal/app/service"
)

// ErrorInfo is what a failed request reports to the client
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// specific codes for well-known domain errors; others fall back by kind
var domainCodes = map[*service.Error]string{
	service.ErrProductNotFound:      ProductNotFound,
	service.ErrInvalidProduct:       ProductInvalid,
	service.ErrCartNotFound:         CartNotFound,
	service.ErrCartItemNotFound:     CartItemNotFound,
	service.ErrCartEmpty:            CartEmpty,
	service.ErrInvalidQuantity:      CartInvalidQuantity,
	service.ErrCartConflict:         CartConcurrentUpdate,
	service.ErrProductIDRequired:    ValidationRequired,
	service.ErrEmailAlreadyExists:   AuthEmailAlreadyExists,
	service.ErrInvalidCredentials:   AuthInvalidCredentials,
	service.ErrInvalidToken:         AuthTokenInvalid,
	service.ErrUnsupportedImageType: UploadInvalidFileType,
}

// ParseError turns a service error into status, code and a client-safe
// message. Infrastructure errors never leak their text; fallback is used.
func ParseError(err error, fallback string) ErrorInfo {
	domainErr, ok := service.AsError(err)
	if !ok {
		if fallback == "" {
			fallback = "Server error"
		}
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: fallback,
		}
	}

	info := ErrorInfo{Message: domainErr.Message}
	switch domainErr.Kind {
	case service.KindValidation:
		info.Status, info.Code = http.StatusBadRequest, ValidationInvalidInput
	case service.KindNotFound:
		info.Status, info.Code = http.StatusNotFound, ResourceNotFound
	case service.KindAuth:
		info.Status, info.Code = http.StatusUnauthorized, AuthUnauthorized
	case service.KindConflict:
		info.Status, info.Code = http.StatusConflict, ResourceConflict
	default:
		info.Status, info.Code = http.StatusInternalServerError, InternalServerError
	}

	for known, code := range domainCodes {
		if errors.Is(err, known) {
			info.Code = code
			break
		}
	}
	return info
}
