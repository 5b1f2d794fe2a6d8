package errors

// Machine-readable error codes sent in the "error" field.
// Format: CATEGORY_SPECIFIC_DETAIL
const (
	// auth
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// resources
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	ResourceConflict = "RESOURCE_CONFLICT"

	// catalog
	ProductNotFound = "PRODUCT_NOT_FOUND"
	ProductInvalid  = "PRODUCT_INVALID"

	// cart
	CartNotFound         = "CART_NOT_FOUND"
	CartItemNotFound     = "CART_ITEM_NOT_FOUND"
	CartEmpty            = "CART_EMPTY"
	CartInvalidQuantity  = "CART_INVALID_QUANTITY"
	CartConcurrentUpdate = "CART_CONCURRENT_UPDATE"

	// uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"

	// server
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
