package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes; the
// constants here cover failures that never reach the application layer.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRequestTooLarge is used when a request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes that describe malformed input map to 400, missing resources to
// 404, conflicts with existing state to 409, and requests that are
// well-formed but violate a business rule to 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeInternal:   http.StatusInternalServerError,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Input errors
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_FORMAT":         http.StatusBadRequest,
	"UNSUPPORTED_VERSION":    http.StatusBadRequest,
	"INVALID_DATE":           http.StatusBadRequest,
	"INVALID_DATE_RANGE":     http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":   http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_VAT_RATE":       http.StatusBadRequest,
	"INVALID_STOCK":          http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"EMPTY_INVOICE":          http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Business rule errors
	"ALREADY_RETURNED": http.StatusConflict,
	"UNKNOWN_PRODUCT":  http.StatusUnprocessableEntity,
	"INVALID_STATE":    http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
