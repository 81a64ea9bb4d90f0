package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnknownProduct     = NewDomainError("UNKNOWN_PRODUCT", "Product not found in catalog")
	ErrAlreadyReturned    = NewDomainError("ALREADY_RETURNED", "Line has already been returned")
	ErrInvalidFormat      = NewDomainError("INVALID_FORMAT", "Payload format is invalid")
	ErrUnsupportedVersion = NewDomainError("UNSUPPORTED_VERSION", "Payload version is not supported")
)
