package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Fault constructors ---

// DiscoveryFailed wraps a fault raised while enumerating or instantiating candidates.
func DiscoveryFailed(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDiscoveryFailed, Message: fmt.Sprintf("Discovery of provider managers failed at %s.", source),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"source": source}, Cause: cause,
	}
}

// NoCandidates reports that discovery yielded no provider manager.
func NoCandidates() *AppError {
	return &AppError{
		Code: ErrCodeNoCandidates, Message: "No provider manager was discovered.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
	}
}

// Panic converts a recovered panic value into an AppError.
func Panic(operation string, value any) *AppError {
	cause, ok := value.(error)
	if !ok {
		cause = fmt.Errorf("%v", value)
	}
	return &AppError{
		Code: ErrCodeProviderPanic, Message: fmt.Sprintf("Panic during %s.", operation),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// DelegationFailed wraps a fault raised by a resolved manager while serving a request.
func DelegationFailed(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDelegationFailed, Message: fmt.Sprintf("Provider manager failed to serve %s.", operation),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// ProviderNotFound reports that a manager has no provider for the capability.
func ProviderNotFound(capability string) *AppError {
	return &AppError{
		Code: ErrCodeProviderNotFound, Message: fmt.Sprintf("No %s provider is registered.", capability),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"capability": capability},
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
