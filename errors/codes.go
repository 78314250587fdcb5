package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeDiscoveryFailed indicates candidate enumeration or instantiation failed.
	ErrCodeDiscoveryFailed ErrorCode = "DISCOVERY_FAILED"
	// ErrCodeNoCandidates indicates discovery completed without any candidate.
	ErrCodeNoCandidates ErrorCode = "NO_CANDIDATES"
	// ErrCodeProviderPanic indicates a provider or discoverer panicked.
	ErrCodeProviderPanic ErrorCode = "PROVIDER_PANIC"
)

// Delegation errors
const (
	// ErrCodeDelegationFailed indicates a resolved manager failed to serve a request.
	ErrCodeDelegationFailed ErrorCode = "DELEGATION_FAILED"
	// ErrCodeProviderNotFound indicates a manager has no provider for a capability.
	ErrCodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Discovery may succeed on a later process start (a properties file appears,
// an env var is set), so its failures are flagged retryable for operators even
// though the registry itself never retries.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeDiscoveryFailed:  true,
	ErrCodeNoCandidates:     true,
	ErrCodeDelegationFailed: true,
	ErrCodeProviderPanic:    false,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
