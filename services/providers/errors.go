package providers

import (
	"context"
	"errors"
	"net"
)

// Error codes reported by provider adapters
const (
	ErrCodeTimeout      = "timeout"
	ErrCodeConnection   = "connection"
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeAuth         = "auth"
	ErrCodeInvalidModel = "invalid_model"
	ErrCodeBadRequest   = "bad_request"
	ErrCodeInternal     = "internal"
)

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// Retryable indicates if the request can be retried. Connectivity
	// faults, timeouts, and rate limiting are retryable; auth and request
	// shape problems are not.
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// NewTransientError creates a retryable provider error (connectivity,
// timeout, throttling)
func NewTransientError(provider, code, message string, cause error) *ProviderError {
	return NewProviderError(provider, code, message, true, cause)
}

// NewPermanentError creates a non-retryable provider error (auth, invalid
// model, malformed request)
func NewPermanentError(provider, code, message string, cause error) *ProviderError {
	return NewProviderError(provider, code, message, false, cause)
}

// IsRetryable classifies an arbitrary error for the retry loop.
//
// A ProviderError answers from its own flag. Deadline expiry and network
// timeouts count as transient; an explicit cancellation and anything
// unrecognized do not, so unknown failures are never retried blindly.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
