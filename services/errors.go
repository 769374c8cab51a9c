package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeBudget     ErrorType = "budget"
	ErrorTypeProvider   ErrorType = "provider"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is: two domain errors match when their types match
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Validation Errors
	ErrInvalidInput    = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrEmptyPrompt     = NewDomainError(ErrorTypeValidation, "prompt cannot be empty", nil)
	ErrInvalidProvider = NewDomainError(ErrorTypeValidation, "invalid provider specified", nil)
	ErrInvalidModel    = NewDomainError(ErrorTypeValidation, "invalid model specified", nil)

	// Budget Errors
	ErrBudgetExceeded         = NewDomainError(ErrorTypeBudget, "budget exceeded", nil)
	ErrCostPerRequestExceeded = NewDomainError(ErrorTypeBudget, "cost per request limit exceeded", nil)
	ErrDailyBudgetExceeded    = NewDomainError(ErrorTypeBudget, "daily budget exceeded", nil)
	ErrMonthlyBudgetExceeded  = NewDomainError(ErrorTypeBudget, "monthly budget exceeded", nil)

	// Provider Errors
	ErrProviderUnavailable = NewDomainError(ErrorTypeProvider, "provider unavailable", nil)
	ErrProviderTimeout     = NewDomainError(ErrorTypeProvider, "provider timeout", nil)
	ErrProvidersExhausted  = NewDomainError(ErrorTypeProvider, "all providers exhausted", nil)

	// Config Errors
	ErrInvalidConfig = NewDomainError(ErrorTypeConfig, "invalid configuration", nil)
)

// Error type checking helper functions

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsBudgetError checks if an error is a budget error
func IsBudgetError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeBudget
	}
	return false
}

// IsProviderError checks if an error is a provider error
func IsProviderError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeProvider
	}
	return false
}

// IsConfigError checks if an error is a config error
func IsConfigError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeConfig
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// NewValidationError creates a validation error with a custom message
func NewValidationError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, err)
}

// NewBudgetError creates a budget error with a custom message
func NewBudgetError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeBudget, message, err)
}

// NewProviderError creates a provider error with a custom message
func NewProviderError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeProvider, message, err)
}

// NewConfigError creates a config error with a custom message
func NewConfigError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeConfig, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
