package inference

import (
	"strings"

	"github.com/cboyd0319/JobSentinel-sub004/services"
)

// ProviderFailure records the terminal error one provider produced during a
// generation call
type ProviderFailure struct {
	Provider string
	Err      error
}

// ExhaustedError reports that every provider in the chain failed. It wraps
// the most recent failure, so errors.Is and errors.As reach the last
// provider's error, and it matches services.ErrProvidersExhausted.
type ExhaustedError struct {
	Failures []ProviderFailure
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	var b strings.Builder
	b.WriteString("all providers failed")
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Provider)
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

// Unwrap returns the most recent provider failure
func (e *ExhaustedError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1].Err
}

// Is implements errors.Is against the exhaustion sentinel
func (e *ExhaustedError) Is(target error) bool {
	return target == services.ErrProvidersExhausted
}

// Last returns the most recent provider failure, or nil when nothing was
// tried
func (e *ExhaustedError) Last() error {
	return e.Unwrap()
}
