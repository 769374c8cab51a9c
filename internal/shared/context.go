// Package shared holds request-scoped context helpers used across services.
package shared

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for request-scoped data. Keep types unexported to avoid collisions.
type ctxKey string

const ctxKeyRequestID ctxKey = "request-id"

// WithRequestID returns a context carrying the given request ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestID returns the request ID carried by ctx, or "" when absent
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// EnsureRequestID returns the request ID carried by ctx, minting a fresh
// one when absent. Callers that already track a request propagate their ID
// into generation logs this way.
func EnsureRequestID(ctx context.Context) string {
	if id := RequestID(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}
