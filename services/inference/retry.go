package inference

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/cboyd0319/JobSentinel-sub004/internal/observability"
	"github.com/cboyd0319/JobSentinel-sub004/services/providers"
)

// RetryConfig controls retry behavior for a single provider
type RetryConfig struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffMultiple float64
	JitterFraction  float64
}

// DefaultRetryConfig returns the retry configuration used when nothing is
// configured: 3 attempts, exponential backoff from 1s to 10s with jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialBackoff:  1 * time.Second,
		MaxBackoff:      10 * time.Second,
		BackoffMultiple: 2.0,
		JitterFraction:  0.25,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = def.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = def.MaxBackoff
	}
	if c.BackoffMultiple < 1 {
		c.BackoffMultiple = def.BackoffMultiple
	}
	if c.JitterFraction < 0 || c.JitterFraction >= 1 {
		c.JitterFraction = def.JitterFraction
	}
	return c
}

// callWithRetry invokes one provider with bounded retries. Only transient
// failures are retried; permanent failures and context cancellation
// propagate immediately. The backoff sleep selects on ctx.Done so callers
// can interrupt it.
func (s *Service) callWithRetry(ctx context.Context, p providers.Provider, req *providers.GenerationRequest, requestID string) (*providers.GenerationResponse, error) {
	var lastErr error

	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		start := time.Now()
		resp, err := p.Generate(ctx, req)
		observability.GenerateLatency.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !providers.IsRetryable(err) {
			return nil, err
		}
		if attempt == s.retry.MaxAttempts-1 {
			break
		}

		delay := backoffDelay(attempt, s.retry)
		s.logger.Debug("retrying after transient failure",
			zap.String("request_id", requestID),
			zap.String("provider", p.Name()),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		observability.GenerateRetries.WithLabelValues(p.Name()).Inc()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", s.retry.MaxAttempts, lastErr)
}

// backoffDelay computes the delay before retrying attempt+1. Jitter is
// subtractive, so the configured cap holds.
func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffMultiple, float64(attempt))
	if delay > float64(cfg.MaxBackoff) {
		delay = float64(cfg.MaxBackoff)
	}
	if cfg.JitterFraction > 0 {
		delay -= rand.Float64() * cfg.JitterFraction * delay
	}
	return time.Duration(delay)
}
