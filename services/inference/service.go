// Package inference orchestrates text generation across a chain of
// providers, consulting the response cache before spending and the budget
// tracker before every provider call. Providers are tried in registration
// order; transient failures are retried per provider, and the next provider
// takes over when one is exhausted.
package inference

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cboyd0319/JobSentinel-sub004/internal/observability"
	"github.com/cboyd0319/JobSentinel-sub004/internal/shared"
	"github.com/cboyd0319/JobSentinel-sub004/services"
	"github.com/cboyd0319/JobSentinel-sub004/services/budget"
	"github.com/cboyd0319/JobSentinel-sub004/services/providers"
)

// ResponseCache is the cache surface the pipeline needs
type ResponseCache interface {
	Get(prompt string) (*providers.GenerationResponse, bool)
	Set(prompt string, resp *providers.GenerationResponse)
}

// BudgetGate is the budget surface the pipeline needs
type BudgetGate interface {
	Check(estimated float64) budget.Decision
	Record(actual float64)
}

// Service is the resilient generation entry point
type Service struct {
	registry *providers.Registry
	cache    ResponseCache
	budget   BudgetGate
	retry    RetryConfig
	logger   *zap.Logger
}

// NewService creates the inference service. The cache may be nil, which
// disables response caching. The budget gate is mandatory: every provider
// call is admitted through it.
func NewService(registry *providers.Registry, cache ResponseCache, budgetGate BudgetGate, retry RetryConfig, logger *zap.Logger) (*Service, error) {
	if registry == nil {
		return nil, services.NewConfigError("provider registry is required", nil)
	}
	if budgetGate == nil {
		return nil, services.NewConfigError("budget tracker is required", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		registry: registry,
		cache:    cache,
		budget:   budgetGate,
		retry:    retry.withDefaults(),
		logger:   logger,
	}, nil
}

// Generate produces a completion for the request. The flow per call:
//
//  1. return the cached response when one exists (unless bypassed)
//  2. walk providers in configured order, skipping unavailable ones
//  3. admit each attempt through the budget tracker; a rejection aborts
//     the whole call rather than falling through to the next provider
//  4. retry transient failures per provider, then fail over
//  5. record actual cost and cache the response on success
//
// A successful fallback response is also cached, so later calls are served
// without touching any provider. Bypassing the cache skips the read, not
// the write.
func (s *Service) Generate(ctx context.Context, req *providers.GenerationRequest) (*providers.GenerationResponse, error) {
	if req == nil {
		return nil, services.NewValidationError("request is required", services.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, services.NewValidationError("prompt must not be empty", services.ErrEmptyPrompt)
	}

	requestID := shared.EnsureRequestID(ctx)
	log := s.logger.With(zap.String("request_id", requestID))

	log.Debug("starting generation pipeline",
		zap.Int("prompt_chars", len(req.Prompt)),
		zap.Bool("bypass_cache", req.BypassCache))

	if s.cache != nil && !req.BypassCache {
		if resp, ok := s.cache.Get(req.Prompt); ok {
			log.Debug("cache hit, skipping providers",
				zap.String("provider", resp.Provider),
				zap.String("model", resp.Model))
			return resp, nil
		}
	}

	var failures []ProviderFailure
	for _, p := range s.registry.List() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !p.IsAvailable(ctx) {
			log.Warn("provider unavailable, skipping", zap.String("provider", p.Name()))
			observability.GenerateRequests.WithLabelValues(p.Name(), observability.OutcomeUnavailable).Inc()
			failures = append(failures, ProviderFailure{Provider: p.Name(), Err: services.ErrProviderUnavailable})
			continue
		}

		estimated := p.EstimateCost(req)
		if d := s.budget.Check(estimated); !d.Allowed {
			log.Warn("budget rejected generation",
				zap.String("provider", p.Name()),
				zap.Float64("estimated_cost", estimated),
				zap.String("violated_limit", d.ViolatedLimit),
				zap.String("reason", d.Reason))
			return nil, services.NewBudgetError(d.Reason, budgetSentinel(d.ViolatedLimit))
		}

		resp, err := s.callWithRetry(ctx, p, req, requestID)
		if err != nil {
			log.Error("provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Float64("estimated_cost", estimated),
				zap.Error(err))
			observability.GenerateRequests.WithLabelValues(p.Name(), observability.OutcomeError).Inc()
			failures = append(failures, ProviderFailure{Provider: p.Name(), Err: err})
			continue
		}

		s.budget.Record(resp.CostUSD)
		observability.GenerateRequests.WithLabelValues(p.Name(), observability.OutcomeSuccess).Inc()
		observability.SpendUSD.WithLabelValues(resp.Provider, resp.Model).Add(resp.CostUSD)
		observability.TokensUsed.WithLabelValues(resp.Provider, resp.Model).Add(float64(resp.TokensUsed))

		if s.cache != nil {
			s.cache.Set(req.Prompt, resp)
		}

		log.Info("generation complete",
			zap.String("provider", resp.Provider),
			zap.String("model", resp.Model),
			zap.Int("tokens_used", resp.TokensUsed),
			zap.Float64("actual_cost", resp.CostUSD),
			zap.Int("providers_skipped", len(failures)))
		return resp, nil
	}

	exhausted := &ExhaustedError{Failures: failures}
	log.Error("all providers exhausted",
		zap.Int("providers_tried", len(failures)),
		zap.Error(exhausted.Unwrap()))
	return nil, exhausted
}

// IsOffline reports whether no provider in the chain is currently available
func (s *Service) IsOffline(ctx context.Context) bool {
	for _, p := range s.registry.List() {
		if p.IsAvailable(ctx) {
			return false
		}
	}
	return true
}

// Status probes every provider in chain order and reports availability by
// name
func (s *Service) Status(ctx context.Context) map[string]bool {
	status := make(map[string]bool, s.registry.Len())
	for _, p := range s.registry.List() {
		status[p.Name()] = p.IsAvailable(ctx)
	}
	return status
}

func budgetSentinel(violatedLimit string) error {
	switch violatedLimit {
	case observability.LimitPerRequest:
		return services.ErrCostPerRequestExceeded
	case observability.LimitDaily:
		return services.ErrDailyBudgetExceeded
	case observability.LimitMonthly:
		return services.ErrMonthlyBudgetExceeded
	}
	return services.ErrBudgetExceeded
}
