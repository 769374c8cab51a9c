package providers

import (
	"context"

	"github.com/cboyd0319/JobSentinel-sub004/utils"
)

// Provider represents a unified LLM text-generation provider.
//
// Concrete adapters (OpenAI, Anthropic, local models) live in their own
// modules and implement this interface; the resilience pipeline only ever
// talks to it.
type Provider interface {
	// Name returns the provider identity (e.g., "openai", "anthropic", "local")
	Name() string

	// Generate performs a text-generation request
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResponse, error)

	// IsAvailable reports whether the provider can currently serve requests.
	// Implementations keep this cheap: a health probe or a config check,
	// never a retried call.
	IsAvailable(ctx context.Context) bool

	// EstimateCost predicts the worst-case USD cost of a request before it
	// is sent. Pure pricing-table arithmetic: deterministic, no I/O.
	EstimateCost(req *GenerationRequest) float64
}

// GenerationRequest represents a single text-generation request
type GenerationRequest struct {
	// Prompt is the user prompt text
	Prompt string `json:"prompt"`

	// SystemPrompt optionally steers the model
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Temperature overrides the provider's configured temperature when set
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens overrides the provider's configured completion limit when set
	MaxTokens *int `json:"max_tokens,omitempty"`

	// BypassCache skips the cache lookup for this request. The fresh
	// response is still written back to the cache.
	BypassCache bool `json:"-"`
}

// EffectiveTemperature resolves the request override against the provider
// configuration
func (r *GenerationRequest) EffectiveTemperature(cfg ProviderConfig) float64 {
	if r.Temperature != nil {
		return *r.Temperature
	}
	return cfg.Temperature
}

// EffectiveMaxTokens resolves the request override against the provider
// configuration
func (r *GenerationRequest) EffectiveMaxTokens(cfg ProviderConfig) int {
	if r.MaxTokens != nil {
		return *r.MaxTokens
	}
	return cfg.MaxTokens
}

// GenerationResponse represents a completed text-generation call
type GenerationResponse struct {
	// Content is the generated text
	Content string `json:"content"`

	// Provider that produced the response
	Provider string `json:"provider"`

	// Model used for the generation
	Model string `json:"model"`

	// TokensUsed is the total token count reported by the provider
	TokensUsed int `json:"tokens_used"`

	// CostUSD is the actual cost reported by the adapter
	CostUSD float64 `json:"cost_usd"`

	// Cached is false on construction. The cache flips it to true on the
	// copy it hands out for a hit; a stored original is never mutated.
	Cached bool `json:"cached"`
}

// ProviderConfig holds the generation settings for one provider in the
// chain. Treated as immutable: build a fresh value to change settings.
type ProviderConfig struct {
	// Provider identity (e.g., "openai")
	Provider string `validate:"required"`

	// Model identifier (e.g., "gpt-4o-mini")
	Model string `validate:"required"`

	// APIKey for authentication; local providers leave it empty
	APIKey string

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64 `validate:"gte=0,lte=2"`

	// MaxTokens limits the completion length
	MaxTokens int `validate:"gt=0"`
}

// DefaultProviderConfig returns a config with sensible generation defaults
func DefaultProviderConfig(provider, model string) ProviderConfig {
	return ProviderConfig{
		Provider:    provider,
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// Validate checks the configuration against its constraints
func (c ProviderConfig) Validate() error {
	return utils.ValidateStruct(c)
}
