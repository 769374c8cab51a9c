package providers

// Pricing contains the USD rates for one model
type Pricing struct {
	// PromptPer1K is the cost per 1K prompt tokens
	PromptPer1K float64

	// CompletionPer1K is the cost per 1K completion tokens
	CompletionPer1K float64
}

// DefaultMaxTokens is the completion-length estimate used when neither the
// request nor the provider config bounds the output
const DefaultMaxTokens = 500

// DefaultPricing is applied to models missing from a table. Priced like the
// current mid-tier hosted models so unknown models are never admitted as
// free.
var DefaultPricing = Pricing{PromptPer1K: 0.0025, CompletionPer1K: 0.01}

// Table maps model identifiers to their pricing
type Table map[string]Pricing

// DefaultTable returns the built-in pricing table. Rates are USD per 1K
// tokens; local models are free.
func DefaultTable() Table {
	return Table{
		"gpt-4":             {PromptPer1K: 0.03, CompletionPer1K: 0.06},
		"gpt-4-turbo":       {PromptPer1K: 0.01, CompletionPer1K: 0.03},
		"gpt-4o":            {PromptPer1K: 0.0025, CompletionPer1K: 0.01},
		"gpt-4o-mini":       {PromptPer1K: 0.00015, CompletionPer1K: 0.0006},
		"gpt-3.5-turbo":     {PromptPer1K: 0.0005, CompletionPer1K: 0.0015},
		"claude-3-opus":     {PromptPer1K: 0.015, CompletionPer1K: 0.075},
		"claude-3-5-sonnet": {PromptPer1K: 0.003, CompletionPer1K: 0.015},
		"claude-3-haiku":    {PromptPer1K: 0.00025, CompletionPer1K: 0.00125},
		"llama3":            {PromptPer1K: 0, CompletionPer1K: 0},
		"mistral-local":     {PromptPer1K: 0, CompletionPer1K: 0},
	}
}

// Lookup returns the pricing for a model, or DefaultPricing when the model
// is not in the table
func (t Table) Lookup(model string) Pricing {
	if p, ok := t[model]; ok {
		return p
	}
	return DefaultPricing
}

// EstimateTokens approximates the token count of a text.
// Rough token estimation (4 chars per token average).
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Estimate predicts the worst-case USD cost of a request under a provider
// config: prompt and system prompt priced as input, the effective
// max-tokens priced as output. Adapters use this to implement EstimateCost.
func Estimate(req *GenerationRequest, cfg ProviderConfig, table Table) float64 {
	pricing := table.Lookup(cfg.Model)

	promptTokens := EstimateTokens(req.Prompt) + EstimateTokens(req.SystemPrompt)

	completionTokens := req.EffectiveMaxTokens(cfg)
	if completionTokens <= 0 {
		completionTokens = DefaultMaxTokens
	}

	promptCost := float64(promptTokens) / 1000 * pricing.PromptPer1K
	completionCost := float64(completionTokens) / 1000 * pricing.CompletionPer1K

	return promptCost + completionCost
}

// Cost computes the actual USD cost of a completed call from the token
// usage the provider reported
func Cost(promptTokens, completionTokens int, pricing Pricing) float64 {
	return float64(promptTokens)/1000*pricing.PromptPer1K +
		float64(completionTokens)/1000*pricing.CompletionPer1K
}
