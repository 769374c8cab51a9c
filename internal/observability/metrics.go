package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Eviction reasons for CacheEvictions
const (
	EvictionExpired = "expired"
	EvictionLRU     = "lru"
	EvictionCleared = "cleared"
)

// Budget limit labels for BudgetRejections
const (
	LimitPerRequest = "per_request"
	LimitDaily      = "daily"
	LimitMonthly    = "monthly"
)

// Outcome labels for GenerateRequests
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
)

var (
	// CacheHits tracks responses served from the cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_cache_hits_total",
			Help: "Total number of generation responses served from the cache",
		},
	)

	// CacheMisses tracks cache lookups that found nothing usable
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_cache_misses_total",
			Help: "Total number of cache lookups that missed",
		},
	)

	// CacheEvictions tracks removed cache entries by reason
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_cache_evictions_total",
			Help: "Total number of cache entries evicted",
		},
		[]string{"reason"},
	)

	// BudgetRejections tracks admission rejections by violated limit
	BudgetRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_budget_rejections_total",
			Help: "Total number of requests rejected by budget admission",
		},
		[]string{"limit"},
	)

	// BudgetWarnings tracks admissions that crossed the warn threshold
	BudgetWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_budget_warnings_total",
			Help: "Total number of admissions over the daily warn threshold",
		},
	)

	// GenerateRequests tracks provider invocations by outcome
	GenerateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_generate_requests_total",
			Help: "Total number of provider generation attempts",
		},
		[]string{"provider", "outcome"},
	)

	// GenerateRetries tracks retry attempts per provider
	GenerateRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_generate_retries_total",
			Help: "Total number of generation retries",
		},
		[]string{"provider"},
	)

	// GenerateLatency tracks provider call latency
	GenerateLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobsentinel_llm_generate_latency_seconds",
			Help:    "Provider generation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// SpendUSD tracks recorded actual cost per provider and model
	SpendUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_spend_usd_total",
			Help: "Total recorded generation spend in USD",
		},
		[]string{"provider", "model"},
	)

	// TokensUsed tracks reported token usage per provider and model
	TokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsentinel_llm_tokens_used_total",
			Help: "Total tokens reported by providers",
		},
		[]string{"provider", "model"},
	)
)
