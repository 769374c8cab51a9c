package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cboyd0319/JobSentinel-sub004/utils"
)

// Config represents the complete application configuration
type Config struct {
	Environment string
	LogLevel    string
	Budget      BudgetConfig
	Cache       CacheConfig
	Retry       RetryConfig
	Providers   ProvidersConfig
}

// BudgetConfig holds spending limits in USD. A non-positive limit disables
// that check.
type BudgetConfig struct {
	MaxCostPerRequest float64
	MaxCostPerDay     float64
	MaxCostPerMonth   float64
	WarnThreshold     float64
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// RetryConfig holds per-provider retry configuration
type RetryConfig struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffMultiple float64
	JitterFraction  float64
}

// ProvidersConfig holds provider chain configuration. Order lists provider
// names in failover priority; when empty, providers keep the order they
// were handed to the application in.
type ProvidersConfig struct {
	Order              []string
	DefaultTemperature float64
	DefaultMaxTokens   int
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Budget: BudgetConfig{
			MaxCostPerRequest: getEnvAsFloat("LLM_BUDGET_MAX_COST_PER_REQUEST", 0.10),
			MaxCostPerDay:     getEnvAsFloat("LLM_BUDGET_MAX_COST_PER_DAY", 5.00),
			MaxCostPerMonth:   getEnvAsFloat("LLM_BUDGET_MAX_COST_PER_MONTH", 50.00),
			WarnThreshold:     getEnvAsFloat("LLM_BUDGET_WARN_THRESHOLD", 0.80),
		},
		Cache: CacheConfig{
			Enabled:    getEnvAsBool("LLM_CACHE_ENABLED", true),
			TTL:        getEnvAsDuration("LLM_CACHE_TTL", 1*time.Hour),
			MaxEntries: getEnvAsInt("LLM_CACHE_MAX_ENTRIES", 1024),
		},
		Retry: RetryConfig{
			MaxAttempts:     getEnvAsInt("LLM_RETRY_MAX_ATTEMPTS", 3),
			InitialBackoff:  getEnvAsDuration("LLM_RETRY_INITIAL_BACKOFF", 1*time.Second),
			MaxBackoff:      getEnvAsDuration("LLM_RETRY_MAX_BACKOFF", 10*time.Second),
			BackoffMultiple: getEnvAsFloat("LLM_RETRY_BACKOFF_MULTIPLE", 2.0),
			JitterFraction:  getEnvAsFloat("LLM_RETRY_JITTER_FRACTION", 0.25),
		},
		Providers: ProvidersConfig{
			Order:              getEnvAsSlice("LLM_PROVIDER_ORDER", nil),
			DefaultTemperature: getEnvAsFloat("LLM_DEFAULT_TEMPERATURE", 0.7),
			DefaultMaxTokens:   getEnvAsInt("LLM_DEFAULT_MAX_TOKENS", 1000),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if err := utils.ValidateOneOf(c.LogLevel, "log level", []string{"debug", "info", "warn", "error"}); err != nil {
		return err
	}

	// Warn threshold is a fraction of the daily limit; zero disables warning
	if err := utils.ValidateNumericRange(c.Budget.WarnThreshold, "warn threshold", 0, 1); err != nil {
		return err
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache TTL must be positive when the cache is enabled")
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache max entries must be positive when the cache is enabled")
		}
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1")
	}
	if c.Retry.InitialBackoff > c.Retry.MaxBackoff {
		return fmt.Errorf("retry initial backoff must not exceed max backoff")
	}

	if err := utils.ValidateNumericRange(c.Providers.DefaultTemperature, "default temperature", 0, 2); err != nil {
		return err
	}
	if c.Providers.DefaultMaxTokens <= 0 {
		return fmt.Errorf("default max tokens must be positive")
	}

	seen := make(map[string]bool, len(c.Providers.Order))
	for _, name := range c.Providers.Order {
		if err := utils.ValidateRequired(name, "provider order entry"); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("provider %q listed twice in provider order", name)
		}
		seen[name] = true
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
