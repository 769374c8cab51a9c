package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"ENVIRONMENT": "development",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 0.10, cfg.Budget.MaxCostPerRequest)
				assert.Equal(t, 5.00, cfg.Budget.MaxCostPerDay)
				assert.Equal(t, 50.00, cfg.Budget.MaxCostPerMonth)
				assert.Equal(t, 0.80, cfg.Budget.WarnThreshold)
				assert.True(t, cfg.Cache.Enabled)
				assert.Equal(t, 1*time.Hour, cfg.Cache.TTL)
				assert.Equal(t, 1024, cfg.Cache.MaxEntries)
				assert.Equal(t, 3, cfg.Retry.MaxAttempts)
				assert.Equal(t, 1*time.Second, cfg.Retry.InitialBackoff)
				assert.Equal(t, 10*time.Second, cfg.Retry.MaxBackoff)
				assert.Equal(t, 2.0, cfg.Retry.BackoffMultiple)
				assert.Equal(t, 0.25, cfg.Retry.JitterFraction)
				assert.Nil(t, cfg.Providers.Order)
				assert.Equal(t, 0.7, cfg.Providers.DefaultTemperature)
				assert.Equal(t, 1000, cfg.Providers.DefaultMaxTokens)
			},
		},
		{
			name: "custom budget limits",
			envVars: map[string]string{
				"LLM_BUDGET_MAX_COST_PER_REQUEST": "0.05",
				"LLM_BUDGET_MAX_COST_PER_DAY":     "2.50",
				"LLM_BUDGET_MAX_COST_PER_MONTH":   "25",
				"LLM_BUDGET_WARN_THRESHOLD":       "0.9",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.05, cfg.Budget.MaxCostPerRequest)
				assert.Equal(t, 2.50, cfg.Budget.MaxCostPerDay)
				assert.Equal(t, 25.0, cfg.Budget.MaxCostPerMonth)
				assert.Equal(t, 0.9, cfg.Budget.WarnThreshold)
			},
		},
		{
			name: "cache disabled",
			envVars: map[string]string{
				"LLM_CACHE_ENABLED": "false",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Cache.Enabled)
			},
		},
		{
			name: "custom cache settings",
			envVars: map[string]string{
				"LLM_CACHE_TTL":         "30m",
				"LLM_CACHE_MAX_ENTRIES": "256",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, 256, cfg.Cache.MaxEntries)
			},
		},
		{
			name: "custom retry settings",
			envVars: map[string]string{
				"LLM_RETRY_MAX_ATTEMPTS":    "5",
				"LLM_RETRY_INITIAL_BACKOFF": "500ms",
				"LLM_RETRY_MAX_BACKOFF":     "30s",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Retry.MaxAttempts)
				assert.Equal(t, 500*time.Millisecond, cfg.Retry.InitialBackoff)
				assert.Equal(t, 30*time.Second, cfg.Retry.MaxBackoff)
			},
		},
		{
			name: "provider order parsed from comma separated list",
			envVars: map[string]string{
				"LLM_PROVIDER_ORDER": "openai, anthropic ,ollama",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"openai", "anthropic", "ollama"}, cfg.Providers.Order)
			},
		},
		{
			name: "invalid numeric value falls back to default",
			envVars: map[string]string{
				"LLM_BUDGET_MAX_COST_PER_DAY": "not-a-number",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5.00, cfg.Budget.MaxCostPerDay)
			},
		},
		{
			name: "invalid bool value falls back to default",
			envVars: map[string]string{
				"LLM_CACHE_ENABLED": "yes please",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Cache.Enabled)
			},
		},
		{
			name: "invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "loud",
			},
			wantErr: true,
		},
		{
			name: "zero retry attempts",
			envVars: map[string]string{
				"LLM_RETRY_MAX_ATTEMPTS": "0",
			},
			wantErr: true,
		},
		{
			name: "zero cache TTL while enabled",
			envVars: map[string]string{
				"LLM_CACHE_TTL": "0s",
			},
			wantErr: true,
		},
		{
			name: "duplicate provider in order",
			envVars: map[string]string{
				"LLM_PROVIDER_ORDER": "openai,ollama,openai",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			// Create config
			cfg, err := New(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Budget: BudgetConfig{
			MaxCostPerRequest: 0.10,
			MaxCostPerDay:     5.00,
			MaxCostPerMonth:   50.00,
			WarnThreshold:     0.80,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        1 * time.Hour,
			MaxEntries: 1024,
		},
		Retry: RetryConfig{
			MaxAttempts:     3,
			InitialBackoff:  1 * time.Second,
			MaxBackoff:      10 * time.Second,
			BackoffMultiple: 2.0,
			JitterFraction:  0.25,
		},
		Providers: ProvidersConfig{
			Order:              []string{"openai", "ollama"},
			DefaultTemperature: 0.7,
			DefaultMaxTokens:   1000,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
			errMsg:  "log level must be one of",
		},
		{
			name:    "warn threshold above one",
			mutate:  func(c *Config) { c.Budget.WarnThreshold = 1.5 },
			wantErr: true,
			errMsg:  "warn threshold must be at most 1",
		},
		{
			name:    "zero warn threshold disables warning",
			mutate:  func(c *Config) { c.Budget.WarnThreshold = 0 },
			wantErr: false,
		},
		{
			name:    "enabled cache needs positive TTL",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: true,
			errMsg:  "cache TTL must be positive",
		},
		{
			name: "disabled cache skips cache checks",
			mutate: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.TTL = 0
				c.Cache.MaxEntries = 0
			},
			wantErr: false,
		},
		{
			name:    "retry attempts below one",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: true,
			errMsg:  "retry max attempts",
		},
		{
			name:    "initial backoff exceeds max backoff",
			mutate:  func(c *Config) { c.Retry.InitialBackoff = 20 * time.Second },
			wantErr: true,
			errMsg:  "must not exceed max backoff",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Providers.DefaultTemperature = 2.5 },
			wantErr: true,
			errMsg:  "default temperature must be at most 2",
		},
		{
			name:    "zero default max tokens",
			mutate:  func(c *Config) { c.Providers.DefaultMaxTokens = 0 },
			wantErr: true,
			errMsg:  "default max tokens",
		},
		{
			name:    "empty provider order entry",
			mutate:  func(c *Config) { c.Providers.Order = []string{"openai", ""} },
			wantErr: true,
			errMsg:  "provider order entry is required",
		},
		{
			name:    "duplicate provider order entry",
			mutate:  func(c *Config) { c.Providers.Order = []string{"openai", "openai"} },
			wantErr: true,
			errMsg:  "listed twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_EnvironmentHelpers(t *testing.T) {
	tests := []struct {
		environment string
		production  bool
		development bool
	}{
		{environment: "production", production: true, development: false},
		{environment: "prod", production: true, development: false},
		{environment: "development", production: false, development: true},
		{environment: "dev", production: false, development: true},
		{environment: "staging", production: false, development: false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			assert.Equal(t, tt.production, cfg.IsProduction())
			assert.Equal(t, tt.development, cfg.IsDevelopment())
		})
	}
}
