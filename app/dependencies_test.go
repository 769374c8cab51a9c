package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cboyd0319/JobSentinel-sub004/config"
	"github.com/cboyd0319/JobSentinel-sub004/services/providers"
)

// stubProvider is a minimal adapter for wiring tests
type stubProvider struct {
	name  string
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) IsAvailable(_ context.Context) bool { return true }

func (p *stubProvider) EstimateCost(_ *providers.GenerationRequest) float64 { return 0 }

func (p *stubProvider) Generate(_ context.Context, req *providers.GenerationRequest) (*providers.GenerationResponse, error) {
	p.calls++
	return &providers.GenerationResponse{
		Content:    "stub response to: " + req.Prompt,
		Provider:   p.name,
		Model:      "stub-model",
		TokensUsed: 10,
	}, nil
}

// Test helpers

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		LogLevel:    "debug",
		Budget: config.BudgetConfig{
			MaxCostPerRequest: 0.10,
			MaxCostPerDay:     5.00,
			MaxCostPerMonth:   50.00,
			WarnThreshold:     0.80,
		},
		Cache: config.CacheConfig{
			Enabled:    true,
			TTL:        1 * time.Hour,
			MaxEntries: 16,
		},
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialBackoff:  time.Millisecond,
			MaxBackoff:      5 * time.Millisecond,
			BackoffMultiple: 2.0,
			JitterFraction:  0.25,
		},
		Providers: config.ProvidersConfig{
			DefaultTemperature: 0.7,
			DefaultMaxTokens:   1000,
		},
	}
}

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization with all components", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger, &stubProvider{name: "openai"}, &stubProvider{name: "ollama"})
		require.NoError(t, err)
		require.NotNil(t, deps)

		// Verify infrastructure
		assert.NotNil(t, deps.Config)
		assert.NotNil(t, deps.Logger)

		// Verify services
		assert.NotNil(t, deps.Registry)
		assert.NotNil(t, deps.Cache)
		assert.NotNil(t, deps.Budget)
		assert.NotNil(t, deps.Inference)

		assert.Equal(t, []string{"openai", "ollama"}, deps.Registry.Names())

		// Cleanup
		err = deps.Close(ctx)
		assert.NoError(t, err)
	})

	t.Run("configured order reorders the chain", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Providers.Order = []string{"ollama", "openai"}
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(context.Background(), cfg, logger, &stubProvider{name: "openai"}, &stubProvider{name: "ollama"})
		require.NoError(t, err)
		defer deps.Close(context.Background())

		assert.Equal(t, []string{"ollama", "openai"}, deps.Registry.Names())
	})

	t.Run("configured order excludes unlisted providers", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Providers.Order = []string{"ollama"}
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(context.Background(), cfg, logger, &stubProvider{name: "openai"}, &stubProvider{name: "ollama"})
		require.NoError(t, err)
		defer deps.Close(context.Background())

		assert.Equal(t, []string{"ollama"}, deps.Registry.Names())
	})

	t.Run("order naming a missing adapter fails", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Providers.Order = []string{"bedrock"}
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(context.Background(), cfg, logger, &stubProvider{name: "openai"})
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize providers")
	})

	t.Run("no providers fails", func(t *testing.T) {
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(context.Background(), cfg, logger)
		assert.Error(t, err)
		assert.Nil(t, deps)
	})

	t.Run("disabled cache leaves cache nil", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Cache.Enabled = false
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(context.Background(), cfg, logger, &stubProvider{name: "openai"})
		require.NoError(t, err)
		defer deps.Close(context.Background())

		assert.Nil(t, deps.Cache)
		assert.NotNil(t, deps.Inference)
	})
}

func TestDependencies_EndToEndGeneration(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := zaptest.NewLogger(t)
	stub := &stubProvider{name: "ollama"}

	deps, err := NewDependencies(ctx, cfg, logger, stub)
	require.NoError(t, err)
	defer deps.Close(ctx)

	req := &providers.GenerationRequest{Prompt: "what jobs match my profile"}

	first, err := deps.Inference.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "ollama", first.Provider)
	assert.False(t, first.Cached)

	second, err := deps.Inference.Generate(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, stub.calls)
}

func TestDependenciesClose(t *testing.T) {
	t.Run("graceful shutdown", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger, &stubProvider{name: "openai"})
		require.NoError(t, err)
		require.NotNil(t, deps)

		// Close should succeed
		err = deps.Close(ctx)
		assert.NoError(t, err)

		// Second close should not panic
		err = deps.Close(ctx)
		assert.NoError(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("builds logger at configured level", func(t *testing.T) {
		cfg := testConfig(t)
		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)
		_ = logger.Sync()
	})

	t.Run("development environment uses development config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Environment = "development"
		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)
		_ = logger.Sync()
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.LogLevel = "loud"
		logger, err := NewLogger(cfg)
		assert.Error(t, err)
		assert.Nil(t, logger)
	})
}
