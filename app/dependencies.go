package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cboyd0319/JobSentinel-sub004/config"
	"github.com/cboyd0319/JobSentinel-sub004/services/budget"
	"github.com/cboyd0319/JobSentinel-sub004/services/cache"
	"github.com/cboyd0319/JobSentinel-sub004/services/inference"
	"github.com/cboyd0319/JobSentinel-sub004/services/providers"
)

// cacheCleanupInterval is how often the background worker sweeps expired
// cache entries
const cacheCleanupInterval = 5 * time.Minute

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Provider chain
	Registry *providers.Registry

	// Services
	Cache     *cache.Service
	Budget    *budget.Service
	Inference *inference.Service

	cacheStop chan struct{}
}

// NewDependencies creates and wires up all application dependencies. The
// provider adapters are handed in by the caller; when cfg.Providers.Order
// is set it becomes the exact failover chain, and unlisted providers are
// excluded.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, provs ...providers.Provider) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initProviders(cfg, provs); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	for name, available := range deps.Inference.Status(ctx) {
		if !available {
			logger.Warn("provider unavailable at startup", zap.String("provider", name))
		}
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initProviders assembles the failover chain from the supplied adapters
func (d *Dependencies) initProviders(cfg *config.Config, provs []providers.Provider) error {
	ordered, err := orderProviders(cfg.Providers.Order, provs, d.Logger)
	if err != nil {
		return err
	}

	registry, err := providers.NewRegistry(ordered...)
	if err != nil {
		return fmt.Errorf("failed to create provider registry: %w", err)
	}

	d.Registry = registry
	d.Logger.Info("provider chain assembled", zap.Strings("order", registry.Names()))
	return nil
}

// initServices initializes the budget tracker, response cache, and
// inference pipeline
func (d *Dependencies) initServices(cfg *config.Config) error {
	d.Budget = budget.NewService(budget.Limits{
		MaxCostPerRequest: cfg.Budget.MaxCostPerRequest,
		MaxCostPerDay:     cfg.Budget.MaxCostPerDay,
		MaxCostPerMonth:   cfg.Budget.MaxCostPerMonth,
		WarnThreshold:     cfg.Budget.WarnThreshold,
	}, d.Logger)

	var respCache inference.ResponseCache
	if cfg.Cache.Enabled {
		d.Cache = cache.NewService(cache.Config{
			TTL:        cfg.Cache.TTL,
			MaxEntries: cfg.Cache.MaxEntries,
		})
		d.cacheStop = make(chan struct{})
		go d.Cache.StartCleanupWorker(cacheCleanupInterval, d.cacheStop)
		respCache = d.Cache
		d.Logger.Info("response cache enabled",
			zap.Duration("ttl", cfg.Cache.TTL),
			zap.Int("max_entries", cfg.Cache.MaxEntries))
	} else {
		d.Logger.Info("response cache disabled")
	}

	svc, err := inference.NewService(d.Registry, respCache, d.Budget, inference.RetryConfig{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialBackoff:  cfg.Retry.InitialBackoff,
		MaxBackoff:      cfg.Retry.MaxBackoff,
		BackoffMultiple: cfg.Retry.BackoffMultiple,
		JitterFraction:  cfg.Retry.JitterFraction,
	}, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create inference service: %w", err)
	}

	d.Inference = svc
	return nil
}

// orderProviders applies the configured chain order. An empty order keeps
// the adapters as given; a non-empty order is the complete chain, so a name
// without an adapter is an error and adapters without a name are excluded.
func orderProviders(order []string, provs []providers.Provider, logger *zap.Logger) ([]providers.Provider, error) {
	if len(order) == 0 {
		return provs, nil
	}

	byName := make(map[string]providers.Provider, len(provs))
	for _, p := range provs {
		if p == nil {
			continue
		}
		byName[p.Name()] = p
	}

	ordered := make([]providers.Provider, 0, len(order))
	for _, name := range order {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("provider %q in configured order has no adapter", name)
		}
		ordered = append(ordered, p)
		delete(byName, name)
	}

	for name := range byName {
		logger.Warn("provider excluded from chain by configured order", zap.String("provider", name))
	}

	return ordered, nil
}

// NewLogger builds the application logger from the configured level
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.cacheStop != nil {
		close(d.cacheStop)
		d.cacheStop = nil
		d.Logger.Info("cache cleanup worker stopped")
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
