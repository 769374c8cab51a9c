package budget

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cboyd0319/JobSentinel-sub004/internal/observability"
)

// Window lengths for the rolling spend windows. Both roll from first use,
// not calendar boundaries.
const (
	dailyWindow   = 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

// Limits holds the spend limits enforced by the tracker. A non-positive
// limit disables that check.
type Limits struct {
	// MaxCostPerRequest caps the estimated cost of a single request
	MaxCostPerRequest float64

	// MaxCostPerDay caps spend over the rolling daily window
	MaxCostPerDay float64

	// MaxCostPerMonth caps spend over the rolling monthly window
	MaxCostPerMonth float64

	// WarnThreshold is the fraction of the daily limit past which an
	// admission is logged as a warning but still allowed
	WarnThreshold float64
}

// DefaultLimits returns the production spend limits
func DefaultLimits() Limits {
	return Limits{
		MaxCostPerRequest: 0.10,
		MaxCostPerDay:     5.00,
		MaxCostPerMonth:   50.00,
		WarnThreshold:     0.80,
	}
}

// Decision represents the outcome of a budget admission check
type Decision struct {
	Allowed       bool
	Reason        string
	ViolatedLimit string // per_request, daily, or monthly; empty when allowed
	DailySpend    float64
	MonthlySpend  float64
}

// Usage is a point-in-time snapshot of the tracked spend
type Usage struct {
	DailySpend   float64
	MonthlySpend float64
	DayStart     time.Time
	MonthStart   time.Time
}

// Service tracks generation spend against per-request, daily, and monthly
// limits. All state is in-memory and lost on restart.
//
// Check and Record are separate critical sections, so two concurrent calls
// can both pass Check before either Record lands. The resulting overspend is
// bounded by one request's cost and is accepted; callers that need a hard
// ceiling must serialize their requests.
type Service struct {
	mu     sync.Mutex
	limits Limits
	logger *zap.Logger

	dailySpend   float64
	monthlySpend float64
	dayStart     time.Time
	monthStart   time.Time

	now func() time.Time
}

// NewService creates a budget tracker with both windows anchored at now
func NewService(limits Limits, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		limits: limits,
		logger: logger,
		now:    time.Now,
	}
	start := s.now()
	s.dayStart = start
	s.monthStart = start
	return s
}

// Check decides whether a request with the given estimated cost may
// proceed. It never returns an error; a rejection carries the reason.
// Checks run in a fixed order: per-request limit, daily limit, monthly
// limit. The warn threshold is a side effect only and never rejects.
func (s *Service) Check(estimated float64) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeResetLocked(s.now())

	d := Decision{
		Allowed:      true,
		DailySpend:   s.dailySpend,
		MonthlySpend: s.monthlySpend,
	}

	if s.limits.MaxCostPerRequest > 0 && estimated > s.limits.MaxCostPerRequest {
		d.Allowed = false
		d.ViolatedLimit = observability.LimitPerRequest
		d.Reason = fmt.Sprintf("estimated cost %.4f exceeds per-request limit (%.4f > %.2f)",
			estimated, estimated, s.limits.MaxCostPerRequest)
		s.rejectLocked(d, estimated)
		return d
	}

	if s.limits.MaxCostPerDay > 0 && s.dailySpend+estimated > s.limits.MaxCostPerDay {
		d.Allowed = false
		d.ViolatedLimit = observability.LimitDaily
		d.Reason = fmt.Sprintf("would exceed daily budget of %.2f USD (current: %.2f, request: %.4f)",
			s.limits.MaxCostPerDay, s.dailySpend, estimated)
		s.rejectLocked(d, estimated)
		return d
	}

	if s.limits.MaxCostPerMonth > 0 && s.monthlySpend+estimated > s.limits.MaxCostPerMonth {
		d.Allowed = false
		d.ViolatedLimit = observability.LimitMonthly
		d.Reason = fmt.Sprintf("would exceed monthly budget of %.2f USD (current: %.2f, request: %.4f)",
			s.limits.MaxCostPerMonth, s.monthlySpend, estimated)
		s.rejectLocked(d, estimated)
		return d
	}

	if s.limits.WarnThreshold > 0 && s.limits.MaxCostPerDay > 0 &&
		s.dailySpend+estimated > s.limits.WarnThreshold*s.limits.MaxCostPerDay {
		observability.BudgetWarnings.Inc()
		s.logger.Warn("daily spend approaching budget limit",
			zap.Float64("daily_spend", s.dailySpend),
			zap.Float64("estimated_cost", estimated),
			zap.Float64("daily_limit", s.limits.MaxCostPerDay),
			zap.Float64("warn_threshold", s.limits.WarnThreshold))
	}

	return d
}

// rejectLocked logs and counts a rejection (must be called with lock held)
func (s *Service) rejectLocked(d Decision, estimated float64) {
	observability.BudgetRejections.WithLabelValues(d.ViolatedLimit).Inc()
	s.logger.Warn("budget admission rejected",
		zap.String("violated_limit", d.ViolatedLimit),
		zap.Float64("estimated_cost", estimated),
		zap.Float64("daily_spend", s.dailySpend),
		zap.Float64("monthly_spend", s.monthlySpend))
}

// Record adds the actual cost of a completed call to both windows. Only
// actual adapter-reported cost belongs here; estimates are never recorded.
func (s *Service) Record(actual float64) {
	if actual < 0 {
		s.logger.Warn("ignoring negative cost", zap.Float64("cost", actual))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeResetLocked(s.now())
	s.dailySpend += actual
	s.monthlySpend += actual
}

// Snapshot returns the current spend and window anchors
func (s *Service) Snapshot() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeResetLocked(s.now())
	return Usage{
		DailySpend:   s.dailySpend,
		MonthlySpend: s.monthlySpend,
		DayStart:     s.dayStart,
		MonthStart:   s.monthStart,
	}
}

// maybeResetLocked rolls each window forward when it has aged out (must be
// called with lock held). Each window resets independently.
func (s *Service) maybeResetLocked(now time.Time) {
	if now.Sub(s.dayStart) > dailyWindow {
		s.dailySpend = 0
		s.dayStart = now
	}
	if now.Sub(s.monthStart) > monthlyWindow {
		s.monthlySpend = 0
		s.monthStart = now
	}
}
