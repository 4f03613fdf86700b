package inventory

import (
	"context"
	"time"
)

// DefaultUsageWindowDays is the trailing window used to estimate consumption.
const DefaultUsageWindowDays = 30

// UsageHistoryPort exposes the outbound history query the estimator needs.
type UsageHistoryPort interface {
	OutboundTotalSince(ctx context.Context, materialID int64, since time.Time) (float64, error)
}

// UsageEstimator derives average daily consumption from transaction history.
type UsageEstimator struct {
	history    UsageHistoryPort
	windowDays int
	now        func() time.Time
}

// NewUsageEstimator constructs the estimator. windowDays <= 0 falls back to
// DefaultUsageWindowDays.
func NewUsageEstimator(history UsageHistoryPort, windowDays int) *UsageEstimator {
	if windowDays <= 0 {
		windowDays = DefaultUsageWindowDays
	}
	return &UsageEstimator{history: history, windowDays: windowDays, now: time.Now}
}

// WithNow overrides the estimator clock for testing.
func (e *UsageEstimator) WithNow(fn func() time.Time) {
	if fn != nil {
		e.now = fn
	}
}

// DailyUsage returns estimated units consumed per day over the trailing
// window, floored at zero. A material with no history yields zero.
func (e *UsageEstimator) DailyUsage(ctx context.Context, materialID int64) (float64, error) {
	since := e.now().AddDate(0, 0, -e.windowDays)
	total, err := e.history.OutboundTotalSince(ctx, materialID, since)
	if err != nil {
		return 0, err
	}
	rate := total / float64(e.windowDays)
	if rate < 0 {
		rate = 0
	}
	return rate, nil
}
