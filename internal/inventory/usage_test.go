package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	total     float64
	err       error
	lastSince time.Time
}

func (s *stubHistory) OutboundTotalSince(ctx context.Context, materialID int64, since time.Time) (float64, error) {
	s.lastSince = since
	return s.total, s.err
}

func TestDailyUsageAveragesTrailingWindow(t *testing.T) {
	history := &stubHistory{total: 60}
	estimator := NewUsageEstimator(history, 30)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	estimator.WithNow(func() time.Time { return now })

	rate, err := estimator.DailyUsage(context.Background(), 1)
	require.NoError(t, err)
	require.InDelta(t, 2.0, rate, 1e-9)
	require.Equal(t, now.AddDate(0, 0, -30), history.lastSince)
}

func TestDailyUsageFloorsAtZero(t *testing.T) {
	history := &stubHistory{total: -10}
	estimator := NewUsageEstimator(history, 30)

	rate, err := estimator.DailyUsage(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, rate)
}

func TestDailyUsageDefaultsWindow(t *testing.T) {
	history := &stubHistory{total: 30}
	estimator := NewUsageEstimator(history, 0)
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	estimator.WithNow(func() time.Time { return now })

	rate, err := estimator.DailyUsage(context.Background(), 1)
	require.NoError(t, err)
	require.InDelta(t, 1.0, rate, 1e-9)
	require.Equal(t, now.AddDate(0, 0, -DefaultUsageWindowDays), history.lastSince)
}

func TestDailyUsagePropagatesError(t *testing.T) {
	history := &stubHistory{err: errors.New("pg down")}
	estimator := NewUsageEstimator(history, 30)

	_, err := estimator.DailyUsage(context.Background(), 1)
	require.Error(t, err)
}
