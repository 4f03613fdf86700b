package planning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryOrderStore struct {
	orders     []PurchaseOrderSummary
	open       map[int64]float64
	listErr    error
	listCalls  int
	lastStart  time.Time
	lastEnd    time.Time
	lastSuppID *int64
}

func (s *memoryOrderStore) ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrderSummary, error) {
	s.listCalls++
	s.lastStart = start
	s.lastEnd = end
	s.lastSuppID = supplierID
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]PurchaseOrderSummary(nil), s.orders...), nil
}

func (s *memoryOrderStore) OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error) {
	return s.open[materialID], nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildTimelineMonthlyBuckets(t *testing.T) {
	store := &memoryOrderStore{orders: []PurchaseOrderSummary{
		{ID: 1, Supplier: "Wickett & Craig", OrderDate: day(2025, 1, 15), Total: 480},
		{ID: 2, Supplier: "Buckleguy", OrderDate: day(2025, 1, 31), Total: 120},
		{ID: 3, Supplier: "Wickett & Craig", OrderDate: day(2025, 3, 2), Total: 300},
	}}
	bucketer := NewTimelineBucketer(store)

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2025, 1, 1),
		End:         day(2025, 3, 31),
		Granularity: GranularityMonth,
	})
	require.NoError(t, err)
	require.Len(t, timeline.Periods, 3)
	require.Equal(t, "January 2025", timeline.Periods[0].Name)
	require.Equal(t, "February 2025", timeline.Periods[1].Name)
	require.Equal(t, "March 2025", timeline.Periods[2].Name)

	require.Equal(t, 2, timeline.Periods[0].Count)
	require.InDelta(t, 600.0, timeline.Periods[0].Total, 1e-9)
	require.Equal(t, 0, timeline.Periods[1].Count)
	require.Equal(t, 1, timeline.Periods[2].Count)

	require.Equal(t, 3, timeline.TotalCount)
	require.InDelta(t, 900.0, timeline.TotalAmount, 1e-9)
	require.Equal(t, []string{"Buckleguy", "Wickett & Craig"}, timeline.Suppliers)
	require.Equal(t, 0, timeline.Skipped)
}

func TestBuildTimelineWeeksRunMondayToSunday(t *testing.T) {
	bucketer := NewTimelineBucketer(&memoryOrderStore{})

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2025, 1, 1), // Wednesday
		End:         day(2025, 1, 14),
		Granularity: GranularityWeek,
	})
	require.NoError(t, err)
	require.Len(t, timeline.Periods, 3)

	// First partial week clips at the Sunday.
	require.Equal(t, "Week 1, 2025", timeline.Periods[0].Name)
	require.Equal(t, day(2025, 1, 1), timeline.Periods[0].Start)
	require.Equal(t, day(2025, 1, 5), timeline.Periods[0].End)

	require.Equal(t, "Week 2, 2025", timeline.Periods[1].Name)
	require.Equal(t, day(2025, 1, 6), timeline.Periods[1].Start)
	require.Equal(t, day(2025, 1, 12), timeline.Periods[1].End)

	// Last week clips at the requested end date.
	require.Equal(t, day(2025, 1, 13), timeline.Periods[2].Start)
	require.Equal(t, day(2025, 1, 14), timeline.Periods[2].End)
}

func TestBuildTimelineLeapFebruary(t *testing.T) {
	bucketer := NewTimelineBucketer(&memoryOrderStore{})

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2024, 2, 1),
		End:         day(2024, 3, 31),
		Granularity: GranularityMonth,
	})
	require.NoError(t, err)
	require.Len(t, timeline.Periods, 2)
	require.Equal(t, day(2024, 2, 29), timeline.Periods[0].End)
	require.Equal(t, day(2024, 3, 1), timeline.Periods[1].Start)
}

func TestBuildTimelineQuarters(t *testing.T) {
	bucketer := NewTimelineBucketer(&memoryOrderStore{})

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2025, 10, 1),
		End:         day(2025, 12, 31),
		Granularity: GranularityQuarter,
	})
	require.NoError(t, err)
	require.Len(t, timeline.Periods, 1)
	require.Equal(t, "Q4 2025", timeline.Periods[0].Name)
	require.Equal(t, day(2025, 12, 31), timeline.Periods[0].End)
}

func TestBuildTimelineDayBuckets(t *testing.T) {
	bucketer := NewTimelineBucketer(&memoryOrderStore{})

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2025, 6, 1),
		End:         day(2025, 6, 3),
		Granularity: GranularityDay,
	})
	require.NoError(t, err)
	require.Len(t, timeline.Periods, 3)
	require.Equal(t, "Jun 1, 2025", timeline.Periods[0].Name)
	require.Equal(t, timeline.Periods[0].Start, timeline.Periods[0].End)
}

func TestBuildTimelineDefaultRange(t *testing.T) {
	store := &memoryOrderStore{}
	bucketer := NewTimelineBucketer(store)
	bucketer.WithNow(func() time.Time { return day(2025, 6, 15) })

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{})
	require.NoError(t, err)
	require.Equal(t, GranularityMonth, timeline.Granularity)
	require.Equal(t, day(2025, 3, 17), timeline.Start)
	require.Equal(t, day(2025, 9, 13), timeline.End)
	require.Equal(t, timeline.Start, store.lastStart)
	require.Equal(t, timeline.End, store.lastEnd)
}

func TestBuildTimelineSwapsReversedRange(t *testing.T) {
	bucketer := NewTimelineBucketer(&memoryOrderStore{})

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2025, 3, 31),
		End:         day(2025, 1, 1),
		Granularity: GranularityMonth,
	})
	require.NoError(t, err)
	require.Equal(t, day(2025, 1, 1), timeline.Start)
	require.Equal(t, day(2025, 3, 31), timeline.End)
}

func TestBuildTimelineSkipsUnplaceableOrders(t *testing.T) {
	store := &memoryOrderStore{orders: []PurchaseOrderSummary{
		{ID: 1, Supplier: "Buckleguy", OrderDate: day(2025, 1, 10), Total: 50},
		{ID: 2, Supplier: "Buckleguy", Total: 75},                            // zero date
		{ID: 3, Supplier: "Buckleguy", OrderDate: day(2026, 1, 1), Total: 9}, // outside range
	}}
	bucketer := NewTimelineBucketer(store)

	timeline, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{
		Start:       day(2025, 1, 1),
		End:         day(2025, 1, 31),
		Granularity: GranularityMonth,
	})
	require.NoError(t, err)
	require.Equal(t, 2, timeline.Skipped)
	require.Equal(t, 1, timeline.TotalCount)
	require.InDelta(t, 50.0, timeline.TotalAmount, 1e-9)
}

func TestBuildTimelineUnsupportedGranularity(t *testing.T) {
	bucketer := NewTimelineBucketer(&memoryOrderStore{})

	_, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{Granularity: "year"})
	require.ErrorIs(t, err, ErrUnsupportedGranularity)
}

func TestBuildTimelineMissingStore(t *testing.T) {
	bucketer := NewTimelineBucketer(nil)

	_, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{})
	require.ErrorIs(t, err, ErrMissingCollaborator)
}

func TestBuildTimelinePropagatesStoreError(t *testing.T) {
	store := &memoryOrderStore{listErr: errors.New("pg down")}
	bucketer := NewTimelineBucketer(store)

	_, err := bucketer.BuildTimeline(context.Background(), TimelineRequest{Granularity: GranularityDay, Start: day(2025, 1, 1), End: day(2025, 1, 2)})
	require.Error(t, err)
}
