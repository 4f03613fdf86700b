package planning

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DefaultTimelineWindowDays is the half-width of the date range used when the
// caller does not supply one.
const DefaultTimelineWindowDays = 90

// TimelineRequest describes one timeline computation.
type TimelineRequest struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
	SupplierID  *int64
}

// TimelineBucketer partitions a date range into labeled periods and assigns
// purchase orders to the period containing their order date.
type TimelineBucketer struct {
	orders OrderStore
	now    func() time.Time
}

// NewTimelineBucketer constructs the bucketer.
func NewTimelineBucketer(orders OrderStore) *TimelineBucketer {
	return &TimelineBucketer{orders: orders, now: time.Now}
}

// WithNow overrides the bucketer clock for testing.
func (b *TimelineBucketer) WithNow(fn func() time.Time) {
	if fn != nil {
		b.now = fn
	}
}

// BuildTimeline partitions [req.Start, req.End] at the requested granularity
// and buckets matching orders. An empty range defaults to today +/- 90 days;
// an empty granularity defaults to month.
func (b *TimelineBucketer) BuildTimeline(ctx context.Context, req TimelineRequest) (Timeline, error) {
	if b == nil || b.orders == nil {
		return Timeline{}, ErrMissingCollaborator
	}
	if req.Granularity == "" {
		req.Granularity = GranularityMonth
	}
	switch req.Granularity {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter:
	default:
		return Timeline{}, ErrUnsupportedGranularity
	}

	today := dateOnly(b.now())
	start := dateOnly(req.Start)
	end := dateOnly(req.End)
	if req.Start.IsZero() {
		start = today.AddDate(0, 0, -DefaultTimelineWindowDays)
	}
	if req.End.IsZero() {
		end = today.AddDate(0, 0, DefaultTimelineWindowDays)
	}
	if end.Before(start) {
		start, end = end, start
	}

	periods := buildPeriods(start, end, req.Granularity)

	orders, err := b.orders.ListByDateRange(ctx, start, end, req.SupplierID)
	if err != nil {
		return Timeline{}, fmt.Errorf("planning: list orders: %w", err)
	}

	timeline := Timeline{
		Start:       start,
		End:         end,
		Granularity: req.Granularity,
	}
	supplierSet := map[string]bool{}
	for _, order := range orders {
		if order.OrderDate.IsZero() {
			timeline.Skipped++
			continue
		}
		day := dateOnly(order.OrderDate)
		assigned := false
		for i := range periods {
			if !day.Before(periods[i].Start) && !day.After(periods[i].End) {
				periods[i].Orders = append(periods[i].Orders, order)
				periods[i].Total += order.Total
				periods[i].Count++
				assigned = true
				break
			}
		}
		if !assigned {
			// Store returned an order outside the requested range.
			timeline.Skipped++
			continue
		}
		timeline.TotalAmount += order.Total
		timeline.TotalCount++
		if order.Supplier != "" {
			supplierSet[order.Supplier] = true
		}
	}

	timeline.Periods = periods
	timeline.Suppliers = make([]string, 0, len(supplierSet))
	for name := range supplierSet {
		timeline.Suppliers = append(timeline.Suppliers, name)
	}
	sort.Strings(timeline.Suppliers)
	return timeline, nil
}

// buildPeriods walks start to end emitting contiguous periods clipped to the
// range. Period bounds are inclusive dates.
func buildPeriods(start, end time.Time, granularity Granularity) []TimelinePeriod {
	var periods []TimelinePeriod
	cur := start
	for !cur.After(end) {
		var periodEnd time.Time
		var name string
		switch granularity {
		case GranularityDay:
			periodEnd = cur
			name = cur.Format("Jan 2, 2006")
		case GranularityWeek:
			// Weeks run Monday to Sunday.
			sinceMonday := (int(cur.Weekday()) + 6) % 7
			periodEnd = cur.AddDate(0, 0, 6-sinceMonday)
			year, week := cur.ISOWeek()
			name = fmt.Sprintf("Week %d, %d", week, year)
		case GranularityMonth:
			periodEnd = lastDayOfMonth(cur)
			name = cur.Format("January 2006")
		case GranularityQuarter:
			quarter := (int(cur.Month())-1)/3 + 1
			quarterEndMonth := time.Month(quarter * 3)
			periodEnd = lastDayOfMonth(time.Date(cur.Year(), quarterEndMonth, 1, 0, 0, 0, 0, cur.Location()))
			name = fmt.Sprintf("Q%d %d", quarter, cur.Year())
		}
		if periodEnd.After(end) {
			periodEnd = end
		}
		periods = append(periods, TimelinePeriod{Name: name, Start: cur, End: periodEnd})
		cur = periodEnd.AddDate(0, 0, 1)
	}
	return periods
}

func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
