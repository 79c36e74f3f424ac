package pos

import (
	"context"
	"time"
)

// =============================================================================
// REPORTER - Today / daily / all-time views
// =============================================================================

// Reporter composes Aggregator results for dashboard callers.
//
// Every view is recomputed from the log on each request. If volume grows,
// this is the place to add a running total keyed by day.
type Reporter struct {
	Aggregator *Aggregator
	Menu       MenuCounter
	Now        func() time.Time
}

func NewReporter(agg *Aggregator, menu MenuCounter) *Reporter {
	return &Reporter{Aggregator: agg, Menu: menu, Now: time.Now}
}

// DailySummary summarizes the UTC calendar day containing ref.
func (r *Reporter) DailySummary(ctx context.Context, ref time.Time) (Summary, error) {
	w := DayWindow(ref)
	s, err := r.Aggregator.Summarize(ctx, w)
	if err != nil {
		return Summary{}, err
	}
	s.Label = w.DayLabel()
	return s, nil
}

// Today is DailySummary for the current instant.
func (r *Reporter) Today(ctx context.Context) (Summary, error) {
	return r.DailySummary(ctx, r.Now())
}

// OverallStats counts every recorded sale regardless of date.
func (r *Reporter) OverallStats(ctx context.Context) (Stats, error) {
	return r.Aggregator.Stats(ctx, AllTime())
}

// Dashboard returns today's and all-time stats plus the number of menu items on sale.
func (r *Reporter) Dashboard(ctx context.Context) (Dashboard, error) {
	today, err := r.Aggregator.Stats(ctx, DayWindow(r.Now()))
	if err != nil {
		return Dashboard{}, err
	}
	all, err := r.OverallStats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Today: today, AllTime: all}
	if r.Menu != nil {
		n, err := r.Menu.CountAvailable(ctx)
		if err != nil {
			return Dashboard{}, storageErr("count menu", err)
		}
		d.MenuItems = n
	}
	return d, nil
}
