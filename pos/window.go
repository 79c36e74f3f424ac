package pos

import "time"

// =============================================================================
// WINDOW - Half-open UTC interval used to bound aggregation
// =============================================================================

// Window is the half-open interval [Start, End). A zero End means unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

// Epoch is the start of the all-time window.
var Epoch = time.Unix(0, 0).UTC()

// DayWindow returns the UTC calendar day containing ref.
// The next day is computed with AddDate so month and year ends roll over.
func DayWindow(ref time.Time) Window {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// AllTime is the unbounded window starting at the Unix epoch.
func AllTime() Window {
	return Window{Start: Epoch}
}

func (w Window) Bounded() bool { return !w.End.IsZero() }

// Contains reports whether Start <= t < End.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return !w.Bounded() || t.Before(w.End)
}

// DayLabel formats the window start as YYYY-MM-DD.
func (w Window) DayLabel() string { return w.Start.UTC().Format(time.DateOnly) }
