package pos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/pos-engine/pos"
)

func TestDayWindow_MidDay(t *testing.T) {
	ref := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	w := pos.DayWindow(ref)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, "2025-03-10", w.DayLabel())
}

func TestDayWindow_MonthAndYearEnd(t *testing.T) {
	// GIVEN: the last day of a month / year
	// THEN: the window ends on the first day of the next month / year
	tests := []struct {
		ref  time.Time
		want time.Time
	}{
		{time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC), time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC), time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC), time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pos.DayWindow(tt.ref).End, "ref %s", tt.ref)
	}
}

func TestDayWindow_ConvertsToUTC(t *testing.T) {
	// 01:00 in Jakarta (UTC+7) on March 11 is still March 10 in UTC
	jakarta := time.FixedZone("WIB", 7*60*60)
	ref := time.Date(2025, time.March, 11, 1, 0, 0, 0, jakarta)

	assert.Equal(t, "2025-03-10", pos.DayWindow(ref).DayLabel())
}

func TestWindow_HalfOpen(t *testing.T) {
	w := pos.DayWindow(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	assert.True(t, w.Contains(w.Start), "start instant is included")
	assert.False(t, w.Contains(w.End), "end instant is excluded")
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}

func TestAllTime_Unbounded(t *testing.T) {
	w := pos.AllTime()

	assert.False(t, w.Bounded())
	assert.True(t, w.Contains(time.Date(2999, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(pos.Epoch))
}
