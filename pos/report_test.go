package pos_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pos-engine/pos"
	"github.com/warp/pos-engine/pos/store"
)

type menuCount int

func (m menuCount) CountAvailable(context.Context) (int, error) { return int(m), nil }

func newTestReporter(reg *pos.Register, clock *fixedClock, menu pos.MenuCounter) *pos.Reporter {
	rep := pos.NewReporter(pos.NewAggregator(reg.Log), menu)
	rep.Now = clock.Now
	return rep
}

func submitAt(t *testing.T, reg *pos.Register, clock *fixedClock, at time.Time, c pos.Candidate) pos.Transaction {
	t.Helper()
	clock.t = at
	tx, err := reg.Submit(context.Background(), c, cashier)
	require.NoError(t, err)
	return tx
}

// =============================================================================
// DAILY SUMMARY
// =============================================================================

func TestDailySummary_TwoSalesScenario(t *testing.T) {
	// GIVEN: sale A (2×25000 + 1×20000, cash 100000) and sale B (1×12000, cash 12000)
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)

	submitAt(t, reg, clock, march10, cash([]pos.LineItem{
		item("Nasi Goreng Seafood", 25000, 2),
		item("Soto Ayam", 20000, 1),
	}, 100000))
	submitAt(t, reg, clock, march10.Add(3*time.Hour), cash([]pos.LineItem{
		item("Tahu Gejrot", 12000, 1),
	}, 12000))

	// WHEN: summarizing that day
	s, err := rep.DailySummary(context.Background(), march10)

	// THEN: count 2, revenue 82000, 2-unit item first
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", s.Label)
	assert.Equal(t, 2, s.Orders)
	assert.True(t, s.Revenue.Equal(pos.NewMoney(82000)), "revenue %s", s.Revenue)
	require.Len(t, s.PopularItems, 3)
	assert.Equal(t, pos.ItemRank{Name: "Nasi Goreng Seafood", Quantity: 2}, s.PopularItems[0])
	assert.Equal(t, pos.ItemRank{Name: "Soto Ayam", Quantity: 1}, s.PopularItems[1])
	assert.Equal(t, pos.ItemRank{Name: "Tahu Gejrot", Quantity: 1}, s.PopularItems[2])
}

func TestDailySummary_WindowIsHalfOpen(t *testing.T) {
	// GIVEN: one sale exactly at midnight starting the day, one exactly at the next midnight
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)
	w := pos.DayWindow(march10)

	submitAt(t, reg, clock, w.Start, cash([]pos.LineItem{item("Included", 1000, 1)}, 1000))
	submitAt(t, reg, clock, w.End, cash([]pos.LineItem{item("Excluded", 2000, 1)}, 2000))

	s, err := rep.DailySummary(context.Background(), march10)

	require.NoError(t, err)
	assert.Equal(t, 1, s.Orders)
	assert.True(t, s.Revenue.Equal(pos.NewMoney(1000)))
	require.Len(t, s.PopularItems, 1)
	assert.Equal(t, "Included", s.PopularItems[0].Name)

	next, err := rep.DailySummary(context.Background(), w.End)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Orders)
	assert.Equal(t, "Excluded", next.PopularItems[0].Name)
}

func TestDailySummary_MonthEnd(t *testing.T) {
	// A sale late on Jan 31 is counted on Jan 31, one early Feb 1 on Feb 1
	jan31 := time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)
	reg, _, clock := newTestRegister(jan31)
	rep := newTestReporter(reg, clock, nil)

	submitAt(t, reg, clock, jan31, cash([]pos.LineItem{item("A", 1000, 1)}, 1000))
	submitAt(t, reg, clock, jan31.Add(2*time.Hour), cash([]pos.LineItem{item("B", 1000, 1)}, 1000))

	s, err := rep.DailySummary(context.Background(), jan31)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Orders)
	assert.Equal(t, "2025-01-31", s.Label)
}

func TestDailySummary_TopFiveWithFirstSeenTieBreak(t *testing.T) {
	// GIVEN: seven items; five tie at quantity 1 and are seen in order C, D, E, F, G
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)

	submitAt(t, reg, clock, march10, cash([]pos.LineItem{
		item("C", 100, 1), item("A", 100, 3), item("D", 100, 1),
	}, 10000))
	submitAt(t, reg, clock, march10.Add(time.Minute), cash([]pos.LineItem{
		item("E", 100, 1), item("B", 100, 2), item("F", 100, 1), item("G", 100, 1),
	}, 10000))

	s, err := rep.DailySummary(context.Background(), march10)

	// THEN: A(3), B(2), then the first three single-unit items in first-seen order
	require.NoError(t, err)
	require.Len(t, s.PopularItems, pos.TopItemsLimit)
	names := make([]string, len(s.PopularItems))
	for i, r := range s.PopularItems {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names)
}

func TestDailySummary_QuantitiesAccumulateAcrossSales(t *testing.T) {
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)

	submitAt(t, reg, clock, march10, cash([]pos.LineItem{item("Es Teh Manis", 5000, 1)}, 5000))
	submitAt(t, reg, clock, march10.Add(time.Minute), cash([]pos.LineItem{item("Es Teh Manis", 5000, 3)}, 15000))

	s, err := rep.DailySummary(context.Background(), march10)
	require.NoError(t, err)
	assert.Equal(t, []pos.ItemRank{{Name: "Es Teh Manis", Quantity: 4}}, s.PopularItems)
}

func TestDailySummary_EmptyDay(t *testing.T) {
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)

	s, err := rep.DailySummary(context.Background(), march10)

	require.NoError(t, err)
	assert.Equal(t, 0, s.Orders)
	assert.True(t, s.Revenue.IsZero())
	assert.NotNil(t, s.PopularItems)
	assert.Empty(t, s.PopularItems)
}

func TestToday_UsesClock(t *testing.T) {
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)
	submitAt(t, reg, clock, march10, cash([]pos.LineItem{item("A", 1000, 1)}, 1000))

	clock.t = march10.Add(24 * time.Hour)
	s, err := rep.Today(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", s.Label)
	assert.Equal(t, 0, s.Orders)
}

// =============================================================================
// OVERALL STATS / DASHBOARD
// =============================================================================

func TestOverallStats_SumsEverySale(t *testing.T) {
	// GIVEN: sales spread across months and years
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, nil)

	times := []time.Time{
		time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, time.February, 29, 10, 0, 0, 0, time.UTC),
		march10,
		march10.Add(48 * time.Hour),
	}
	expected := pos.Money{}
	for i, at := range times {
		tx := submitAt(t, reg, clock, at, cash([]pos.LineItem{item("A", int64(1000*(i+1)), i+1)}, 100000))
		expected = expected.Add(tx.Total)
	}

	stats, err := rep.OverallStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, len(times), stats.Orders)
	assert.True(t, stats.Revenue.Equal(expected), "revenue %s want %s", stats.Revenue, expected)
}

func TestDashboard_TodayAllTimeAndMenu(t *testing.T) {
	reg, _, clock := newTestRegister(march10)
	rep := newTestReporter(reg, clock, menuCount(12))

	submitAt(t, reg, clock, march10.Add(-24*time.Hour), cash([]pos.LineItem{item("A", 5000, 1)}, 5000))
	submitAt(t, reg, clock, march10, cash([]pos.LineItem{item("B", 7000, 2)}, 20000))

	d, err := rep.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, d.Today.Orders)
	assert.True(t, d.Today.Revenue.Equal(pos.NewMoney(14000)))
	assert.Equal(t, 2, d.AllTime.Orders)
	assert.True(t, d.AllTime.Revenue.Equal(pos.NewMoney(19000)))
	assert.Equal(t, 12, d.MenuItems)
}

func TestReports_PropagateStorageError(t *testing.T) {
	log := pos.NewLog(failingStore{err: errors.New("connection refused")})
	rep := pos.NewReporter(pos.NewAggregator(log), nil)

	_, err := rep.Today(context.Background())
	assert.ErrorIs(t, err, pos.ErrStorage)

	_, err = rep.OverallStats(context.Background())
	assert.ErrorIs(t, err, pos.ErrStorage)

	_, err = rep.Dashboard(context.Background())
	assert.ErrorIs(t, err, pos.ErrStorage)
}

// =============================================================================
// LOG ORDERING / ROUND TRIP
// =============================================================================

func TestListRecent_NewestFirstWithInsertionTieBreak(t *testing.T) {
	reg, _, clock := newTestRegister(march10)

	first := submitAt(t, reg, clock, march10, cash([]pos.LineItem{item("A", 1000, 1)}, 1000))
	second := submitAt(t, reg, clock, march10, cash([]pos.LineItem{item("B", 1000, 1)}, 1000))
	newest := submitAt(t, reg, clock, march10.Add(time.Second), cash([]pos.LineItem{item("C", 1000, 1)}, 1000))
	oldest := submitAt(t, reg, clock, march10.Add(-time.Hour), cash([]pos.LineItem{item("D", 1000, 1)}, 1000))

	recent, err := reg.Log.ListRecent(context.Background(), 10)
	require.NoError(t, err)

	ids := []pos.TransactionID{recent[0].ID, recent[1].ID, recent[2].ID, recent[3].ID}
	assert.Equal(t, []pos.TransactionID{newest.ID, first.ID, second.ID, oldest.ID}, ids)

	limited, err := reg.Log.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListRecent_DefaultLimit(t *testing.T) {
	mem := store.NewMemory()
	reg := pos.NewRegister(pos.NewLog(mem))
	for i := 0; i < pos.DefaultRecentLimit+5; i++ {
		_, err := reg.Submit(context.Background(), cash([]pos.LineItem{item("A", 100, 1)}, 100), cashier)
		require.NoError(t, err)
	}

	recent, err := reg.Log.ListRecent(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, recent, pos.DefaultRecentLimit)
}

func TestListRecent_MonetaryFieldsRoundTrip(t *testing.T) {
	reg, _, _ := newTestRegister(march10)
	submitted, err := reg.Submit(context.Background(), pos.Candidate{
		Items:        []pos.LineItem{{Name: "Kopi", Price: pos.MustParseMoney("7000.50"), Quantity: 3}},
		CashReceived: pos.MustParseMoney("25000.25"),
	}, cashier)
	require.NoError(t, err)

	recent, err := reg.Log.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	got := recent[0]

	for _, pair := range [][2]pos.Money{
		{submitted.Total, got.Total},
		{submitted.CashReceived, got.CashReceived},
		{submitted.Change, got.Change},
		{submitted.Items[0].Price, got.Items[0].Price},
	} {
		a, _ := json.Marshal(pair[0])
		b, _ := json.Marshal(pair[1])
		assert.Equal(t, string(a), string(b))
	}
}

func TestOverallStats_ConcurrentSubmits(t *testing.T) {
	// GIVEN: concurrent submissions against one in-memory log
	reg, mem, _ := newTestRegister(march10)
	rep := pos.NewReporter(pos.NewAggregator(reg.Log), nil)
	ctx := context.Background()

	const workers = 16
	totals := make([]pos.Money, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			tx, err := reg.Submit(ctx, cash([]pos.LineItem{item("Es Cendol", 8000, w+1)}, 200000), cashier)
			if assert.NoError(t, err) {
				totals[w] = tx.Total
			}
		}(w)
	}
	wg.Wait()

	// THEN: all-time stats equal the sum of every returned total
	want := pos.Money{}
	for _, total := range totals {
		want = want.Add(total)
	}
	stats, err := rep.OverallStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, workers, stats.Orders)
	assert.Equal(t, workers, mem.Len())
	assert.True(t, stats.Revenue.Equal(want), "revenue %s want %s", stats.Revenue, want)
	assert.True(t, want.Equal(pos.NewMoney(8000*workers*(workers+1)/2)))
}
