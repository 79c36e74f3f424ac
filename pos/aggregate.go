package pos

import (
	"context"
	"sort"
)

// =============================================================================
// AGGREGATOR - Count, revenue and popularity over a window
// =============================================================================

type Aggregator struct {
	Log *Log
}

func NewAggregator(log *Log) *Aggregator {
	return &Aggregator{Log: log}
}

// Summarize scans every transaction in w.
//
// Items are ranked by total quantity, descending. Equal quantities keep the
// order in which the item name was first seen during the scan.
func (a *Aggregator) Summarize(ctx context.Context, w Window) (Summary, error) {
	txs, err := a.Log.ListInWindow(ctx, w)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Window: w, Orders: len(txs)}
	summary.Revenue, summary.PopularItems = revenueAndRanking(txs)
	return summary, nil
}

// Stats is Summarize without the ranking.
func (a *Aggregator) Stats(ctx context.Context, w Window) (Stats, error) {
	txs, err := a.Log.ListInWindow(ctx, w)
	if err != nil {
		return Stats{}, err
	}
	revenue := Money{}
	for _, tx := range txs {
		revenue = revenue.Add(tx.Total)
	}
	return Stats{Orders: len(txs), Revenue: revenue}, nil
}

func revenueAndRanking(txs []Transaction) (Money, []ItemRank) {
	revenue := Money{}
	index := make(map[string]int)
	var ranks []ItemRank

	for _, tx := range txs {
		revenue = revenue.Add(tx.Total)
		for _, li := range tx.Items {
			i, seen := index[li.Name]
			if !seen {
				i = len(ranks)
				index[li.Name] = i
				ranks = append(ranks, ItemRank{Name: li.Name})
			}
			ranks[i].Quantity += li.Quantity
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Quantity > ranks[j].Quantity
	})
	if len(ranks) > TopItemsLimit {
		ranks = ranks[:TopItemsLimit]
	}
	if ranks == nil {
		ranks = []ItemRank{}
	}
	return revenue, ranks
}
