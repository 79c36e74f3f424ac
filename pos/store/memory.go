// Package store provides in-process pos.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps transactions sorted by CreatedAt; equal timestamps stay in
// insertion order.
type Memory struct {
	mu           sync.RWMutex
	transactions []pos.Transaction
	ids          map[pos.TransactionID]bool
}

func NewMemory() *Memory {
	return &Memory{ids: make(map[pos.TransactionID]bool)}
}

// Append adds a single transaction. Append-only.
func (m *Memory) Append(_ context.Context, tx pos.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ids[tx.ID] {
		return pos.ErrDuplicate
	}

	// Insert after every record with CreatedAt <= tx.CreatedAt
	i := sort.Search(len(m.transactions), func(i int) bool {
		return m.transactions[i].CreatedAt.After(tx.CreatedAt)
	})
	m.transactions = append(m.transactions, pos.Transaction{})
	copy(m.transactions[i+1:], m.transactions[i:])
	m.transactions[i] = tx.Clone()
	m.ids[tx.ID] = true
	return nil
}

func (m *Memory) ListRecent(_ context.Context, limit int) ([]pos.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]pos.Transaction, len(m.transactions))
	copy(result, m.transactions)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *Memory) ListInWindow(_ context.Context, w pos.Window) ([]pos.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []pos.Transaction
	for _, tx := range m.transactions {
		if w.Contains(tx.CreatedAt) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// Len returns the number of stored transactions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}
