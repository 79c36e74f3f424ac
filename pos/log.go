/*
log.go - Append-only transaction log

PURPOSE:
  The Log is the source of truth for every recorded sale. Reports are always
  derived by scanning it; there is no running total that can drift.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete.
  2. IMMUTABLE: Callers receive copies; the stored record is never exposed.
  3. NO RETRIES: store failures surface as *StorageError, the caller decides.
*/
package pos

import "context"

const (
	// DefaultRecentLimit is used when ListRecent is called with limit <= 0.
	DefaultRecentLimit = 50

	// MaxRecentLimit caps ListRecent.
	MaxRecentLimit = 1000
)

// Log is the transaction log used by the register and the aggregator.
type Log struct {
	Store Store
}

func NewLog(store Store) *Log {
	return &Log{Store: store}
}

func (l *Log) Append(ctx context.Context, tx Transaction) error {
	return storageErr("append", l.Store.Append(ctx, tx.Clone()))
}

// ListRecent returns the newest transactions, bounded to limit.
func (l *Log) ListRecent(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	txs, err := l.Store.ListRecent(ctx, limit)
	if err != nil {
		return nil, storageErr("list recent", err)
	}
	return cloneAll(txs), nil
}

// ListInWindow returns all transactions inside w.
// No upper bound on result size: acceptable for a single location.
func (l *Log) ListInWindow(ctx context.Context, w Window) ([]Transaction, error) {
	txs, err := l.Store.ListInWindow(ctx, w)
	if err != nil {
		return nil, storageErr("list window", err)
	}
	return cloneAll(txs), nil
}

func cloneAll(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx.Clone()
	}
	return out
}
