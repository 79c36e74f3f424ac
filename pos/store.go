/*
store.go - Persistence interface for sale transactions

APPEND-ONLY CONTRACT:
  - Append(): single record write, the ONLY write operation
  - NO Update() or Delete() methods exist

ORDERING:
  ListRecent returns newest first; ListInWindow returns oldest first.
  Records with equal CreatedAt keep their insertion order in both.

ENCODING:
  Implementations own the conversion between Transaction and their storage
  format. Values handed back must compare equal (Money.Equal, time.Equal) to
  what was appended.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite (default)
  - store/mongo/mongo.go: MongoDB document store
  - pos/store/memory.go: In-memory for testing
*/
package pos

import "context"

// Store handles persistence of transactions. Append-only.
type Store interface {
	// Append persists a transaction.
	Append(ctx context.Context, tx Transaction) error

	// ListRecent returns up to limit transactions, newest first.
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)

	// ListInWindow returns every transaction with Start <= CreatedAt < End,
	// oldest first. A zero End means no upper bound.
	ListInWindow(ctx context.Context, w Window) ([]Transaction, error)
}

// MenuCounter reports how many menu items are currently on sale.
type MenuCounter interface {
	CountAvailable(ctx context.Context) (int, error)
}
