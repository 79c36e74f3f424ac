/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Default persistence for a single-location register. One database file holds
  the sales log, the menu and the operator accounts.

INTERFACES IMPLEMENTED:
  pos.Store:        Sales log (append-only)
  catalog.Store:    Menu items
  auth.UserStore:   Operator accounts

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statement touches the transactions table.

TIMESTAMPS:
  created_at is stored as fixed-width UTC text with nanoseconds, so string
  comparison in SQL matches chronological order and the value round-trips
  exactly. seq records insertion order and breaks ties between equal
  timestamps.

MONEY:
  Stored as decimal TEXT, never REAL.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
  single connection; each pooled connection would otherwise see its own
  empty database.

USAGE:
  store, err := sqlite.New("./data/pos.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  register := pos.NewRegister(pos.NewLog(store))

SEE ALSO:
  - pos/store.go: Store interface
  - pos/store/memory.go: In-memory implementation for testing
  - store/mongo: Document-store implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/pos-engine/pos"
)

// timeLayout is fixed width so lexical order equals chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Sales (append-only log)
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		items_json TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		cash_received TEXT NOT NULL,
		change_amount TEXT NOT NULL,
		operator_id TEXT NOT NULL,
		operator_name TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Window scans and newest-first listing (hot path)
	CREATE INDEX IF NOT EXISTS idx_transactions_created_at
		ON transactions(created_at, seq);

	-- Menu
	CREATE TABLE IF NOT EXISTS menu_items (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		price TEXT NOT NULL,
		category TEXT NOT NULL,
		image_url TEXT,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_menu_items_available
		ON menu_items(available);

	-- Operator accounts
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTION STORE (pos.Store interface)
// =============================================================================

const transactionColumns = `id, items_json, total_amount, payment_method, cash_received,
	change_amount, operator_id, operator_name, status, created_at`

// lineItemRow is the items_json element.
type lineItemRow struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
}

// Append adds a transaction to the log.
func (s *Store) Append(ctx context.Context, tx pos.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]lineItemRow, len(tx.Items))
	for i, li := range tx.Items {
		rows[i] = lineItemRow{
			MenuItemID: li.MenuItemID,
			Name:       li.Name,
			Price:      li.Price.Decimal().String(),
			Quantity:   li.Quantity,
		}
	}
	itemsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}

	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		string(tx.ID),
		string(itemsJSON),
		tx.Total.Decimal().String(),
		string(tx.PaymentMethod),
		tx.CashReceived.Decimal().String(),
		tx.Change.Decimal().String(),
		tx.OperatorID,
		tx.OperatorName,
		string(tx.Status),
		formatTime(tx.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return pos.ErrDuplicate
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// ListRecent returns the newest transactions first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]pos.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC, seq ASC
		LIMIT ?`

	return s.queryTransactions(ctx, query, limit)
}

// ListInWindow returns transactions with Start <= created_at < End, oldest first.
func (s *Store) ListInWindow(ctx context.Context, w pos.Window) ([]pos.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE created_at >= ?`
	args := []any{formatTime(w.Start)}
	if w.Bounded() {
		query += ` AND created_at < ?`
		args = append(args, formatTime(w.End))
	}
	query += ` ORDER BY created_at ASC, seq ASC`

	return s.queryTransactions(ctx, query, args...)
}

// CountTransactions returns the number of recorded sales.
func (s *Store) CountTransactions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n)
	return n, err
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]pos.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []pos.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func scanTransaction(rows *sql.Rows) (pos.Transaction, error) {
	var (
		tx           pos.Transaction
		id           string
		itemsJSON    string
		total        string
		method       string
		cashReceived string
		change       string
		status       string
		createdAt    string
	)

	err := rows.Scan(
		&id, &itemsJSON, &total, &method, &cashReceived,
		&change, &tx.OperatorID, &tx.OperatorName, &status, &createdAt,
	)
	if err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.ID = pos.TransactionID(id)
	tx.PaymentMethod = pos.PaymentMethod(method)
	tx.Status = pos.Status(status)
	if tx.CreatedAt, err = parseTime(createdAt); err != nil {
		return tx, fmt.Errorf("transaction %s: bad created_at: %w", id, err)
	}
	if tx.Total, err = pos.ParseMoney(total); err != nil {
		return tx, fmt.Errorf("transaction %s: bad total: %w", id, err)
	}
	if tx.CashReceived, err = pos.ParseMoney(cashReceived); err != nil {
		return tx, fmt.Errorf("transaction %s: bad cash_received: %w", id, err)
	}
	if tx.Change, err = pos.ParseMoney(change); err != nil {
		return tx, fmt.Errorf("transaction %s: bad change: %w", id, err)
	}

	var items []lineItemRow
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return tx, fmt.Errorf("transaction %s: bad items: %w", id, err)
	}
	tx.Items = make([]pos.LineItem, len(items))
	for i, r := range items {
		price, err := pos.ParseMoney(r.Price)
		if err != nil {
			return tx, fmt.Errorf("transaction %s: bad price: %w", id, err)
		}
		tx.Items[i] = pos.LineItem{MenuItemID: r.MenuItemID, Name: r.Name, Price: price, Quantity: r.Quantity}
	}

	return tx, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
