package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// USER STORE (auth.UserStore interface)
// =============================================================================

// CreateUser inserts an account. Returns pos.ErrDuplicate if the username exists.
func (s *Store) CreateUser(ctx context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, name, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Name, string(u.Role), u.PasswordHash, formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return pos.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (auth.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *Store) UserByID(ctx context.Context, id string) (auth.User, error) {
	return s.getUser(ctx, "id", id)
}

// getUser looks up by a fixed column name, never caller input.
func (s *Store) getUser(ctx context.Context, column, value string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		u         auth.User
		role      string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, name, role, password_hash, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&u.ID, &u.Username, &u.Name, &role, &u.PasswordHash, &createdAt)

	if err == sql.ErrNoRows {
		return auth.User{}, pos.ErrNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	u.Role = pos.Role(role)
	u.CreatedAt, _ = parseTime(createdAt)
	return u, nil
}

// =============================================================================
// MENU STORE (catalog.Store interface)
// =============================================================================

func (s *Store) CreateItem(ctx context.Context, item catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, description, price, category, image_url, available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, nullString(item.Description), item.Price.Decimal().String(),
		item.Category, nullString(item.ImageURL), item.Available, formatTime(item.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return pos.ErrDuplicate
		}
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// ListAvailable returns items on sale in insertion order.
func (s *Store) ListAvailable(ctx context.Context) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price, category, image_url, available, created_at
		FROM menu_items
		WHERE available = TRUE
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			item        catalog.Item
			description sql.NullString
			price       string
			imageURL    sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&item.ID, &item.Name, &description, &price, &item.Category,
			&imageURL, &item.Available, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if item.Price, err = pos.ParseMoney(price); err != nil {
			return nil, fmt.Errorf("menu item %s: bad price: %w", item.ID, err)
		}
		item.Description = description.String
		item.ImageURL = imageURL.String
		item.CreatedAt, _ = parseTime(createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) CountAvailable(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM menu_items WHERE available = TRUE")
}

func (s *Store) CountItems(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM menu_items")
}

func (s *Store) count(ctx context.Context, query string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}
