/*
catalog.go - Menu items offered at the register

PURPOSE:
  The catalog is what cashiers pick from. It is not consulted when a sale is
  recorded: line items carry their own name and price, so later menu edits
  never rewrite history.

SEE ALSO:
  - pos/register.go: Submit takes prices from the candidate, not from here
  - bootstrap/seed.go: default menu
*/
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/pos-engine/pos"
)

// Item is one menu entry.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       pos.Money `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryCount is the number of available items in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Store persists menu items.
type Store interface {
	CreateItem(ctx context.Context, item Item) error
	// ListAvailable returns items with Available set, in insertion order.
	ListAvailable(ctx context.Context) ([]Item, error)
	CountAvailable(ctx context.Context) (int, error)
	CountItems(ctx context.Context) (int, error)
}

// NewItem is the input to Service.Create.
type NewItem struct {
	Name        string
	Description string
	Price       pos.Money
	Category    string
	ImageURL    string
	Available   bool
}

type Service struct {
	Store Store
	Now   func() time.Time
	NewID func() string
}

func NewService(store Store) *Service {
	return &Service{Store: store, Now: time.Now, NewID: uuid.NewString}
}

// Menu lists the items currently on sale.
func (s *Service) Menu(ctx context.Context) ([]Item, error) {
	items, err := s.Store.ListAvailable(ctx)
	if err != nil {
		return nil, &pos.StorageError{Op: "list menu", Err: err}
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Categories groups available items by category, ordered by category name.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	items, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Category]++
	}
	result := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, CategoryCount{Category: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// Create adds a menu item. Admin only.
func (s *Service) Create(ctx context.Context, actor pos.Identity, ni NewItem) (Item, error) {
	if err := pos.RequireAdmin(actor, "create menu items"); err != nil {
		return Item{}, err
	}

	item := Item{
		ID:          s.NewID(),
		Name:        strings.TrimSpace(ni.Name),
		Description: ni.Description,
		Price:       ni.Price,
		Category:    strings.TrimSpace(ni.Category),
		ImageURL:    ni.ImageURL,
		Available:   ni.Available,
		CreatedAt:   s.Now().UTC(),
	}
	if err := validateItem(item); err != nil {
		return Item{}, err
	}

	if err := s.Store.CreateItem(ctx, item); err != nil {
		return Item{}, &pos.StorageError{Op: "create menu item", Err: err}
	}
	return item, nil
}

// CountAvailable satisfies pos.MenuCounter.
func (s *Service) CountAvailable(ctx context.Context) (int, error) {
	return s.Store.CountAvailable(ctx)
}

func validateItem(item Item) error {
	switch {
	case item.Name == "":
		return &pos.ValidationError{Field: "name", Reason: "is required"}
	case item.Category == "":
		return &pos.ValidationError{Field: "category", Reason: "is required"}
	case item.Price.IsNegative():
		return &pos.ValidationError{Field: "price", Reason: fmt.Sprintf("must not be negative, got %s", item.Price)}
	}
	return nil
}
