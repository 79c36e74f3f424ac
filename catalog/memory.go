package catalog

import (
	"context"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	items []Item
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CreateItem(_ context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return nil
}

func (m *Memory) ListAvailable(_ context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Item
	for _, it := range m.items {
		if it.Available {
			result = append(result, it)
		}
	}
	return result, nil
}

func (m *Memory) CountAvailable(ctx context.Context) (int, error) {
	items, _ := m.ListAvailable(ctx)
	return len(items), nil
}

func (m *Memory) CountItems(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}
