package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/item-service/internal/domain"
)

type memoryItemRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Item
}

// NewMemoryItemRepository returns an empty in-memory implementation.
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{byID: make(map[string]domain.Item)}
}

func (r *memoryItemRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.byID[item.ID] = *item
	return nil
}

func (r *memoryItemRepository) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; !exists {
		return ErrItemNotFound
	}
	item.UpdatedAt = time.Now()
	r.byID[item.ID] = *item
	return nil
}

func (r *memoryItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrItemNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryItemRepository) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.byID[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

func (r *memoryItemRepository) List(_ context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.byID))
	for _, item := range r.byID {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}
