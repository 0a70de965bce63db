package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spec-kit/item-service/internal/domain"
	"github.com/spec-kit/item-service/internal/repository"
)

// ErrItemNotFound is the service-level miss for items.
var ErrItemNotFound = errors.New("item not found")

// ItemService exposes CRUD over items.
type ItemService struct {
	items repository.ItemRepository
}

// NewItemService builds the service.
func NewItemService(items repository.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// CreateItem stores a new item with a server-assigned id.
func (s *ItemService) CreateItem(ctx context.Context, name, description string) (*domain.Item, error) {
	item := &domain.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items.
func (s *ItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.items.List(ctx)
}

// GetItem returns one item by id.
func (s *ItemService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// UpdateItem replaces the mutable fields of an item.
func (s *ItemService) UpdateItem(ctx context.Context, id, name, description string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	item.Name = name
	item.Description = description
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item.
func (s *ItemService) DeleteItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return nil, err
	}
	return item, nil
}
