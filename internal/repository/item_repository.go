package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/item-service/internal/domain"
)

// ErrItemNotFound is returned when no item matches the lookup.
var ErrItemNotFound = errors.New("item not found")

// ItemRepository defines persistence access for items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
}
