package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/item-service/internal/domain"
)

// ErrDuplicateUsername is returned by Create when the username is taken.
// The check is case-sensitive exact match.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence access for principals. Implementations
// must guarantee that GetByUsername reflects all prior Creates from the same
// process instance.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
