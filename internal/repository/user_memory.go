package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/item-service/internal/domain"
)

// memoryUserRepository is the canonical in-process store. Username
// uniqueness is enforced under the same lock as the insert, so concurrent
// registrations of one handle cannot both succeed.
type memoryUserRepository struct {
	mu     sync.RWMutex
	byID   map[string]domain.User
	byName map[string]string
}

// NewMemoryUserRepository returns an empty in-memory implementation.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:   make(map[string]domain.User),
		byName: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return ErrDuplicateUsername
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byName[user.Username] = user.ID
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[user.ID]
	if !exists {
		return ErrUserNotFound
	}
	if current.Username != user.Username {
		if _, taken := r.byName[user.Username]; taken {
			return ErrDuplicateUsername
		}
		delete(r.byName, current.Username)
		r.byName[user.Username] = user.ID
	}

	user.UpdatedAt = time.Now()
	r.byID[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byName, user.Username)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.byID[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byName[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
