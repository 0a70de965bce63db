package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/item-service/internal/auth"
	"github.com/spec-kit/item-service/internal/domain"
	"github.com/spec-kit/item-service/internal/events"
	"github.com/spec-kit/item-service/internal/repository"
)

// The two authentication failure kinds stay distinguishable here for
// logging; the HTTP layer collapses both into one 401 so a caller cannot
// probe which field was wrong.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid password")
	ErrUsernameTaken     = errors.New("username already exists")
)

// AuthService coordinates registration and sign-in flows.
type AuthService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, dispatcher: dispatcher}
}

// Register creates a new principal. The duplicate check runs before hashing
// so a taken username costs no bcrypt work. A role outside the closed set
// coerces to standard.
func (s *AuthService) Register(ctx context.Context, username, password string, role string) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.ParseRole(role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Username: user.Username,
		Role:     user.Role,
	})
	return user, nil
}

// Authenticate verifies credentials and returns the principal.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredential
	}

	s.publish(ctx, events.EventUserSignedIn, user.ID, events.UserSignedInPayload{
		Username: user.Username,
		Role:     user.Role,
	})
	return user, nil
}

// IssueToken signs a session token for the principal.
func (s *AuthService) IssueToken(user *domain.User) (string, time.Time, error) {
	return s.tokens.Sign(user.ID, user.Username, user.Role)
}

// SignOut records the sign-out; session invalidation itself is cookie
// clearing, there is no server-side revocation.
func (s *AuthService) SignOut(ctx context.Context, principal *auth.Principal) {
	if principal == nil {
		return
	}
	s.publish(ctx, events.EventUserSignedOut, principal.ID, nil)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
