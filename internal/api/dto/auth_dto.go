package dto

import (
	"time"

	"github.com/spec-kit/item-service/internal/domain"
)

// SignUpRequest payload for registration. Role is free-form on the wire;
// values outside the closed set coerce to standard at the service boundary.
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=2,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role"`
}

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Username string `json:"username" validate:"required,min=2,max=255"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the principal shape returned by auth and user endpoints.
// The credential hash never leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserResponse maps a domain user onto the wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
