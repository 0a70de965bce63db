package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-service/internal/api/dto"
	"github.com/spec-kit/item-service/internal/service"
	apperrors "github.com/spec-kit/item-service/pkg/util"
)

// UsersHandler exposes administrative CRUD over principals.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapUserError(err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError(details)
	}

	user, err := h.users.UpdateUsername(c.UserContext(), c.Params("id"), req.Username)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return apperrors.NewConflict("Username already exists")
		}
		return mapUserError(err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := h.users.DeleteUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapUserError(err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func mapUserError(err error) error {
	if errors.Is(err, service.ErrUserNotFound) {
		return apperrors.NewNotFound("User")
	}
	return err
}
