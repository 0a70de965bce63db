package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/item-service/internal/api/dto"
	"github.com/spec-kit/item-service/internal/auth"
	"github.com/spec-kit/item-service/internal/service"
	apperrors "github.com/spec-kit/item-service/pkg/util"
)

// AuthHandler exposes the session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.SessionCookie
	logger  *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.SessionCookie, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies, logger: logger}
}

// SignUp handles POST /api/auth/sign-up.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError(details)
	}

	user, err := h.auth.Register(c.UserContext(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return apperrors.NewConflict("Username already exists")
		}
		return err
	}

	token, _, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}
	h.cookies.Attach(c, token)

	h.logger.Info("user registered", zap.String("username", user.Username))
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered",
		"user":    dto.NewUserResponse(user),
	})
}

// SignIn handles POST /api/auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError(details)
	}

	user, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredential) {
			// The two kinds are logged apart but answered alike, so a caller
			// cannot learn which field was wrong.
			h.logger.Warn("sign-in rejected",
				zap.String("username", req.Username),
				zap.String("reason", err.Error()))
			return apperrors.NewInvalidCredentials(err)
		}
		return err
	}

	token, _, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}
	h.cookies.Attach(c, token)

	h.logger.Info("user signed in", zap.String("username", user.Username))
	return c.JSON(fiber.Map{
		"message": "User signed in successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// SignOut handles POST /api/auth/sign-out.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	h.auth.SignOut(c.UserContext(), principal)
	h.cookies.Clear(c)

	h.logger.Info("user signed out")
	return c.JSON(fiber.Map{
		"message": "User signed out successfully",
	})
}
