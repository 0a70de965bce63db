package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-service/internal/domain"
	apperrors "github.com/spec-kit/item-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as carried through the
// request context.
type Principal struct {
	ID       string
	Username string
	Role     domain.Role
}

// SessionMiddleware resolves the session cookie into a Principal.
type SessionMiddleware struct {
	tokens  *TokenManager
	cookies *SessionCookie
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, cookies *SessionCookie) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, cookies: cookies}
}

// Resolve attaches the principal when a valid session token is presented.
// Absent or invalid tokens leave the request unauthenticated rather than
// failing it; downstream guards decide whether authentication is required,
// and admission control falls back to the standard quota.
func (m *SessionMiddleware) Resolve(c *fiber.Ctx) error {
	token := m.cookies.Read(c)
	if token == "" {
		return c.Next()
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return c.Next()
	}

	c.Locals(principalKey, &Principal{
		ID:       claims.SubjectID,
		Username: claims.Username,
		Role:     domain.ParseRole(string(claims.Role)),
	})
	return c.Next()
}

// RequireElevated guards administrative routes.
func RequireElevated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != domain.RoleElevated {
			return apperrors.NewForbidden("Operation denied")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
