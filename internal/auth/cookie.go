package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the fixed name of the session cookie.
const SessionCookieName = "token"

// SessionCookie binds signed tokens to an HTTP cookie. Its Max-Age is
// deliberately shorter than the token's own claim TTL: the cookie expiry is
// the practical session length.
type SessionCookie struct {
	secure bool
	maxAge time.Duration
}

// NewSessionCookie builds the adapter. secure should be true in
// production-like environments only.
func NewSessionCookie(secure bool, maxAge time.Duration) *SessionCookie {
	if maxAge <= 0 {
		maxAge = 15 * time.Minute
	}
	return &SessionCookie{secure: secure, maxAge: maxAge}
}

func (s *SessionCookie) cookie(value string, maxAge time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
		Path:     "/",
	}
}

// Attach sets the session cookie on the response.
func (s *SessionCookie) Attach(c *fiber.Ctx, token string) {
	c.Cookie(s.cookie(token, s.maxAge))
}

// Clear overwrites the cookie with an immediately expired one. The attribute
// set must match Attach exactly or browsers treat it as a different cookie
// and silently fail to clear it.
func (s *SessionCookie) Clear(c *fiber.Ctx) {
	cleared := s.cookie("", -time.Second)
	cleared.Expires = time.Unix(0, 0)
	c.Cookie(cleared)
}

// Read returns the raw token string, or empty when absent. Never fails.
func (s *SessionCookie) Read(c *fiber.Ctx) string {
	return c.Cookies(SessionCookieName)
}
