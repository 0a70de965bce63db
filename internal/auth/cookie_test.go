package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %q cookie in response", SessionCookieName)
	return nil
}

func TestSessionCookieAttach(t *testing.T) {
	adapter := NewSessionCookie(false, 15*time.Minute)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		adapter.Attach(c, "signed-token")
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	cookie := sessionCookieFrom(t, resp)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((15 * time.Minute).Seconds()), cookie.MaxAge)
}

func TestSessionCookieSecureInProduction(t *testing.T) {
	adapter := NewSessionCookie(true, 15*time.Minute)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		adapter.Attach(c, "signed-token")
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.True(t, sessionCookieFrom(t, resp).Secure)
}

func TestSessionCookieClearMatchesAttributes(t *testing.T) {
	adapter := NewSessionCookie(false, 15*time.Minute)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		adapter.Clear(c)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	cookie := sessionCookieFrom(t, resp)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly, "clear must keep the attribute set of attach")
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.LessOrEqual(t, cookie.MaxAge, 0)
}

func TestSessionCookieRead(t *testing.T) {
	adapter := NewSessionCookie(false, 15*time.Minute)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(adapter.Read(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "raw-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", string(body))

	// absent cookie reads as empty, never an error
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}
