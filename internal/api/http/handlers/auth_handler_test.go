package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/item-service/internal/admission"
	httptransport "github.com/spec-kit/item-service/internal/api/http"
	"github.com/spec-kit/item-service/internal/api/http/handlers"
	"github.com/spec-kit/item-service/internal/auth"
	"github.com/spec-kit/item-service/internal/config"
	"github.com/spec-kit/item-service/internal/events"
	"github.com/spec-kit/item-service/internal/observability"
	"github.com/spec-kit/item-service/internal/persistence"
	"github.com/spec-kit/item-service/internal/repository"
	"github.com/spec-kit/item-service/internal/service"
)

const browserAgent = "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0"

// newTestApp assembles the service the way cmd/api does, on in-memory
// backends.
func newTestApp(t *testing.T, admissionCfg config.AdmissionConfig) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	userRepo := repository.NewMemoryUserRepository()
	itemRepo := repository.NewMemoryItemRepository()

	hasher := auth.NewPasswordHasher(10)
	tokens := auth.NewTokenManager("test-secret", 24*time.Hour)
	cookies := auth.NewSessionCookie(false, 15*time.Minute)

	authService := service.NewAuthService(userRepo, hasher, tokens, dispatcher)
	userService := service.NewUserService(userRepo)
	itemService := service.NewItemService(itemRepo)

	provider := admission.NewProvider(admission.NewMemoryCounter())
	admissionMW := admission.NewMiddleware(provider, admissionCfg, logger, metrics, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler("item-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:      handlers.NewAuthHandler(authService, cookies, logger),
		Users:     handlers.NewUsersHandler(userService),
		Items:     handlers.NewItemsHandler(itemService),
		Session:   auth.NewSessionMiddleware(tokens, cookies),
		Admission: admissionMW,
	})
	return app
}

func defaultAdmission() config.AdmissionConfig {
	return config.AdmissionConfig{WindowSeconds: 60, StandardCapacity: 100, ElevatedCapacity: 200}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderUserAgent, browserAgent)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestSignUpSignInSignOutScenario(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	// register
	resp := doJSON(t, app, http.MethodPost, "/api/auth/sign-up", map[string]any{
		"username": "alice",
		"password": "secret1",
		"role":     "standard",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "User registered", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "standard", user["role"])
	assert.NotEmpty(t, user["id"])
	assert.NotEmpty(t, user["createdAt"])

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "registration must set the session cookie")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// sign in with the wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/auth/sign-in", map[string]any{
		"username": "alice",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decode(t, resp)["error"])

	// sign in correctly
	resp = doJSON(t, app, http.MethodPost, "/api/auth/sign-in", map[string]any{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := sessionCookie(resp)
	require.NotNil(t, session)

	// sign out clears the cookie
	resp = doJSON(t, app, http.MethodPost, "/api/auth/sign-out", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User signed out successfully", decode(t, resp)["message"])

	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.LessOrEqual(t, cleared.MaxAge, 0)
}

func TestSignInUnknownHandleSameOutcome(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	resp := doJSON(t, app, http.MethodPost, "/api/auth/sign-in", map[string]any{
		"username": "nobody",
		"password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decode(t, resp)["error"])
}

func TestSignUpValidation(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	resp := doJSON(t, app, http.MethodPost, "/api/auth/sign-up", map[string]any{
		"username": "a",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Contains(t, body["details"], "username")
	assert.Contains(t, body["details"], "password")
}

func TestSignUpDuplicateUsername(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	payload := map[string]any{"username": "alice", "password": "secret1"}
	resp := doJSON(t, app, http.MethodPost, "/api/auth/sign-up", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/sign-up", payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username already exists", decode(t, resp)["error"])
}

func TestUsersEndpointRequiresElevatedRole(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	// anonymous
	resp := doJSON(t, app, http.MethodGet, "/api/users/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// standard role
	resp = doJSON(t, app, http.MethodPost, "/api/auth/sign-up", map[string]any{
		"username": "standard-user", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/users/", nil, sessionCookie(resp))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// elevated role
	resp = doJSON(t, app, http.MethodPost, "/api/auth/sign-up", map[string]any{
		"username": "admin-user", "password": "secret1", "role": "elevated",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/users/", nil, sessionCookie(resp))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var users []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Len(t, users, 2)
	for _, user := range users {
		_, exposed := user["passwordHash"]
		assert.False(t, exposed, "credential hash must not be serialized")
	}
}

func TestRateLimitOverQuota(t *testing.T) {
	cfg := config.AdmissionConfig{WindowSeconds: 60, StandardCapacity: 5, ElevatedCapacity: 20}
	app := newTestApp(t, cfg)

	for i := 0; i < cfg.StandardCapacity; i++ {
		resp := doJSON(t, app, http.MethodGet, "/api/items/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d within quota", i+1)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/items/", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Forbidden", body["error"])
	assert.Equal(t, "Too many requests", body["message"])
}

func TestBotUserAgentBlocked(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	req := httptest.NewRequest(http.MethodGet, "/api/items/", nil)
	req.Header.Set(fiber.HeaderUserAgent, "curl/8.0.1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Automated requests are not allowed", decode(t, resp)["message"])
}

func TestHealthBypassesAdmission(t *testing.T) {
	app := newTestApp(t, config.AdmissionConfig{WindowSeconds: 60, StandardCapacity: 1, ElevatedCapacity: 1})

	// no user agent and repeated calls: health must still answer
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
