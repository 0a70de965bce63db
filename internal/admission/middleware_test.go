package admission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/item-service/internal/config"
	"github.com/spec-kit/item-service/internal/observability"
)

type stubProvider struct {
	decision Decision
	err      error
	policies []Policy
}

func (s *stubProvider) Decide(_ context.Context, _ Request, policy Policy) (Decision, error) {
	s.policies = append(s.policies, policy)
	return s.decision, s.err
}

func admissionApp(provider DecisionProvider, metrics *observability.Metrics) *fiber.App {
	cfg := config.AdmissionConfig{WindowSeconds: 60, StandardCapacity: 10, ElevatedCapacity: 20}
	mw := NewMiddleware(provider, cfg, zap.NewNop(), metrics, nil)

	app := fiber.New()
	app.Use(mw.Handle)
	app.Get("/api/items", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestMiddlewareAllowsRequest(t *testing.T) {
	provider := &stubProvider{decision: Allow}
	app := admissionApp(provider, observability.NewMetrics())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareUsesStandardQuotaForAnonymous(t *testing.T) {
	provider := &stubProvider{decision: Allow}
	app := admissionApp(provider, observability.NewMetrics())

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.NoError(t, err)

	require.Len(t, provider.policies, 1)
	assert.Equal(t, 10, provider.policies[0].Capacity)
	assert.Equal(t, time.Minute, provider.policies[0].Window)
}

func TestMiddlewareDenialBodies(t *testing.T) {
	cases := []struct {
		kind    DenyKind
		message string
	}{
		{DenyBot, "Automated requests are not allowed"},
		{DenyShield, "Request blocked by security policy"},
		{DenyRateLimit, "Too many requests"},
	}

	for _, tc := range cases {
		metrics := observability.NewMetrics()
		app := admissionApp(&stubProvider{decision: Deny(tc.kind)}, metrics)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil))
		require.NoError(t, err)

		// every denial kind answers 403, rate limiting included
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "kind %s", tc.kind)
		body := decodeBody(t, resp)
		assert.Equal(t, "Forbidden", body["error"], "kind %s", tc.kind)
		assert.Equal(t, tc.message, body["message"], "kind %s", tc.kind)

		denials := metrics.Denials()
		assert.Equal(t, int64(1), denials["/api/items|"+string(tc.kind)])
	}
}

func TestMiddlewareProviderErrorIs500(t *testing.T) {
	app := admissionApp(&stubProvider{err: errors.New("backend down")}, observability.NewMetrics())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Internal server error", body["error"])
}
