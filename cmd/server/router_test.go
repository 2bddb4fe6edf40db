package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlyehwallet/billing/pkg/auth"
	"github.com/rlyehwallet/billing/pkg/billing"
	"github.com/rlyehwallet/billing/pkg/httpserver"
	"github.com/rlyehwallet/billing/pkg/notifications"
	"github.com/rlyehwallet/billing/pkg/profile"
	"github.com/rlyehwallet/billing/pkg/requestid"
)

func testRouter(t *testing.T, checks map[string]httpserver.CheckFunc) http.Handler {
	t.Helper()

	provider, err := billing.NewStripeProvider(billing.StripeConfig{SecretKey: "sk_test", WebhookSecret: "whsec_test"})
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(auth.Config{JWTSecret: "secret", Audience: "authenticated"})
	require.NoError(t, err)

	return newRouter(routerDeps{
		verifier: verifier,
		billing:  billing.NewService(provider, profile.NewMemoryStore(), billing.PriceBook{}),
		inbox:    notifications.NewManager(notifications.NewMemoryStorage()),
		checks:   checks,
	})
}

func get(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter(t *testing.T) {
	t.Parallel()

	h := testRouter(t, map[string]httpserver.CheckFunc{
		"postgres": func(context.Context) error { return nil },
	})

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		rec := get(h, http.MethodGet, "/health/live", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	})

	t.Run("readiness", func(t *testing.T) {
		t.Parallel()
		rec := get(h, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("catalog is public", func(t *testing.T) {
		t.Parallel()
		rec := get(h, http.MethodGet, "/billing/products", http.Header{requestid.Header: {"req-1"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "req-1", rec.Header().Get(requestid.Header))
	})

	t.Run("anonymous portal", func(t *testing.T) {
		t.Parallel()
		rec := get(h, http.MethodPost, "/billing/portal", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()
		rec := get(h, http.MethodGet, "/billing/entitlements", http.Header{"Authorization": {"Bearer not-a-jwt"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("anonymous inbox", func(t *testing.T) {
		t.Parallel()
		rec := get(h, http.MethodGet, "/notifications/unread", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_NotReady(t *testing.T) {
	t.Parallel()

	h := testRouter(t, map[string]httpserver.CheckFunc{
		"redis": func(context.Context) error { return errors.New("down") },
	})
	rec := get(h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
