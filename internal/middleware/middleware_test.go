package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fbmanager/internal/access"
	"fbmanager/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGate(t *testing.T) (*gin.Engine, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewService("test-secret", "test-audience", "test-issuer")
	require.NoError(t, err)

	evaluator, err := access.NewEvaluator(access.DefaultRules())
	require.NoError(t, err)

	router := gin.New()
	router.Use(AccessControl(tokens, evaluator))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/health", ok)
	router.GET("/api/pages", ok)
	router.GET("/api/analytics/pages/123", ok)
	router.GET("/api/admin/users", ok)
	router.GET("/api/unlisted/thing", ok)
	return router, tokens
}

func issueAccess(t *testing.T, tokens *token.Service, role, subscription string) string {
	t.Helper()
	signed, err := tokens.Issue(token.Payload{
		UserID:       "7e0a1f3c-0000-0000-0000-000000000001",
		Email:        "gate@example.com",
		Role:         role,
		Subscription: subscription,
	}, time.Minute)
	require.NoError(t, err)
	return signed
}

func get(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAccessControlTiers(t *testing.T) {
	router, tokens := setupGate(t)

	freeUser := issueAccess(t, tokens, "user", "free")
	premiumUser := issueAccess(t, tokens, "user", "premium")
	admin := issueAccess(t, tokens, "admin", "free")
	premiumAdmin := issueAccess(t, tokens, "admin", "premium")

	cases := []struct {
		name   string
		path   string
		bearer string
		want   int
	}{
		{"public path anonymous", "/health", "", http.StatusOK},
		{"free path anonymous", "/api/pages", "", http.StatusUnauthorized},
		{"free path free user", "/api/pages", freeUser, http.StatusOK},
		{"premium path free user", "/api/analytics/pages/123", freeUser, http.StatusForbidden},
		{"premium path premium user", "/api/analytics/pages/123", premiumUser, http.StatusOK},
		{"premium path admin", "/api/analytics/pages/123", admin, http.StatusOK},
		{"admin path premium user", "/api/admin/users", premiumUser, http.StatusForbidden},
		{"admin path admin", "/api/admin/users", admin, http.StatusOK},
		// A premium subscription takes over as the effective role, so even
		// an admin account loses admin paths while subscribed.
		{"admin path premium admin", "/api/admin/users", premiumAdmin, http.StatusForbidden},
		{"unlisted path anonymous", "/api/unlisted/thing", "", http.StatusOK},
		{"unlisted path free user", "/api/unlisted/thing", freeUser, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(router, tc.path, tc.bearer)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAccessControlIgnoresBadToken(t *testing.T) {
	router, _ := setupGate(t)

	// A garbage token downgrades the caller to anonymous instead of failing
	// the request outright.
	w := get(router, "/health", "not-a-token")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/api/pages", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessControlRejectsRefreshTokenIdentity(t *testing.T) {
	router, tokens := setupGate(t)

	refresh, err := tokens.Issue(token.Payload{
		UserID: "7e0a1f3c-0000-0000-0000-000000000001",
		Role:   "user",
		Type:   token.TypeRefresh,
	}, time.Minute)
	require.NoError(t, err)

	w := get(router, "/api/pages", refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthDistinguishesExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewService("test-secret", "test-audience", "test-issuer")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", RequireAuth(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	expired, err := tokens.Issue(token.Payload{UserID: "u1", Role: "user"}, -time.Minute)
	require.NoError(t, err)

	w := get(router, "/private", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")

	w = get(router, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid")

	valid, err := tokens.Issue(token.Payload{UserID: "u1", Role: "user"}, time.Minute)
	require.NoError(t, err)
	w = get(router, "/private", valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}
