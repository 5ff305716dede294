package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fbmanager/internal/database"
	"fbmanager/internal/model"
	"fbmanager/internal/ratelimit"
	"fbmanager/internal/repository"
	"fbmanager/internal/service"
	"fbmanager/internal/token"
	"fbmanager/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tokens, err := token.NewService("test-secret", "test-audience", "test-issuer")
	require.NoError(t, err)

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		tokens,
		service.NewPasswordHasher(10),
		nil,
		15*time.Minute,
		7*24*time.Hour,
	)

	loginLimiter := ratelimit.NewMemoryLimiter(ratelimit.Policy{
		Points: 5, Window: 15 * time.Minute, Block: 30 * time.Minute,
	})
	signupLimiter := ratelimit.NewMemoryLimiter(ratelimit.Policy{
		Points: 3, Window: time.Hour, Block: 24 * time.Hour,
	})

	router := gin.New()
	authHandler := NewAuthHandler(authService, tokens, loginLimiter, signupLimiter)
	authHandler.RegisterRoutes(router.Group("/api/auth"))
	return router, db
}

func doJSON(router *gin.Engine, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func signupBody(username, email string) map[string]string {
	return map[string]string{
		"fullName": "Test User",
		"username": username,
		"email":    email,
		"password": "long-enough-pw-1",
	}
}

func TestSignupEndpoint(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("carol", "carol@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	res := decodeEnvelope(t, w)
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)

	// Clients read data.user and data.token; token carries the access token.
	var signup struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.Contains(t, signup.Data, "user")
	require.NotEmpty(t, signup.Data["token"])
	assert.Equal(t, signup.Data["accessToken"], signup.Data["token"])

	// No password material may ever appear in a response.
	body := w.Body.String()
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "$2a$")
}

func TestSignupValidationError(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "No Password",
		"username": "nopw",
		"email":    "nopw@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decodeEnvelope(t, w)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.NotEmpty(t, res.Timestamp)
}

func TestSignupConflictEnvelope(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("dave", "dave@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("dave", "dave@example.com"), "")
	require.Equal(t, http.StatusConflict, w.Code)

	res := decodeEnvelope(t, w)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.NotEmpty(t, res.ErrorAr)
	assert.NotEmpty(t, res.Timestamp)
}

func TestRegisterAlias(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", signupBody("erin", "erin@example.com"), "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLoginBruteForceBoundary(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("frank", "frank@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	badLogin := map[string]string{"email": "frank@example.com", "password": "wrong-password"}
	for i := 0; i < 5; i++ {
		w = doJSON(router, http.MethodPost, "/api/auth/login", badLogin, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d should still reach the verifier", i+1)
	}

	// The sixth attempt within the window trips the block.
	w = doJSON(router, http.MethodPost, "/api/auth/login", badLogin, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Even correct credentials are rejected while blocked.
	goodLogin := map[string]string{"email": "frank@example.com", "password": "long-enough-pw-1"}
	w = doJSON(router, http.MethodPost, "/api/auth/login", goodLogin, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLoginSuccessResetsBudget(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("grace", "grace@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	badLogin := map[string]string{"email": "grace@example.com", "password": "wrong-password"}
	for i := 0; i < 4; i++ {
		w = doJSON(router, http.MethodPost, "/api/auth/login", badLogin, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	goodLogin := map[string]string{"email": "grace@example.com", "password": "long-enough-pw-1"}
	w = doJSON(router, http.MethodPost, "/api/auth/login", goodLogin, "")
	require.Equal(t, http.StatusOK, w.Code)

	// The budget is full again: five more failures before the block.
	for i := 0; i < 5; i++ {
		w = doJSON(router, http.MethodPost, "/api/auth/login", badLogin, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d after reset", i+1)
	}
	w = doJSON(router, http.MethodPost, "/api/auth/login", badLogin, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAuthFlowEndToEnd(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("heidi", "heidi@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "heidi@example.com", "password": "long-enough-pw-1"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data struct {
			User         *service.UserResponse `json:"user"`
			Token        string                `json:"token"`
			AccessToken  string                `json:"accessToken"`
			RefreshToken string                `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotNil(t, login.Data.User)
	require.NotEmpty(t, login.Data.AccessToken)
	require.NotEmpty(t, login.Data.RefreshToken)
	assert.Equal(t, login.Data.AccessToken, login.Data.Token)

	// Profile requires the access token.
	w = doJSON(router, http.MethodGet, "/api/auth/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/auth/profile", nil, login.Data.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "heidi@example.com"))

	// A refresh token is not an access token.
	w = doJSON(router, http.MethodGet, "/api/auth/profile", nil, login.Data.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	refreshBody := map[string]string{"refreshToken": login.Data.RefreshToken}
	w = doJSON(router, http.MethodPost, "/api/auth/refresh", refreshBody, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Refreshing mints a fresh access token and returns nothing else.
	var refreshed struct {
		Data struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed.Data.AccessToken)
	assert.NotEqual(t, login.Data.AccessToken, refreshed.Data.AccessToken)
	assert.Empty(t, refreshed.Data.RefreshToken)

	w = doJSON(router, http.MethodGet, "/api/auth/profile", nil, refreshed.Data.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/logout", refreshBody, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	// Revoked tokens no longer refresh.
	w = doJSON(router, http.MethodPost, "/api/auth/refresh", refreshBody, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logout stays idempotent over HTTP too.
	w = doJSON(router, http.MethodPost, "/api/auth/logout", refreshBody, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	router, db := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("judy", "judy@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var user model.User
	require.NoError(t, db.Where("email = ?", "judy@example.com").First(&user).Error)
	require.NotEmpty(t, user.EmailVerificationToken)

	w = doJSON(router, http.MethodGet, "/api/auth/verify?token="+user.EmailVerificationToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"verified":true}}`, w.Body.String())

	require.NoError(t, db.First(&user, "id = ?", user.ID).Error)
	assert.True(t, user.IsEmailVerified)
}

func TestChangePasswordEndpoint(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", signupBody("ivan", "ivan@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var signup struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))

	w = doJSON(router, http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": "not-it",
		"newPassword":     "replacement-pw-1",
	}, signup.Data.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": "long-enough-pw-1",
		"newPassword":     "replacement-pw-1",
	}, signup.Data.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"changed":true}}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "ivan@example.com", "password": "replacement-pw-1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
