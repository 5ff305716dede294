package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fbmanager/internal/database"
	"fbmanager/internal/model"
	"fbmanager/internal/repository"
	"fbmanager/internal/token"
	"fbmanager/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestAuthService(t *testing.T) (AuthService, *token.Service, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	tokens, err := token.NewService("test-secret", "test-audience", "test-issuer")
	require.NoError(t, err)

	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		tokens,
		NewPasswordHasher(10),
		nil, // no mailer in tests
		15*time.Minute,
		7*24*time.Hour,
	)
	return svc, tokens, db
}

func signupAlice(t *testing.T, svc AuthService) *AuthResponse {
	t.Helper()

	res, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Alice Smith",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse-9",
	})
	require.NoError(t, err)
	return res
}

func TestSignupIssuesVerifiableAccessToken(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)

	res := signupAlice(t, svc)

	require.NotNil(t, res.User)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "user", res.User.Role)
	assert.Equal(t, "free", res.User.Subscription)
	assert.False(t, res.User.IsEmailVerified)
	assert.Empty(t, res.RefreshToken)

	claims, err := tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.UserID)
	assert.Empty(t, claims.Type)
}

func TestSignupNormalizesCase(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	res, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Bob Jones",
		Username: "BobJones",
		Email:    "Bob@Example.COM",
		Password: "super-secret-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bobjones", res.User.Username)
	assert.Equal(t, "bob@example.com", res.User.Email)

	// Login with the original casing still resolves the account.
	_, err = svc.Login(context.Background(), LoginRequest{Email: "BOB@example.com", Password: "super-secret-1"})
	assert.NoError(t, err)
}

func TestSignupRejectsBadUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Eve",
		Username: "eve with spaces",
		Email:    "eve@example.com",
		Password: "some-password-1",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	signupAlice(t, svc)

	_, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Alice Clone",
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another-pass-1",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.NotEmpty(t, appErr.MessageAr)
}

func TestSignupDuplicateUsernameConflicts(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	signupAlice(t, svc)

	_, err := svc.Signup(context.Background(), SignupRequest{
		FullName: "Other Alice",
		Username: "Alice",
		Email:    "other@example.com",
		Password: "another-pass-1",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestLoginSelectsAccountByAnyIdentifier(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	signupAlice(t, svc)

	cases := []struct {
		name string
		req  LoginRequest
	}{
		{"by email", LoginRequest{Email: "alice@example.com", Password: "correct-horse-9"}},
		{"by username", LoginRequest{Username: "alice", Password: "correct-horse-9"}},
		{"identifier with at sign", LoginRequest{Identifier: "alice@example.com", Password: "correct-horse-9"}},
		{"identifier without at sign", LoginRequest{Identifier: "alice", Password: "correct-horse-9"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tc.req)
			require.NoError(t, err)
			assert.NotEmpty(t, res.AccessToken)
			assert.NotEmpty(t, res.RefreshToken)
		})
	}
}

func TestLoginFailsUniformly(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	signupAlice(t, svc)

	// Unknown account and wrong password must be indistinguishable.
	_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever-123"})
	_, errWrongPw := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong-password"})

	appErr1, ok := apperrors.As(errUnknown)
	require.True(t, ok)
	appErr2, ok := apperrors.As(errWrongPw)
	require.True(t, ok)

	assert.Equal(t, apperrors.CodeUnauthorized, appErr1.Code)
	assert.Equal(t, appErr1.Message, appErr2.Message)
}

func TestRefreshIssuesAccessOnly(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)
	signupAlice(t, svc)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "correct-horse-9"})
	require.NoError(t, err)

	refreshClaims, err := tokens.Verify(login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, token.TypeRefresh, refreshClaims.Type)

	res, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Empty(t, res.RefreshToken)

	claims, err := tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Empty(t, claims.Type)

	// The original refresh token is still usable.
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	res := signupAlice(t, svc)

	_, err := svc.Refresh(context.Background(), res.AccessToken)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	signupAlice(t, svc)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "correct-horse-9"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

	// Logging out twice is not an error.
	assert.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
}

func TestLogoutKeepsOtherSessions(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	signupAlice(t, svc)

	laptop, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "correct-horse-9"})
	require.NoError(t, err)
	phone, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "correct-horse-9"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), laptop.RefreshToken))

	_, err = svc.Refresh(context.Background(), phone.RefreshToken)
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	res := signupAlice(t, svc)
	userID := res.User.ID.String()

	err := svc.ChangePassword(context.Background(), userID, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "brand-new-pass-1",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

	require.NoError(t, svc.ChangePassword(context.Background(), userID, ChangePasswordRequest{
		CurrentPassword: "correct-horse-9",
		NewPassword:     "brand-new-pass-1",
	}))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "correct-horse-9"})
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "brand-new-pass-1"})
	assert.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	svc, _, db := newTestAuthService(t)
	res := signupAlice(t, svc)

	var user model.User
	require.NoError(t, db.First(&user, "email = ?", res.User.Email).Error)
	require.NotEmpty(t, user.EmailVerificationToken)

	require.NoError(t, svc.VerifyEmail(context.Background(), user.EmailVerificationToken))

	profile, err := svc.Profile(context.Background(), res.User.ID.String())
	require.NoError(t, err)
	assert.True(t, profile.IsEmailVerified)

	// The token is single use.
	err = svc.VerifyEmail(context.Background(), user.EmailVerificationToken)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestProfileUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Profile(context.Background(), "3d7b51a4-0000-0000-0000-000000000000")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
