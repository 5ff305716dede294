package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("test-secret", "test-audience", "test-issuer")
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService("", "aud", "iss")
	assert.Error(t, err)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	signed, err := svc.Issue(Payload{
		UserID:       "user-1",
		Email:        "jane@x.com",
		Role:         "user",
		Subscription: "premium",
	}, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "premium", claims.Subscription)
	assert.Empty(t, claims.Type)
	assert.NotEmpty(t, claims.ID, "jti should be set")
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestIssue_UniqueJTI(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.Issue(Payload{UserID: "u"}, time.Minute)
	require.NoError(t, err)
	b, err := svc.Issue(Payload{UserID: "u"}, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t)

	signed, err := svc.Issue(Payload{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_Invalid(t *testing.T) {
	svc := newTestService(t)
	signed, err := svc.Issue(Payload{UserID: "user-1"}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		via   *Service
	}{
		{name: "malformed", token: "not.a.jwt", via: svc},
		{name: "empty", token: "", via: svc},
		{
			name:  "wrong secret",
			token: signed,
			via: func() *Service {
				s, _ := NewService("other-secret", "test-audience", "test-issuer")
				return s
			}(),
		},
		{
			name:  "wrong audience",
			token: signed,
			via: func() *Service {
				s, _ := NewService("test-secret", "other-audience", "test-issuer")
				return s
			}(),
		},
		{
			name:  "wrong issuer",
			token: signed,
			via: func() *Service {
				s, _ := NewService("test-secret", "test-audience", "other-issuer")
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.via.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestIssue_RefreshType(t *testing.T) {
	svc := newTestService(t)

	signed, err := svc.Issue(Payload{UserID: "user-1", Type: TypeRefresh}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.Type)
}
