package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type claim values. Access tokens omit the type; refresh tokens are
// explicitly marked so they cannot be used on protected endpoints by accident.
const TypeRefresh = "refresh"

var (
	// ErrExpired signals a token whose exp claim has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers every other verification failure: bad signature,
	// wrong audience or issuer, malformed token.
	ErrInvalid = errors.New("token invalid")
)

// Claims is the signed payload carried by both access and refresh tokens.
type Claims struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Subscription string `json:"subscription,omitempty"`
	Type         string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed, time-bound tokens. Stateless given the
// secret; no side effects.
type Service struct {
	secret   []byte
	audience string
	issuer   string
}

// NewService builds a token service. An empty secret is a configuration
// error and fails fast.
func NewService(secret, audience, issuer string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is not configured")
	}
	return &Service{secret: []byte(secret), audience: audience, issuer: issuer}, nil
}

// Payload is what callers provide; jti, audience, issuer and expiry are
// filled in by Issue.
type Payload struct {
	UserID       string
	Email        string
	Role         string
	Subscription string
	Type         string
}

// Issue signs an HS256 token for the payload with a random unique id and an
// expiry ttl from now.
func (s *Service) Issue(p Payload, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:       p.UserID,
		Email:        p.Email,
		Role:         p.Role,
		Subscription: p.Subscription,
		Type:         p.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{s.audience},
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature, audience, issuer and expiry and returns the
// claims. Expiry is reported as ErrExpired, everything else as ErrInvalid.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithAudience(s.audience),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !t.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
