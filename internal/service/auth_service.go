package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"fbmanager/internal/email"
	"fbmanager/internal/model"
	"fbmanager/internal/repository"
	"fbmanager/internal/token"
	"fbmanager/internal/validation"
	"fbmanager/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs for Request validation
type SignupRequest struct {
	FullName string `json:"fullName" binding:"required,min=2,max=255"`
	Username string `json:"username" binding:"required,min=3,max=30,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest accepts email, username, or a generic identifier field. The
// identifier is treated as an email when it contains "@".
type LoginRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
	Password   string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// DTO for returning User without exposing sensitive data
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"fullName"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Subscription    string    `json:"subscription"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	AIEnabled       bool      `json:"aiEnabled"`
	CreatedAt       string    `json:"createdAt"`
}

// AuthResponse is the signup/login/refresh payload. Token mirrors
// AccessToken for clients that predate the split naming; refresh responses
// carry the access token only.
type AuthResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	Token        string        `json:"token,omitempty"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken,omitempty"`
}

// AuthService defines the interface for signup, login and session lifecycle
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	VerifyEmail(ctx context.Context, verificationToken string) error
	Profile(ctx context.Context, userID string) (*UserResponse, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     repository.RefreshTokenRepository
	issuer     *token.Service
	hasher     *PasswordHasher
	mailer     *email.Sender
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	issuer *token.Service,
	hasher *PasswordHasher,
	mailer *email.Sender,
	accessTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		issuer:     issuer,
		hasher:     hasher,
		mailer:     mailer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Helper: parse model to standard json API response
func mapUserToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:              user.ID,
		FullName:        user.FullName,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		Subscription:    user.Subscription,
		IsEmailVerified: user.IsEmailVerified,
		AIEnabled:       user.AIEnabled,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
}

// hashRefreshToken derives the storable fingerprint of a refresh token. Only
// this hash is ever persisted.
func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	if !validation.IsUsername(username) {
		return nil, apperrors.Validation("username may only contain letters, digits, underscores and dots")
	}

	// Friendly pre-checks; the insert below is still the authority on
	// uniqueness under concurrent signups.
	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return nil, apperrors.Conflict("email already registered").WithArabic("البريد الإلكتروني مسجل مسبقاً")
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.Conflict("username already taken").WithArabic("اسم المستخدم محجوز")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		FullName:               strings.TrimSpace(req.FullName),
		Username:               username,
		Email:                  emailAddr,
		PasswordHash:           passwordHash,
		Role:                   model.RoleUser,
		Subscription:           model.SubscriptionFree,
		AIEnabled:              true,
		EmailVerificationToken: uuid.NewString(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("email or username already registered").WithArabic("البريد الإلكتروني أو اسم المستخدم مسجل مسبقاً")
		}
		return nil, apperrors.Internal(err)
	}

	s.mailer.SendVerification(user.Email, user.EmailVerificationToken)

	access, err := s.issuer.Issue(token.Payload{
		UserID:       user.ID.String(),
		Email:        user.Email,
		Role:         user.Role,
		Subscription: user.Subscription,
	}, s.accessTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &AuthResponse{User: mapUserToResponse(user), Token: access, AccessToken: access}, nil
}

// loginUser resolves the account referenced by the request. Email wins when
// both fields are set; a bare identifier is sniffed by the presence of "@".
func (s *authService) loginUser(ctx context.Context, req LoginRequest) (*model.User, error) {
	switch {
	case req.Email != "":
		return s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	case req.Username != "":
		return s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	case req.Identifier != "":
		id := strings.ToLower(strings.TrimSpace(req.Identifier))
		if strings.Contains(id, "@") {
			return s.users.GetByEmail(ctx, id)
		}
		return s.users.GetByUsername(ctx, id)
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	// One uniform error for unknown account and wrong password, so the
	// endpoint does not leak which accounts exist.
	invalid := apperrors.Unauthorized("invalid credentials").WithArabic("بيانات الدخول غير صحيحة")

	user, err := s.loginUser(ctx, req)
	if err != nil {
		return nil, invalid
	}
	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, invalid
	}

	payload := token.Payload{
		UserID:       user.ID.String(),
		Email:        user.Email,
		Role:         user.Role,
		Subscription: user.Subscription,
	}

	access, err := s.issuer.Issue(payload, s.accessTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refreshPayload := payload
	refreshPayload.Type = token.TypeRefresh
	refresh, err := s.issuer.Issue(refreshPayload, s.refreshTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// Each login adds a session; a user may hold several refresh tokens at
	// once across devices.
	row := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashRefreshToken(refresh),
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	if err := s.tokens.Add(ctx, row); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &AuthResponse{
		User:         mapUserToResponse(user),
		Token:        access,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, apperrors.Unauthorized("refresh token expired")
		}
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if claims.Type != token.TypeRefresh {
		return nil, apperrors.Validation("token is not a refresh token")
	}

	ok, err := s.tokens.HasHash(ctx, claims.UserID, hashRefreshToken(refreshToken))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !ok {
		return nil, apperrors.Unauthorized("refresh token has been revoked")
	}

	// Claims may be a week old; re-read the account so role and subscription
	// changes take effect on the next access token.
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	access, err := s.issuer.Issue(token.Payload{
		UserID:       user.ID.String(),
		Email:        user.Email,
		Role:         user.Role,
		Subscription: user.Subscription,
	}, s.accessTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// The presented refresh token stays valid; only a new access token is
	// handed out.
	return &AuthResponse{AccessToken: access}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.issuer.Verify(refreshToken); err != nil {
		return apperrors.Validation("invalid refresh token")
	}
	if err := s.tokens.DeleteByHash(ctx, hashRefreshToken(refreshToken)); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal(err)
	}

	if !s.hasher.Compare(user.PasswordHash, req.CurrentPassword) {
		return apperrors.Unauthorized("current password is incorrect").WithArabic("كلمة المرور الحالية غير صحيحة")
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	user.PasswordHash = newHash

	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, verificationToken string) error {
	if verificationToken == "" {
		return apperrors.Validation("verification token is required")
	}

	user, err := s.users.GetByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("verification token not found")
		}
		return apperrors.Internal(err)
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = ""
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}
	return mapUserToResponse(user), nil
}
