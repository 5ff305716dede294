package service

import (
	"context"
	"errors"

	"fbmanager/internal/repository"
	"fbmanager/pkg/apperrors"
	"fbmanager/pkg/pagination"

	"gorm.io/gorm"
)

// AdminUpdateUserRequest mutates the account fields only operators control.
type AdminUpdateUserRequest struct {
	Role         string `json:"role" binding:"omitempty,oneof=user manager admin"`
	Subscription string `json:"subscription" binding:"omitempty,oneof=free premium enterprise"`
	AIEnabled    *bool  `json:"aiEnabled"`
}

// AdminService defines the interface for operator account management
type AdminService interface {
	ListUsers(ctx context.Context, p pagination.Params) ([]UserResponse, int64, error)
	GetUser(ctx context.Context, id string) (*UserResponse, error)
	UpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (*UserResponse, error)
}

type adminService struct {
	users repository.UserRepository
}

// NewAdminService returns a new instance of AdminService
func NewAdminService(users repository.UserRepository) AdminService {
	return &adminService{users: users}
}

func (s *adminService) ListUsers(ctx context.Context, p pagination.Params) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapUserToResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *adminService) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}
	return mapUserToResponse(user), nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Subscription != "" {
		user.Subscription = req.Subscription
	}
	if req.AIEnabled != nil {
		user.AIEnabled = *req.AIEnabled
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}

	// Role and subscription changes reach existing sessions on their next
	// token refresh, not immediately.
	return mapUserToResponse(user), nil
}
