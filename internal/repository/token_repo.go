package repository

import (
	"context"

	"fbmanager/internal/model"

	"gorm.io/gorm"
)

// RefreshTokenRepository manages the per-user set of refresh token hashes.
// Expired rows are not swept here; expiry is enforced by the token's own exp
// claim at verify time.
type RefreshTokenRepository interface {
	Add(ctx context.Context, token *model.RefreshToken) error
	HasHash(ctx context.Context, userID, hash string) (bool, error)
	DeleteByHash(ctx context.Context, hash string) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository returns a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Add(ctx context.Context, token *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) HasHash(ctx context.Context, userID, hash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_id = ? AND token_hash = ?", userID, hash).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByHash removes exactly the row carrying hash. Deleting an absent
// hash is not an error, which makes logout idempotent.
func (r *refreshTokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).Where("token_hash = ?", hash).Delete(&model.RefreshToken{}).Error
}
