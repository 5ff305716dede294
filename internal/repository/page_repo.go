package repository

import (
	"context"

	"fbmanager/internal/model"

	"gorm.io/gorm"
)

// PageRepository defines the interface for data access of connected pages
type PageRepository interface {
	Create(ctx context.Context, page *model.FacebookPage) error
	GetByID(ctx context.Context, id string) (*model.FacebookPage, error)
	ListByUser(ctx context.Context, userID string) ([]model.FacebookPage, error)
	Update(ctx context.Context, page *model.FacebookPage) error
	Delete(ctx context.Context, id string) error
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository returns a new instance of PageRepository
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *model.FacebookPage) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) GetByID(ctx context.Context, id string) (*model.FacebookPage, error) {
	var page model.FacebookPage
	if err := r.db.WithContext(ctx).First(&page, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) ListByUser(ctx context.Context, userID string) ([]model.FacebookPage, error) {
	var pages []model.FacebookPage
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) Update(ctx context.Context, page *model.FacebookPage) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *pageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FacebookPage{}).Error
}
