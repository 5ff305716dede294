package repository

import (
	"context"

	"fbmanager/internal/model"

	"gorm.io/gorm"
)

// AutoResponseRepository defines the interface for data access of rules
type AutoResponseRepository interface {
	Create(ctx context.Context, rule *model.AutoResponseRule) error
	GetByID(ctx context.Context, id string) (*model.AutoResponseRule, error)
	ListEnabledByPage(ctx context.Context, pageID string) ([]model.AutoResponseRule, error)
	ListByPage(ctx context.Context, pageID string) ([]model.AutoResponseRule, error)
	Update(ctx context.Context, rule *model.AutoResponseRule) error
	Delete(ctx context.Context, id string) error
}

type autoResponseRepository struct {
	db *gorm.DB
}

// NewAutoResponseRepository returns a new instance of AutoResponseRepository
func NewAutoResponseRepository(db *gorm.DB) AutoResponseRepository {
	return &autoResponseRepository{db: db}
}

func (r *autoResponseRepository) Create(ctx context.Context, rule *model.AutoResponseRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *autoResponseRepository) GetByID(ctx context.Context, id string) (*model.AutoResponseRule, error) {
	var rule model.AutoResponseRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *autoResponseRepository) ListEnabledByPage(ctx context.Context, pageID string) ([]model.AutoResponseRule, error) {
	var rules []model.AutoResponseRule
	err := r.db.WithContext(ctx).
		Where("page_id = ? AND enabled = ?", pageID, true).
		Order("priority DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *autoResponseRepository) ListByPage(ctx context.Context, pageID string) ([]model.AutoResponseRule, error) {
	var rules []model.AutoResponseRule
	err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("priority DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *autoResponseRepository) Update(ctx context.Context, rule *model.AutoResponseRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *autoResponseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AutoResponseRule{}).Error
}
