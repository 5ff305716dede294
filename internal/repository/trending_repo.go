package repository

import (
	"context"

	"fbmanager/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrendingRepository defines the interface for data access of trending topics
type TrendingRepository interface {
	Upsert(ctx context.Context, topic *model.TrendingTopic) error
	List(ctx context.Context, category string, offset, limit int) ([]model.TrendingTopic, int64, error)
}

type trendingRepository struct {
	db *gorm.DB
}

// NewTrendingRepository returns a new instance of TrendingRepository
func NewTrendingRepository(db *gorm.DB) TrendingRepository {
	return &trendingRepository{db: db}
}

// Upsert inserts the topic or refreshes its score and mention count.
func (r *trendingRepository) Upsert(ctx context.Context, topic *model.TrendingTopic) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "topic"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "mentions", "category", "updated_at"}),
	}).Create(topic).Error
}

func (r *trendingRepository) List(ctx context.Context, category string, offset, limit int) ([]model.TrendingTopic, int64, error) {
	var topics []model.TrendingTopic
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TrendingTopic{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Offset(offset).Limit(limit).Order("score DESC").Find(&topics).Error; err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}
