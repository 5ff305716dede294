package service

import (
	"context"

	"fbmanager/internal/model"
	"fbmanager/internal/repository"
	"fbmanager/pkg/apperrors"
	"fbmanager/pkg/pagination"

	"github.com/shopspring/decimal"
)

type TrackTopicRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Category string `json:"category"`
	Mentions int64  `json:"mentions" binding:"required,min=1"`
}

// TrendingService defines the interface for trending topic tracking
type TrendingService interface {
	List(ctx context.Context, category string, p pagination.Params) ([]model.TrendingTopic, int64, error)
	Track(ctx context.Context, req TrackTopicRequest) (*model.TrendingTopic, error)
}

type trendingService struct {
	topics repository.TrendingRepository
}

// NewTrendingService returns a new instance of TrendingService
func NewTrendingService(topics repository.TrendingRepository) TrendingService {
	return &trendingService{topics: topics}
}

func (s *trendingService) List(ctx context.Context, category string, p pagination.Params) ([]model.TrendingTopic, int64, error) {
	topics, total, err := s.topics.List(ctx, category, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return topics, total, nil
}

// Track ingests a mention batch for a topic. The score grows sub-linearly
// with mention volume so a single viral spike does not pin the ranking.
func (s *trendingService) Track(ctx context.Context, req TrackTopicRequest) (*model.TrendingTopic, error) {
	score, _ := decimal.NewFromInt(req.Mentions).
		Mul(decimal.NewFromFloat(0.1)).
		Add(decimal.NewFromInt(1)).
		Round(4).
		Float64()

	topic := &model.TrendingTopic{
		Topic:    req.Topic,
		Category: req.Category,
		Score:    score,
		Mentions: req.Mentions,
	}
	if err := s.topics.Upsert(ctx, topic); err != nil {
		return nil, apperrors.Internal(err)
	}
	return topic, nil
}
