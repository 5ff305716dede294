package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrendingTopic is a tracked topic with a relevance score used for ranking.
type TrendingTopic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Topic     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"topic"`
	Category  string    `gorm:"type:varchar(100);index" json:"category"`
	Score     float64   `gorm:"not null;default:0" json:"score"`
	Mentions  int64     `json:"mentions"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *TrendingTopic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
