package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// Post is a page post, either drafted by the user or generated by the AI
// assistant, with engagement counters filled in after publishing.
type Post struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	PageID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"page_id"`
	Page         FacebookPage   `gorm:"foreignKey:PageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Topic        string         `gorm:"type:varchar(255)" json:"topic"`
	Tone         string         `gorm:"type:varchar(50)" json:"tone"`
	AIGenerated  bool           `gorm:"not null;default:false" json:"ai_generated"`
	Status       string         `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	RemotePostID string         `gorm:"type:varchar(128)" json:"remote_post_id,omitempty"`
	Likes        int64          `json:"likes"`
	Comments     int64          `json:"comments"`
	Shares       int64          `json:"shares"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
