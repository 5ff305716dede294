package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AutoResponseRule maps a comment keyword to a canned reply for a page.
// Rules are evaluated in priority order; the first keyword hit wins. Rules
// marked UseAI delegate the reply text to the AI assistant instead.
type AutoResponseRule struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PageID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"page_id"`
	Page      FacebookPage   `gorm:"foreignKey:PageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Keyword   string         `gorm:"type:varchar(255);not null" json:"keyword"`
	Reply     string         `gorm:"type:text" json:"reply"`
	UseAI     bool           `gorm:"not null;default:false" json:"use_ai"`
	Priority  int            `gorm:"not null;default:0" json:"priority"`
	Enabled   bool           `gorm:"not null;default:true" json:"enabled"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *AutoResponseRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
