package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacebookPage is a connected page. The page access token is stored to call
// the Graph API on the user's behalf and never serialized to clients.
type FacebookPage struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PageID      string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"page_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Category    string         `gorm:"type:varchar(255)" json:"category"`
	AccessToken string         `gorm:"type:text;not null" json:"-"`
	FanCount    int64          `json:"fan_count"`
	SyncedAt    *time.Time     `json:"synced_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *FacebookPage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
