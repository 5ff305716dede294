package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles and subscription tiers are independent axes; path access decisions
// use the effective role (subscription overrides role when premium).
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"

	SubscriptionFree       = "free"
	SubscriptionPremium    = "premium"
	SubscriptionEnterprise = "enterprise"
)

// User represents the central user entity for logic and database structure
type User struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FullName               string         `gorm:"type:varchar(255);not null" json:"fullName"`
	Username               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email                  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash           string         `gorm:"type:varchar(255);not null" json:"-"` // Never serialized to clients
	Role                   string         `gorm:"type:varchar(50);not null;default:user" json:"role"`
	Subscription           string         `gorm:"type:varchar(50);not null;default:free" json:"subscription"`
	IsEmailVerified        bool           `gorm:"not null;default:false" json:"isEmailVerified"`
	EmailVerificationToken string         `gorm:"type:varchar(255);index" json:"-"` // Present only until verified
	AIEnabled              bool           `gorm:"not null;default:true" json:"aiEnabled"`
	AIPermissions          datatypes.JSON `gorm:"type:json" json:"aiPermissions,omitempty"`
	CreatedAt              time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the ID application-side so the model works across
// postgres and the sqlite test databases.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores the SHA-256 hash of an issued refresh token. A refresh
// token is valid only while its hash row exists; logout deletes exactly one row.
// The raw token is never persisted.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
