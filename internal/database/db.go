package database

import (
	"log/slog"

	"fbmanager/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey; the store, not the application, is the authority
// on email/username uniqueness.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		slog.Warn("auto-migrate failed", "error", err)
	}

	return db, nil
}

// Migrate auto-migrates all application models. Shared with the test setup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.FacebookPage{},
		&model.Post{},
		&model.AutoResponseRule{},
		&model.TrendingTopic{},
	)
}
