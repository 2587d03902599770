package configs

import (
	"fmt"

	"restaurant/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the SQLite database behind every repository.
func ConnectionDB(source string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(source), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// SetupDatabase migrates the schema.
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.MenuItem{},
		&entity.Order{},
		&entity.Review{},
		&entity.ChatMessage{},
		&entity.UserToken{},
		&entity.Task{},
	)
}
