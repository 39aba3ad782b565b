package implementation

import (
	"neomind-chat-be/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users and chat_sessions tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.ChatSession{},
	)
}
