package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// ByEmailOrUsername matches a user holding either credential.
type ByEmailOrUsername struct {
	Email    string
	Username string
}

func (s ByEmailOrUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ? OR username = ?", s.Email, s.Username)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
