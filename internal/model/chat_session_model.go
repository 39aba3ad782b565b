package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatMessage is one element of the JSON messages column.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatSession struct {
	Id        uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID                        `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title     string                           `gorm:"type:text;not null"`
	Messages  datatypes.JSONSlice[ChatMessage] `gorm:"not null"`
	CreatedAt time.Time                        `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time                        `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt                   `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}
