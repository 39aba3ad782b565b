package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type AskRequest struct {
	Prompt string `json:"prompt" validate:"required,max=8000"`
}

// AskResponse.WorkspaceSaved is false when the open chat was lost and the
// next prompt would start from the welcome transcript.
type AskResponse struct {
	ChatSessionId  *uuid.UUID       `json:"chat_session_id"`
	Title          string           `json:"title,omitempty"`
	Reply          string           `json:"reply"`
	Messages       []ChatMessageDTO `json:"messages"`
	Persisted      bool             `json:"persisted"`
	WorkspaceSaved bool             `json:"workspace_saved"`
	Warning        string           `json:"warning,omitempty"`
}

type WorkspaceResponse struct {
	ChatSessionId *uuid.UUID       `json:"chat_session_id"`
	Messages      []ChatMessageDTO `json:"messages"`
}

type CreateSessionRequest struct {
	Title    string           `json:"title" validate:"max=255"`
	Messages []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateSessionRequest struct {
	Messages []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	DisplayTitle string     `json:"display_title"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Messages  []ChatMessageDTO `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at"`
}

// WsAskFrame is a prompt sent over the chat websocket.
type WsAskFrame struct {
	Prompt string `json:"prompt"`
}

type WsReplyFrame struct {
	Type    string       `json:"type"` // "reply" | "error"
	Data    *AskResponse `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}
