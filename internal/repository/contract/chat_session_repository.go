package contract

import (
	"context"
	"time"

	"neomind-chat-be/internal/entity"

	"github.com/google/uuid"
)

// ChatSessionRepository is the session store. Every read and write is scoped to an owner.
type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// ReplaceMessages reports false when no session with that id belongs to the owner.
	ReplaceMessages(ctx context.Context, ownerId, id uuid.UUID, messages entity.Transcript, updatedAt time.Time) (bool, error)
	FindOwned(ctx context.Context, ownerId, id uuid.UUID) (*entity.ChatSession, error)
	// FindAllOwned returns summaries (messages omitted), newest first.
	FindAllOwned(ctx context.Context, ownerId uuid.UUID) ([]*entity.ChatSession, error)
	DeleteOwned(ctx context.Context, ownerId, id uuid.UUID) (bool, error)
}
