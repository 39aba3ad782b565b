package contract

import (
	"context"

	"neomind-chat-be/internal/entity"

	"github.com/google/uuid"
)

// WorkspaceRepository keeps the open chat of each user between requests.
type WorkspaceRepository interface {
	Get(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error)
	Save(ctx context.Context, workspace *entity.Workspace) error
	Delete(ctx context.Context, userId uuid.UUID) error
}
