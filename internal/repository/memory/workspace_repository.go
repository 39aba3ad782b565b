package memory

import (
	"context"
	"time"

	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type WorkspaceRepository struct {
	cache *cache.Cache
}

// NewWorkspaceRepository keeps workspaces in process; idle entries expire after ttl.
func NewWorkspaceRepository(ttl time.Duration) contract.WorkspaceRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &WorkspaceRepository{
		cache: c,
	}
}

func (r *WorkspaceRepository) Save(ctx context.Context, workspace *entity.Workspace) error {
	stored := *workspace
	stored.Messages = workspace.Messages.Clone()
	if workspace.CurrentSessionId != nil {
		id := *workspace.CurrentSessionId
		stored.CurrentSessionId = &id
	}
	r.cache.Set(workspace.UserId.String(), &stored, cache.DefaultExpiration)
	return nil
}

func (r *WorkspaceRepository) Get(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error) {
	x, found := r.cache.Get(userId.String())
	if !found {
		return nil, nil
	}
	stored := x.(*entity.Workspace)
	out := *stored
	out.Messages = stored.Messages.Clone()
	return &out, nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, userId uuid.UUID) error {
	r.cache.Delete(userId.String())
	return nil
}
