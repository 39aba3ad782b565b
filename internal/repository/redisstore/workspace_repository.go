package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "neomind:workspace:"

type workspaceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type workspacePayload struct {
	CurrentSessionId *uuid.UUID        `json:"current_session_id,omitempty"`
	Messages         []workspaceMessage `json:"messages"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// WorkspaceRepository shares workspaces between instances. Each save refreshes the ttl.
type WorkspaceRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewWorkspaceRepository(rdb *redis.Client, ttl time.Duration) contract.WorkspaceRepository {
	return &WorkspaceRepository{rdb: rdb, ttl: ttl}
}

func key(userId uuid.UUID) string {
	return keyPrefix + userId.String()
}

func (r *WorkspaceRepository) Get(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error) {
	raw, err := r.rdb.Get(ctx, key(userId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeWorkspace(userId, raw)
}

func (r *WorkspaceRepository) Save(ctx context.Context, workspace *entity.Workspace) error {
	raw, err := encodeWorkspace(workspace)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(workspace.UserId), raw, r.ttl).Err()
}

func (r *WorkspaceRepository) Delete(ctx context.Context, userId uuid.UUID) error {
	return r.rdb.Del(ctx, key(userId)).Err()
}

func encodeWorkspace(w *entity.Workspace) ([]byte, error) {
	p := workspacePayload{
		CurrentSessionId: w.CurrentSessionId,
		Messages:         make([]workspaceMessage, 0, len(w.Messages)),
		UpdatedAt:        w.UpdatedAt,
	}
	for _, m := range w.Messages {
		p.Messages = append(p.Messages, workspaceMessage{Role: string(m.Role), Content: m.Content})
	}
	return json.Marshal(p)
}

func decodeWorkspace(userId uuid.UUID, raw []byte) (*entity.Workspace, error) {
	var p workspacePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	w := &entity.Workspace{
		UserId:           userId,
		CurrentSessionId: p.CurrentSessionId,
		Messages:         make(entity.Transcript, 0, len(p.Messages)),
		UpdatedAt:        p.UpdatedAt,
	}
	for _, m := range p.Messages {
		w.Messages.Append(entity.ChatRole(m.Role), m.Content)
	}
	return w, nil
}
