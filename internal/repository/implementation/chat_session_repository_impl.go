package implementation

import (
	"context"
	"errors"
	"time"

	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/mapper"
	"neomind-chat-be/internal/model"
	"neomind-chat-be/internal/repository/contract"
	"neomind-chat-be/internal/repository/scope"
	"neomind-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.ChatSessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*session = *r.mapper.ChatSessionToEntity(m)
	return nil
}

func (r *ChatSessionRepositoryImpl) ReplaceMessages(ctx context.Context, ownerId, id uuid.UUID, messages entity.Transcript, updatedAt time.Time) (bool, error) {
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatSession{}),
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: ownerId},
	)
	result := query.Updates(map[string]interface{}{
		"messages":   r.mapper.MessagesToModel(messages),
		"updated_at": updatedAt,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ChatSessionRepositoryImpl) FindOwned(ctx context.Context, ownerId, id uuid.UUID) (*entity.ChatSession, error) {
	var m model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: ownerId},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(&m), nil
}

func (r *ChatSessionRepositoryImpl) FindAllOwned(ctx context.Context, ownerId uuid.UUID) ([]*entity.ChatSession, error) {
	var models []*model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc),
		specification.SessionSummaryColumns{},
		specification.UserOwnedBy{UserID: ownerId},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatSessionToEntity(m)
	}
	return entities, nil
}

func (r *ChatSessionRepositoryImpl) DeleteOwned(ctx context.Context, ownerId, id uuid.UUID) (bool, error) {
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: ownerId},
	)
	result := query.Delete(&model.ChatSession{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
