package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neomind-chat-be/internal/constant"
	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/mapper"
	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/internal/pkg/logger"
	"neomind-chat-be/internal/repository/unitofwork"
	"neomind-chat-be/pkg/events"

	"github.com/google/uuid"
)

// IChatSessionService owns the persisted transcripts. Every call is scoped to ownerId.
type IChatSessionService interface {
	Create(ctx context.Context, ownerId uuid.UUID, title string, messages entity.Transcript) (uuid.UUID, error)
	Update(ctx context.Context, ownerId, sessionId uuid.UUID, messages entity.Transcript) error
	List(ctx context.Context, ownerId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	Get(ctx context.Context, ownerId, sessionId uuid.UUID) (*entity.ChatSession, error)
	// Delete succeeds when the session is already gone.
	Delete(ctx context.Context, ownerId, sessionId uuid.UUID) error
}

type chatSessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
	chatMapper     *mapper.ChatMapper
	now            func() time.Time
}

func NewChatSessionService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, log logger.ILogger) IChatSessionService {
	return &chatSessionService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
		chatMapper:     mapper.NewChatMapper(),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func validateTranscript(messages entity.Transcript) error {
	for i, m := range messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", apperror.ErrValidation, i, m.Role)
		}
	}
	return nil
}

func (s *chatSessionService) Create(ctx context.Context, ownerId uuid.UUID, title string, messages entity.Transcript) (uuid.UUID, error) {
	if err := validateTranscript(messages); err != nil {
		return uuid.Nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = constant.ChatUntitledTitle
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    ownerId,
		Title:     title,
		Messages:  messages.Clone(),
		CreatedAt: s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return uuid.Nil, apperror.Persistence("create chat session", err)
	}

	publishEvent(ctx, s.eventPublisher, s.logger, constant.EventChatSessionCreated, map[string]interface{}{
		"user_id":    ownerId.String(),
		"session_id": session.Id.String(),
		"title":      session.Title,
	})
	return session.Id, nil
}

func (s *chatSessionService) Update(ctx context.Context, ownerId, sessionId uuid.UUID, messages entity.Transcript) error {
	if err := validateTranscript(messages); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.ChatSessionRepository().ReplaceMessages(ctx, ownerId, sessionId, messages, s.now())
	if err != nil {
		return apperror.Persistence("update chat session", err)
	}
	if !found {
		return apperror.ErrSessionNotFound
	}
	return nil
}

func (s *chatSessionService) List(ctx context.Context, ownerId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAllOwned(ctx, ownerId)
	if err != nil {
		return nil, apperror.Persistence("list chat sessions", err)
	}

	res := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, s.chatMapper.ChatSessionToSummary(session))
	}
	return res, nil
}

func (s *chatSessionService) Get(ctx context.Context, ownerId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOwned(ctx, ownerId, sessionId)
	if err != nil {
		return nil, apperror.Persistence("get chat session", err)
	}
	if session == nil {
		return nil, apperror.ErrSessionNotFound
	}
	return session, nil
}

func (s *chatSessionService) Delete(ctx context.Context, ownerId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.ChatSessionRepository().DeleteOwned(ctx, ownerId, sessionId)
	if err != nil {
		return apperror.Persistence("delete chat session", err)
	}
	if !deleted {
		s.logger.Info("ChatSession", "Delete of missing or foreign session ignored", map[string]interface{}{
			"user_id":    ownerId,
			"session_id": sessionId,
		})
		return nil
	}

	publishEvent(ctx, s.eventPublisher, s.logger, constant.EventChatSessionDeleted, map[string]interface{}{
		"user_id":    ownerId.String(),
		"session_id": sessionId.String(),
	})
	return nil
}
