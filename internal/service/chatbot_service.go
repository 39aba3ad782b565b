package service

import (
	"context"
	"errors"
	"time"

	"neomind-chat-be/internal/constant"
	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/mapper"
	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/internal/pkg/logger"
	"neomind-chat-be/internal/pkg/turnlock"
	"neomind-chat-be/internal/repository/contract"
	"neomind-chat-be/pkg/chat"

	"github.com/google/uuid"
)

const (
	persistWarning   = "The reply could not be saved to your chat history. It will be retried on the next message."
	workspaceWarning = "The reply was saved to your chat history, but this chat could not be kept open. Reopen it from the sidebar to continue."
)

// IChatbotService drives the chat a user has open: each call loads the
// workspace, applies one step and stores it again.
type IChatbotService interface {
	Workspace(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceResponse, error)
	Ask(ctx context.Context, userId uuid.UUID, prompt string) (*dto.AskResponse, error)
	NewChat(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceResponse, error)
	OpenSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkspaceResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkspaceResponse, error)
}

// TurnObserver is told the outcome of every Ask.
type TurnObserver interface {
	ObserveTurn(outcome string, duration time.Duration)
}

type chatbotService struct {
	workspaces   contract.WorkspaceRepository
	sessions     IChatSessionService
	orchestrator *chat.Orchestrator
	locker       turnlock.Locker
	observer     TurnObserver
	logger       logger.ILogger
	chatMapper   *mapper.ChatMapper
	now          func() time.Time
}

func NewChatbotService(
	workspaces contract.WorkspaceRepository,
	sessions IChatSessionService,
	orchestrator *chat.Orchestrator,
	locker turnlock.Locker,
	observer TurnObserver,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		workspaces:   workspaces,
		sessions:     sessions,
		orchestrator: orchestrator,
		locker:       locker,
		observer:     observer,
		logger:       log,
		chatMapper:   mapper.NewChatMapper(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func defaultTranscript() entity.Transcript {
	return entity.Transcript{{Role: entity.ChatRoleAssistant, Content: constant.ChatWelcomeMessage}}
}

func (s *chatbotService) freshWorkspace(userId uuid.UUID) *entity.Workspace {
	return &entity.Workspace{UserId: userId, Messages: defaultTranscript(), UpdatedAt: s.now()}
}

func (s *chatbotService) load(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error) {
	ws, err := s.workspaces.Get(ctx, userId)
	if err != nil {
		return nil, apperror.Persistence("load workspace", err)
	}
	if ws == nil {
		return s.freshWorkspace(userId), nil
	}
	return ws, nil
}

func (s *chatbotService) store(ctx context.Context, ws *entity.Workspace) error {
	ws.UpdatedAt = s.now()
	if err := s.workspaces.Save(ctx, ws); err != nil {
		return apperror.Persistence("save workspace", err)
	}
	return nil
}

func (s *chatbotService) lock(ctx context.Context, userId uuid.UUID) (func(), error) {
	release, ok, err := s.locker.TryAcquire(ctx, userId)
	if err != nil {
		return nil, apperror.Persistence("acquire turn lock", err)
	}
	if !ok {
		return nil, apperror.ErrTurnInProgress
	}
	return release, nil
}

func (s *chatbotService) Workspace(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceResponse, error) {
	ws, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.chatMapper.WorkspaceToDTO(ws), nil
}

// persist writes the transcript to its session, creating one when the
// workspace has none or the tracked one has gone. The title is returned
// only when a session was created.
func (s *chatbotService) persist(ctx context.Context, ws *entity.Workspace) (string, error) {
	if ws.CurrentSessionId != nil {
		err := s.sessions.Update(ctx, ws.UserId, *ws.CurrentSessionId, ws.Messages)
		if err == nil {
			return "", nil
		}
		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return "", err
		}
		s.logger.Warn("Chatbot", "Tracked session vanished, creating a new one", map[string]interface{}{
			"user_id":    ws.UserId,
			"session_id": *ws.CurrentSessionId,
		})
	}

	title, _ := ws.Messages.FirstUserMessage()
	id, err := s.sessions.Create(ctx, ws.UserId, title, ws.Messages)
	if err != nil {
		return "", err
	}
	ws.CurrentSessionId = &id
	if title == "" {
		title = constant.ChatUntitledTitle
	}
	return title, nil
}

func (s *chatbotService) Ask(ctx context.Context, userId uuid.UUID, prompt string) (res *dto.AskResponse, err error) {
	start := time.Now()
	defer func() {
		if s.observer != nil {
			s.observer.ObserveTurn(turnOutcome(res, err), time.Since(start))
		}
	}()

	release, err := s.lock(ctx, userId)
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}

	reply, err := s.orchestrator.Ask(ctx, &ws.Messages, prompt)
	if err != nil {
		s.logger.Warn("Chatbot", "Turn failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return nil, err
	}

	res = &dto.AskResponse{Reply: reply, Persisted: true, WorkspaceSaved: true}

	title, perr := s.persist(ctx, ws)
	if perr != nil {
		s.logger.Error("Chatbot", "Failed to persist transcript", map[string]interface{}{
			"user_id": userId,
			"error":   perr.Error(),
		})
		res.Persisted = false
		res.Warning = persistWarning
	}
	res.Title = title

	if err := s.store(ctx, ws); err != nil {
		s.logger.Error("Chatbot", "Failed to save workspace", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		res.WorkspaceSaved = false
		if res.Persisted {
			res.Warning = workspaceWarning
		}
	}

	res.ChatSessionId = ws.CurrentSessionId
	res.Messages = s.chatMapper.MessagesToDTO(ws.Messages)
	return res, nil
}

func turnOutcome(res *dto.AskResponse, err error) string {
	switch {
	case err == nil && res != nil && res.Persisted && res.WorkspaceSaved:
		return "ok"
	case err == nil && res != nil && res.Persisted:
		return "workspace_unsaved"
	case err == nil:
		return "unsaved"
	case errors.Is(err, apperror.ErrTurnInProgress):
		return "busy"
	case errors.Is(err, apperror.ErrValidation):
		return "invalid"
	case errors.Is(err, apperror.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}

func (s *chatbotService) NewChat(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceResponse, error) {
	release, err := s.lock(ctx, userId)
	if err != nil {
		return nil, err
	}
	defer release()

	ws, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}

	if !ws.Messages.Equal(defaultTranscript()) {
		if _, err := s.persist(ctx, ws); err != nil {
			return nil, err
		}
	}

	fresh := s.freshWorkspace(userId)
	if err := s.store(ctx, fresh); err != nil {
		return nil, err
	}
	return s.chatMapper.WorkspaceToDTO(fresh), nil
}

func (s *chatbotService) OpenSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkspaceResponse, error) {
	release, err := s.lock(ctx, userId)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.sessions.Get(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	ws := &entity.Workspace{
		UserId:           userId,
		CurrentSessionId: &session.Id,
		Messages:         session.Messages,
	}
	if err := s.store(ctx, ws); err != nil {
		return nil, err
	}
	return s.chatMapper.WorkspaceToDTO(ws), nil
}

func (s *chatbotService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkspaceResponse, error) {
	release, err := s.lock(ctx, userId)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.sessions.Delete(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	ws, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if ws.CurrentSessionId != nil && *ws.CurrentSessionId == sessionId {
		ws = s.freshWorkspace(userId)
		if err := s.store(ctx, ws); err != nil {
			return nil, err
		}
	}
	return s.chatMapper.WorkspaceToDTO(ws), nil
}
