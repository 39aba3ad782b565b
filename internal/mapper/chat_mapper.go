package mapper

import (
	"time"
	"unicode/utf8"

	"neomind-chat-be/internal/constant"
	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		Messages:  m.MessagesToEntity(s.Messages),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		Messages:  m.MessagesToModel(s.Messages),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) MessagesToEntity(msgs []model.ChatMessage) entity.Transcript {
	out := make(entity.Transcript, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, entity.ChatMessage{Role: entity.ChatRole(msg.Role), Content: msg.Content})
	}
	return out
}

func (m *ChatMapper) MessagesToModel(t entity.Transcript) datatypes.JSONSlice[model.ChatMessage] {
	out := make([]model.ChatMessage, 0, len(t))
	for _, msg := range t {
		out = append(out, model.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return datatypes.JSONSlice[model.ChatMessage](out)
}

func (m *ChatMapper) MessagesToDTO(t entity.Transcript) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, 0, len(t))
	for _, msg := range t {
		out = append(out, dto.ChatMessageDTO{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}

func (m *ChatMapper) MessagesFromDTO(msgs []dto.ChatMessageDTO) entity.Transcript {
	out := make(entity.Transcript, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, entity.ChatMessage{Role: entity.ChatRole(msg.Role), Content: msg.Content})
	}
	return out
}

// DTO Mappers

func (m *ChatMapper) ChatSessionToDTO(s *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:        s.Id,
		Title:     s.Title,
		Messages:  m.MessagesToDTO(s.Messages),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *ChatMapper) ChatSessionToSummary(s *entity.ChatSession) *dto.SessionSummaryResponse {
	return &dto.SessionSummaryResponse{
		Id:           s.Id,
		Title:        s.Title,
		DisplayTitle: DisplayTitle(s.Title),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *ChatMapper) WorkspaceToDTO(w *entity.Workspace) *dto.WorkspaceResponse {
	return &dto.WorkspaceResponse{
		ChatSessionId: w.CurrentSessionId,
		Messages:      m.MessagesToDTO(w.Messages),
	}
}

// DisplayTitle shortens a title for the session sidebar.
func DisplayTitle(title string) string {
	if utf8.RuneCountInString(title) <= constant.ChatTitleDisplayMaxLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:constant.ChatTitleDisplayMaxLength]) + "..."
}
