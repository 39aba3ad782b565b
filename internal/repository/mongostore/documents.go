package mongostore

import (
	"time"

	"neomind-chat-be/internal/entity"

	"github.com/google/uuid"
)

const (
	UsersCollection        = "Users"
	ChatSessionsCollection = "ChatSessions"
)

// Ids are stored as canonical uuid strings so both backends share one identifier format.

type userDocument struct {
	Id           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type messageDocument struct {
	Role    string `bson:"role"`
	Content string `bson:"content"`
}

type chatSessionDocument struct {
	Id          string            `bson:"_id"`
	OwnerUserId string            `bson:"owner_user_id"`
	Title       string            `bson:"title"`
	Messages    []messageDocument `bson:"messages,omitempty"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   *time.Time        `bson:"updated_at,omitempty"`
}

func userToDocument(u *entity.User) *userDocument {
	return &userDocument{
		Id:           u.Id.String(),
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func userToEntity(d *userDocument) (*entity.User, error) {
	id, err := uuid.Parse(d.Id)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Id:           id,
		Email:        d.Email,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

func messagesToDocument(t entity.Transcript) []messageDocument {
	out := make([]messageDocument, 0, len(t))
	for _, m := range t {
		out = append(out, messageDocument{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func chatSessionToDocument(s *entity.ChatSession) *chatSessionDocument {
	return &chatSessionDocument{
		Id:          s.Id.String(),
		OwnerUserId: s.UserId.String(),
		Title:       s.Title,
		Messages:    messagesToDocument(s.Messages),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func chatSessionToEntity(d *chatSessionDocument) (*entity.ChatSession, error) {
	id, err := uuid.Parse(d.Id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(d.OwnerUserId)
	if err != nil {
		return nil, err
	}
	messages := make(entity.Transcript, 0, len(d.Messages))
	for _, m := range d.Messages {
		messages = append(messages, entity.ChatMessage{Role: entity.ChatRole(m.Role), Content: m.Content})
	}
	return &entity.ChatSession{
		Id:        id,
		UserId:    owner,
		Title:     d.Title,
		Messages:  messages,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
