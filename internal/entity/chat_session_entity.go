package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

func (r ChatRole) Valid() bool {
	return r == ChatRoleUser || r == ChatRoleAssistant
}

type ChatMessage struct {
	Role    ChatRole
	Content string
}

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Messages  Transcript
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Transcript is an ordered sequence of role-tagged chat turns.
type Transcript []ChatMessage

func (t Transcript) Len() int {
	return len(t)
}

func (t *Transcript) Append(role ChatRole, content string) {
	*t = append(*t, ChatMessage{Role: role, Content: content})
}

// Truncate drops every turn after the first n.
func (t *Transcript) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(*t) {
		*t = (*t)[:n]
	}
}

func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// FirstUserMessage returns the content of the earliest user turn.
func (t Transcript) FirstUserMessage() (string, bool) {
	for _, m := range t {
		if m.Role == ChatRoleUser && strings.TrimSpace(m.Content) != "" {
			return m.Content, true
		}
	}
	return "", false
}

func (t Transcript) Equal(other Transcript) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}
