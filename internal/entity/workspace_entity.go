package entity

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the chat a user currently has open: the transcript on screen
// and, once persisted, the session it belongs to.
type Workspace struct {
	UserId           uuid.UUID
	CurrentSessionId *uuid.UUID
	Messages         Transcript
	UpdatedAt        time.Time
}
