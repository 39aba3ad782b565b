package apperror

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the HTTP boundary. Match them with errors.Is.
var (
	ErrDuplicateCredential = errors.New("email or username already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPersistence         = errors.New("failed to persist data")
	ErrUpstream            = errors.New("completion service unavailable")
	ErrSessionNotFound     = errors.New("chat session not found or access denied")
	ErrTurnInProgress      = errors.New("a prompt is already being processed for this chat")
	ErrValidation          = errors.New("invalid request")
)

// Wrap tags err with a kind so both errors.Is(err, kind) and errors.Is(err, cause) hold.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

func Persistence(op string, err error) error {
	return Wrap(ErrPersistence, op, err)
}

func Upstream(op string, err error) error {
	return Wrap(ErrUpstream, op, err)
}
