package contract

import (
	"context"

	"neomind-chat-be/internal/entity"

	"github.com/google/uuid"
)

// UserRepository is the credential store. Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	// Create returns ErrDuplicateKey when the email or username is taken.
	Create(ctx context.Context, user *entity.User) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByIdentifier matches the email or the username.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}
