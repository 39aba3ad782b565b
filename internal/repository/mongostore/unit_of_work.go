package mongostore

import (
	"context"

	"neomind-chat-be/internal/repository/contract"
	"neomind-chat-be/internal/repository/unitofwork"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// unitOfWork has no transaction: every write is a single-document operation and
// the unique indexes guard the register race.
type unitOfWork struct {
	db *mongo.Database
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return NewUserRepository(u.db)
}

func (u *unitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return NewChatSessionRepository(u.db)
}

type repositoryFactory struct {
	db *mongo.Database
}

func NewRepositoryFactory(db *mongo.Database) unitofwork.RepositoryFactory {
	return &repositoryFactory{db: db}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{db: f.db}
}
