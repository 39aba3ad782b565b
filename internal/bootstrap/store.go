package bootstrap

import (
	"context"
	"fmt"
	"log"

	"neomind-chat-be/internal/config"
	"neomind-chat-be/internal/repository/mongostore"
	"neomind-chat-be/internal/repository/unitofwork"
	"neomind-chat-be/pkg/database"
)

// OpenStore connects the credential and session stores selected by
// STORE_DRIVER and returns a factory plus a function that releases the
// underlying connections.
func OpenStore(ctx context.Context, cfg *config.Config) (unitofwork.RepositoryFactory, func(context.Context) error, error) {
	switch cfg.Database.Driver {
	case "mongo":
		client, db, err := database.NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		log.Printf("[INFO] Using store: MONGO (%s)", cfg.Mongo.Database)
		return mongostore.NewRepositoryFactory(db), client.Disconnect, nil

	case "postgres", "":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[INFO] Using store: POSTGRES")
		return unitofwork.NewRepositoryFactory(db), func(context.Context) error { return sqlDB.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Database.Driver)
	}
}
