package mongostore

import (
	"context"
	"errors"
	"time"

	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ChatSessionRepository struct {
	coll *mongo.Collection
}

func NewChatSessionRepository(db *mongo.Database) contract.ChatSessionRepository {
	return &ChatSessionRepository{coll: db.Collection(ChatSessionsCollection)}
}

func ownedFilter(ownerId, id uuid.UUID) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "owner_user_id", Value: ownerId.String()},
	}
}

func (r *ChatSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, chatSessionToDocument(session)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return contract.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *ChatSessionRepository) ReplaceMessages(ctx context.Context, ownerId, id uuid.UUID, messages entity.Transcript, updatedAt time.Time) (bool, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "messages", Value: messagesToDocument(messages)},
		{Key: "updated_at", Value: updatedAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, ownedFilter(ownerId, id), update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ChatSessionRepository) FindOwned(ctx context.Context, ownerId, id uuid.UUID) (*entity.ChatSession, error) {
	var doc chatSessionDocument
	if err := r.coll.FindOne(ctx, ownedFilter(ownerId, id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return chatSessionToEntity(&doc)
}

func (r *ChatSessionRepository) FindAllOwned(ctx context.Context, ownerId uuid.UUID) ([]*entity.ChatSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.D{{Key: "messages", Value: 0}})

	cursor, err := r.coll.Find(ctx, bson.D{{Key: "owner_user_id", Value: ownerId.String()}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []chatSessionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	sessions := make([]*entity.ChatSession, 0, len(docs))
	for i := range docs {
		s, err := chatSessionToEntity(&docs[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *ChatSessionRepository) DeleteOwned(ctx context.Context, ownerId, id uuid.UUID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, ownedFilter(ownerId, id))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
