package implementation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, repo contract.UserRepository, email, username string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Username: username, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	alice := seedUser(t, repo, "alice@example.com", "alice")
	assert.NotEqual(t, uuid.Nil, alice.Id)

	t.Run("find by email or username", func(t *testing.T) {
		byEmail, err := repo.FindByIdentifier(ctx, "ALICE@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, alice.Id, byEmail.Id)

		byName, err := repo.FindByIdentifier(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, alice.Id, byName.Id)
	})

	t.Run("missing user returns nil", func(t *testing.T) {
		u, err := repo.FindByIdentifier(ctx, "bob")
		assert.NoError(t, err)
		assert.Nil(t, u)

		u, err = repo.FindById(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("exists checks both credentials", func(t *testing.T) {
		exists, err := repo.ExistsByEmailOrUsername(ctx, "other@example.com", "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmailOrUsername(ctx, "other@example.com", "other")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unique email is enforced", func(t *testing.T) {
		err := repo.Create(ctx, &entity.User{Email: "alice@example.com", Username: "alice2", PasswordHash: "x"})
		assert.ErrorIs(t, err, contract.ErrDuplicateKey)
	})
}

func TestChatSessionRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewChatSessionRepository(db)

	owner := seedUser(t, users, "owner@example.com", "owner")
	stranger := seedUser(t, users, "stranger@example.com", "stranger")

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	older := &entity.ChatSession{
		UserId:    owner.Id,
		Title:     "older",
		Messages:  entity.Transcript{{Role: entity.ChatRoleUser, Content: "first"}},
		CreatedAt: base,
	}
	newer := &entity.ChatSession{
		UserId:    owner.Id,
		Title:     "newer",
		Messages:  entity.Transcript{{Role: entity.ChatRoleUser, Content: "second"}},
		CreatedAt: base.Add(time.Minute),
	}
	foreign := &entity.ChatSession{
		UserId:    stranger.Id,
		Title:     "foreign",
		Messages:  entity.Transcript{{Role: entity.ChatRoleUser, Content: "not yours"}},
		CreatedAt: base.Add(2 * time.Minute),
	}
	for _, s := range []*entity.ChatSession{older, newer, foreign} {
		require.NoError(t, repo.Create(ctx, s))
		require.NotEqual(t, uuid.Nil, s.Id)
	}

	t.Run("list is owner scoped and newest first", func(t *testing.T) {
		list, err := repo.FindAllOwned(ctx, owner.Id)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.Id, list[0].Id)
		assert.Equal(t, older.Id, list[1].Id)
		assert.Empty(t, list[0].Messages)
	})

	t.Run("replace then reload returns the new messages in order", func(t *testing.T) {
		updated := entity.Transcript{
			{Role: entity.ChatRoleUser, Content: "first"},
			{Role: entity.ChatRoleAssistant, Content: "reply"},
			{Role: entity.ChatRoleUser, Content: "follow-up"},
		}
		ok, err := repo.ReplaceMessages(ctx, owner.Id, older.Id, updated, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		reloaded, err := repo.FindOwned(ctx, owner.Id, older.Id)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, updated, reloaded.Messages)
	})

	t.Run("other users cannot read or write", func(t *testing.T) {
		s, err := repo.FindOwned(ctx, stranger.Id, older.Id)
		assert.NoError(t, err)
		assert.Nil(t, s)

		ok, err := repo.ReplaceMessages(ctx, stranger.Id, older.Id, entity.Transcript{}, time.Now())
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.DeleteOwned(ctx, stranger.Id, older.Id)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete removes the session from the list", func(t *testing.T) {
		ok, err := repo.DeleteOwned(ctx, owner.Id, newer.Id)
		require.NoError(t, err)
		assert.True(t, ok)

		list, err := repo.FindAllOwned(ctx, owner.Id)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, older.Id, list[0].Id)

		ok, err = repo.DeleteOwned(ctx, owner.Id, newer.Id)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
