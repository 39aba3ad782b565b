package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neomind-chat-be/internal/constant"
	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/pkg/logger"
	"neomind-chat-be/internal/pkg/serverutils"
	"neomind-chat-be/internal/pkg/token"
	"neomind-chat-be/internal/pkg/turnlock"
	"neomind-chat-be/internal/repository/implementation"
	"neomind-chat-be/internal/repository/memory"
	"neomind-chat-be/internal/repository/unitofwork"
	"neomind-chat-be/internal/service"
	"neomind-chat-be/pkg/chat"
	"neomind-chat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type echoProvider struct{}

func (echoProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "echo", nil
}

func (echoProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "echo", nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, implementation.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := logger.NewNopLogger()
	factory := unitofwork.NewRepositoryFactory(db)
	issuer := token.NewIssuer("test-secret", time.Hour)
	auth := serverutils.JwtMiddleware(issuer)

	sessions := service.NewChatSessionService(factory, nil, log)
	chatbot := service.NewChatbotService(
		memory.NewWorkspaceRepository(time.Hour),
		sessions,
		chat.NewOrchestrator(echoProvider{}, llm.NewPromptTemplate(constant.ChatSystemPromptV1)),
		turnlock.NewMemoryLocker(),
		nil,
		log,
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewAuthController(service.NewAuthService(factory, issuer, nil, log), 3).RegisterRoutes(api)
	NewUserController(service.NewUserService(factory), auth).RegisterRoutes(api)
	NewChatbotController(chatbot, sessions, auth).RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, tok string, body interface{}) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.BaseResponse[json.RawMessage]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: username + "@example.com", Username: username, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, res := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Identifier: username, Password: "password123",
	})
	require.Equal(t, http.StatusOK, status)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(res.Data, &login))
	return login.AccessToken
}

func TestAuthRoutes(t *testing.T) {
	app := newTestApp(t)
	tok := registerAndLogin(t, app, "alice")

	status, res := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "alice@example.com", Username: "alice2", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, res.Success)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "not-an-email", Username: "bob", Password: "password123",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: "alice", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, res = doJSON(t, app, http.MethodGet, "/api/user/v1/me", tok, nil)
	require.Equal(t, http.StatusOK, status)
	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(res.Data, &me))
	assert.Equal(t, "alice", me.Username)
	assert.NotContains(t, string(res.Data), "password")
}

func TestLoginIsRateLimited(t *testing.T) {
	app := newTestApp(t)
	var last int
	for i := 0; i < 4; i++ {
		last, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: "ghost", Password: "whatever1"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestChatRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	status, _ := doJSON(t, app, http.MethodGet, "/api/chat/v1/workspace", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChatFlow(t *testing.T) {
	app := newTestApp(t)
	tok := registerAndLogin(t, app, "carol")

	status, res := doJSON(t, app, http.MethodPost, "/api/chat/v1/ask", tok, dto.AskRequest{Prompt: "hello"})
	require.Equal(t, http.StatusOK, status)
	var ask dto.AskResponse
	require.NoError(t, json.Unmarshal(res.Data, &ask))
	assert.Equal(t, "echo", ask.Reply)
	assert.True(t, ask.Persisted)
	require.NotNil(t, ask.ChatSessionId)
	assert.Len(t, ask.Messages, 3)

	status, _ = doJSON(t, app, http.MethodPost, "/api/chat/v1/ask", tok, dto.AskRequest{Prompt: ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, res = doJSON(t, app, http.MethodGet, "/api/chat/v1/sessions", tok, nil)
	require.Equal(t, http.StatusOK, status)
	var list []dto.SessionSummaryResponse
	require.NoError(t, json.Unmarshal(res.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Title)

	sessionPath := "/api/chat/v1/sessions/" + ask.ChatSessionId.String()
	status, _ = doJSON(t, app, http.MethodPut, sessionPath+"/messages", tok, dto.UpdateSessionRequest{
		Messages: []dto.ChatMessageDTO{{Role: "user", Content: "edited"}},
	})
	require.Equal(t, http.StatusOK, status)

	status, res = doJSON(t, app, http.MethodGet, sessionPath, tok, nil)
	require.Equal(t, http.StatusOK, status)
	var session dto.ChatSessionResponse
	require.NoError(t, json.Unmarshal(res.Data, &session))
	assert.Equal(t, []dto.ChatMessageDTO{{Role: "user", Content: "edited"}}, session.Messages)

	other := registerAndLogin(t, app, "mallory")
	status, _ = doJSON(t, app, http.MethodGet, sessionPath, other, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, res = doJSON(t, app, http.MethodDelete, sessionPath, tok, nil)
	require.Equal(t, http.StatusOK, status)
	var ws dto.WorkspaceResponse
	require.NoError(t, json.Unmarshal(res.Data, &ws))
	assert.Nil(t, ws.ChatSessionId)

	status, res = doJSON(t, app, http.MethodGet, "/api/chat/v1/sessions", tok, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(res.Data, &list))
	assert.Empty(t, list)
}

func TestCreateAndOpenSession(t *testing.T) {
	app := newTestApp(t)
	tok := registerAndLogin(t, app, "dave")

	status, res := doJSON(t, app, http.MethodPost, "/api/chat/v1/sessions", tok, dto.CreateSessionRequest{
		Title:    "imported",
		Messages: []dto.ChatMessageDTO{{Role: "user", Content: "q"}, {Role: "assistant", Content: "a"}},
	})
	require.Equal(t, http.StatusCreated, status)
	var created dto.CreateSessionResponse
	require.NoError(t, json.Unmarshal(res.Data, &created))

	status, res = doJSON(t, app, http.MethodPost, "/api/chat/v1/sessions/"+created.Id.String()+"/open", tok, nil)
	require.Equal(t, http.StatusOK, status)
	var ws dto.WorkspaceResponse
	require.NoError(t, json.Unmarshal(res.Data, &ws))
	require.NotNil(t, ws.ChatSessionId)
	assert.Equal(t, created.Id, *ws.ChatSessionId)
	assert.Len(t, ws.Messages, 2)

	status, _ = doJSON(t, app, http.MethodPost, "/api/chat/v1/sessions", tok, dto.CreateSessionRequest{
		Messages: []dto.ChatMessageDTO{{Role: "system", Content: "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/chat/v1/workspace/new", tok, nil)
	assert.Equal(t, http.StatusOK, status)
}
