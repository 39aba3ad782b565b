package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperror.Wrap(apperror.ErrDuplicateCredential, "register", errors.New("dup")), 409},
		{apperror.ErrInvalidCredentials, 401},
		{apperror.Persistence("create", errors.New("conn refused")), 500},
		{apperror.Upstream("generate", errors.New("timeout")), 502},
		{apperror.ErrSessionNotFound, 404},
		{apperror.ErrTurnInProgress, 409},
		{apperror.ErrValidation, 400},
		{fiber.NewError(fiber.StatusTeapot, "tea"), 418},
		{errors.New("anything"), 500},
	}
	for _, tc := range cases {
		status, _ := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

func TestStatusForHidesCause(t *testing.T) {
	_, msg := StatusFor(apperror.Persistence("create session", errors.New("pq: password authentication failed")))
	assert.Equal(t, apperror.ErrPersistence.Error(), msg)
}

type sample struct {
	Email string `validate:"required,email"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sample{Email: "a@example.com"}))

	err := ValidateRequest(sample{Email: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "Email")
}

func TestErrorHandlerMiddlewareRendersEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return apperror.ErrSessionNotFound
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, 404, body.Code)
}

func TestJwtMiddleware(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	userId := uuid.New()
	tok, _, err := issuer.Issue(userId)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(JwtMiddleware(issuer))
	app.Get("/me", func(ctx *fiber.Ctx) error {
		id, err := CurrentUserId(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(id.String())
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me?token="+tok, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
