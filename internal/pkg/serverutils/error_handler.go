package serverutils

import (
	"errors"

	"neomind-chat-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type errorStatus struct {
	kind   error
	status int
}

var errorStatuses = []errorStatus{
	{apperror.ErrValidation, fiber.StatusBadRequest},
	{apperror.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{apperror.ErrSessionNotFound, fiber.StatusNotFound},
	{apperror.ErrDuplicateCredential, fiber.StatusConflict},
	{apperror.ErrTurnInProgress, fiber.StatusConflict},
	{apperror.ErrUpstream, fiber.StatusBadGateway},
	{apperror.ErrPersistence, fiber.StatusInternalServerError},
}

// StatusFor maps an error to the HTTP status and client message it surfaces as.
func StatusFor(err error) (int, string) {
	for _, es := range errorStatuses {
		if errors.Is(err, es.kind) {
			if es.kind == apperror.ErrValidation {
				return es.status, err.Error()
			}
			// causes may carry driver or upstream detail
			return es.status, es.kind.Error()
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, "internal server error"
}

// ErrorHandlerMiddleware renders errors returned by later handlers as the response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, message := StatusFor(err)
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
