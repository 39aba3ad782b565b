package controller

import (
	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func bindBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Wrap(apperror.ErrValidation, "parse body", err)
	}
	return serverutils.ValidateRequest(req)
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		// a malformed id cannot name a session the caller owns
		return uuid.Nil, apperror.ErrSessionNotFound
	}
	return id, nil
}
