package controller

import (
	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/mapper"
	"neomind-chat-be/internal/pkg/serverutils"
	"neomind-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Workspace(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	UpdateSession(ctx *fiber.Ctx) error
	OpenSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService     service.IChatbotService
	chatSessionService service.IChatSessionService
	chatMapper         *mapper.ChatMapper
	auth               fiber.Handler
}

func NewChatbotController(
	chatbotService service.IChatbotService,
	chatSessionService service.IChatSessionService,
	auth fiber.Handler,
) IChatbotController {
	return &chatbotController{
		chatbotService:     chatbotService,
		chatSessionService: chatSessionService,
		chatMapper:         mapper.NewChatMapper(),
		auth:               auth,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(c.auth)
	h.Get("/workspace", c.Workspace)
	h.Post("/workspace/new", c.NewChat)
	h.Post("/ask", c.Ask)

	h.Get("/sessions", c.ListSessions)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:id", c.GetSession)
	h.Put("/sessions/:id/messages", c.UpdateSession)
	h.Post("/sessions/:id/open", c.OpenSession)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func (c *chatbotController) Workspace(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.Workspace(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Workspace", res))
}

func (c *chatbotController) NewChat(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.NewChat(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("New chat started", res))
}

func (c *chatbotController) Ask(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AskRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatbotService.Ask(ctx.UserContext(), userId, req.Prompt)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) ListSessions(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatSessionService.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	id, err := c.chatSessionService.Create(ctx.UserContext(), userId, req.Title, c.chatMapper.MessagesFromDTO(req.Messages))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(&serverutils.BaseResponse[*dto.CreateSessionResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Success create session",
		Data:    &dto.CreateSessionResponse{Id: id},
	})
}

func (c *chatbotController) GetSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	session, err := c.chatSessionService.Get(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", c.chatMapper.ChatSessionToDTO(session)))
}

func (c *chatbotController) UpdateSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateSessionRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	if err := c.chatSessionService.Update(ctx.UserContext(), userId, sessionId, c.chatMapper.MessagesFromDTO(req.Messages)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success update session", nil))
}

func (c *chatbotController) OpenSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.OpenSession(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session opened", res))
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.DeleteSession(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}
