package controller

import (
	"time"

	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/pkg/serverutils"
	"neomind-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	loginLimiter fiber.Handler
}

// NewAuthController limits login attempts to loginMax per minute per client IP.
func NewAuthController(service service.IAuthService, loginMax int) IAuthController {
	return &authController{
		service: service,
		loginLimiter: limiter.New(limiter.Config{
			Max:        loginMax,
			Expiration: time.Minute,
			LimitReached: func(ctx *fiber.Ctx) error {
				return ctx.Status(fiber.StatusTooManyRequests).
					JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "Too many login attempts, try again later"))
			},
		}),
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.loginLimiter, c.Login)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(&serverutils.BaseResponse[*dto.RegisterResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "User registered successfully",
		Data:    res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login success", res))
}
