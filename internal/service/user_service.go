package service

import (
	"context"

	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/mapper"
	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	userMapper *mapper.UserMapper
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
		userMapper: mapper.NewUserMapper(),
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, apperror.Persistence("find user", err)
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	res := s.userMapper.ToDTO(user)
	return &res, nil
}
