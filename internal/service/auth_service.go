package service

import (
	"context"
	"errors"
	"strings"

	"neomind-chat-be/internal/constant"
	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/mapper"
	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/internal/pkg/logger"
	"neomind-chat-be/internal/pkg/token"
	"neomind-chat-be/internal/repository/contract"
	"neomind-chat-be/internal/repository/unitofwork"
	"neomind-chat-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	issuer         *token.Issuer
	eventPublisher events.Publisher
	logger         logger.ILogger
	userMapper     *mapper.UserMapper
	hashCost       int
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	issuer *token.Issuer,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		issuer:         issuer,
		eventPublisher: eventPublisher,
		logger:         log,
		userMapper:     mapper.NewUserMapper(),
		hashCost:       bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	// the DTO limit counts runes, bcrypt counts bytes
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperror.Wrap(apperror.ErrValidation, "hash password", err)
	}
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("begin register", err)
	}
	defer uow.Rollback()

	exists, err := uow.UserRepository().ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, apperror.Persistence("check credentials", err)
	}
	if exists {
		return nil, apperror.ErrDuplicateCredential
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.Wrap(apperror.ErrDuplicateCredential, "create user", err)
		}
		return nil, apperror.Persistence("create user", err)
	}

	if err := uow.Commit(); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.Wrap(apperror.ErrDuplicateCredential, "commit register", err)
		}
		return nil, apperror.Persistence("commit register", err)
	}

	s.logger.Info("Auth", "User registered", map[string]interface{}{"user_id": user.Id})
	publishEvent(ctx, s.eventPublisher, s.logger, constant.EventUserRegistered, map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	})

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email, Username: user.Username}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		return nil, apperror.Persistence("find user", err)
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.issuer.Issue(user.Id)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.eventPublisher, s.logger, constant.EventUserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
	})

	return &dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        s.userMapper.ToDTO(user),
	}, nil
}
