package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vedran77/jobly/internal/auth"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
	"github.com/vedran77/jobly/pkg/validator"
)

// AuthService handles self-registration and password login. Both are open
// to anonymous callers.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   resolveLogger(logger),
	}
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=25,username"`
	Password  string `json:"password" validate:"required,min=5,max=20"`
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,max=60"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,max=25"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Register creates a non-admin account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*TokenResponse, error) {
	if errs := validator.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("user registered", "username", user.Username)
	return &TokenResponse{Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	if errs := validator.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil || !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &TokenResponse{Token: token}, nil
}
