package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vedran77/jobly/internal/auth"
	"github.com/vedran77/jobly/internal/authz"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
	"github.com/vedran77/jobly/pkg/validator"
)

// UserService manages users and their job applications. Every method takes
// the acting principal and checks it before touching storage, so callers
// without access never learn whether a user exists.
type UserService struct {
	userRepo repository.UserRepository
	appRepo  repository.ApplicationRepository
	tokens   TokenIssuer
	notifier ApplicationNotifier
	logger   *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	appRepo repository.ApplicationRepository,
	tokens TokenIssuer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		appRepo:  appRepo,
		tokens:   tokens,
		logger:   resolveLogger(logger),
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *UserService) SetNotifier(n ApplicationNotifier) {
	s.notifier = n
}

// CreateUserInput is the admin form of registration. Password may be
// omitted; the account then cannot log in until one is set.
type CreateUserInput struct {
	Username  string `json:"username" validate:"required,max=25,username"`
	Password  string `json:"password" validate:"omitempty,min=5,max=20"`
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UpdateUserInput lists the only fields a user update may carry.
type UpdateUserInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=30"`
	Email     *string `json:"email" validate:"omitempty,email,max=60"`
	Password  *string `json:"password" validate:"omitempty,min=5,max=20"`
	IsAdmin   *bool   `json:"isAdmin"`
}

type UserWithToken struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *UserService) Create(ctx context.Context, p *domain.Principal, input CreateUserInput) (*UserWithToken, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	var hash string
	if input.Password != "" {
		var err error
		hash, err = auth.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
	}

	user := &domain.User{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		IsAdmin:      input.IsAdmin,
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

	s.logger.Info("user created", "username", user.Username, "is_admin", user.IsAdmin, "by", p.Username)
	return &UserWithToken{User: user, Token: token}, nil
}

// List returns every user, ordered by username, with their applied job ids.
func (s *UserService) List(ctx context.Context, p *domain.Principal) ([]domain.UserWithJobs, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	jobsByUser, err := s.appRepo.JobIDsByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	out := make([]domain.UserWithJobs, len(users))
	for i, u := range users {
		out[i] = domain.UserWithJobs{User: u, Jobs: nonNil(jobsByUser[u.Username])}
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, p *domain.Principal, username string) (*domain.UserWithJobs, error) {
	if err := authz.RequireSelfOrAdmin(p, username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	jobs, err := s.appRepo.JobIDs(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	return &domain.UserWithJobs{User: *user, Jobs: nonNil(jobs)}, nil
}

// Update applies a partial update. Changing isAdmin additionally requires
// an admin principal.
func (s *UserService) Update(ctx context.Context, p *domain.Principal, username string, input UpdateUserInput) (*domain.User, error) {
	if err := authz.RequireSelfOrAdmin(p, username); err != nil {
		return nil, err
	}
	if input.IsAdmin != nil {
		if err := authz.RequireAdmin(p); err != nil {
			return nil, err
		}
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	upd := repository.UserUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		IsAdmin:   input.IsAdmin,
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return nil, validator.ValidationErrors{"body": "at least one field is required"}
	}

	user, err := s.userRepo.Update(ctx, username, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", "username", username, "by", p.Username, "password_changed", input.Password != nil)
	return user, nil
}

// Delete removes the user and, through the store, their applications and
// hosted listings. It returns the deleted username.
func (s *UserService) Delete(ctx context.Context, p *domain.Principal, username string) (string, error) {
	if err := authz.RequireSelfOrAdmin(p, username); err != nil {
		return "", err
	}

	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("user deleted", "username", username, "by", p.Username)
	return username, nil
}

// ApplyToJob records an application in domain.InitialApplicationState and
// returns the job id.
func (s *UserService) ApplyToJob(ctx context.Context, p *domain.Principal, username string, jobID int) (int, error) {
	if err := authz.RequireSelfOrAdmin(p, username); err != nil {
		return 0, err
	}

	app := domain.Application{Username: username, JobID: jobID, State: domain.InitialApplicationState}
	if err := s.appRepo.Create(ctx, &app); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("creating application: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyApplicationCreated(app)
	}
	return jobID, nil
}

// UpdateApplicationState overwrites the state of an existing application
// with any recognised label.
func (s *UserService) UpdateApplicationState(ctx context.Context, p *domain.Principal, username string, jobID int, label string) (domain.ApplicationState, error) {
	if err := authz.RequireSelfOrAdmin(p, username); err != nil {
		return "", err
	}

	state, ok := domain.ParseApplicationState(label)
	if !ok {
		return "", validator.ValidationErrors{"state": "must be one of: " + domain.StateLabels()}
	}

	app := domain.Application{Username: username, JobID: jobID, State: state}
	if err := s.appRepo.UpdateState(ctx, &app); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		return "", fmt.Errorf("updating application: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyApplicationUpdated(app)
	}
	return state, nil
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
