package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vedran77/jobly/internal/authz"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
	"github.com/vedran77/jobly/pkg/validator"
)

type JobService struct {
	jobRepo repository.JobRepository
	logger  *slog.Logger
}

func NewJobService(jobRepo repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{jobRepo: jobRepo, logger: resolveLogger(logger)}
}

type CreateJobInput struct {
	Title         string   `json:"title" validate:"required,max=100"`
	Salary        *int     `json:"salary" validate:"omitempty,gte=0"`
	Equity        *float64 `json:"equity" validate:"omitempty,gte=0,lte=1"`
	CompanyHandle string   `json:"companyHandle" validate:"required,max=25"`
}

func (s *JobService) Create(ctx context.Context, p *domain.Principal, input CreateJobInput) (*domain.Job, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	job := &domain.Job{
		Title:         input.Title,
		Salary:        input.Salary,
		Equity:        input.Equity,
		CompanyHandle: input.CompanyHandle,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Info("job created", "job_id", job.ID, "by", p.Username)
	return job, nil
}

func (s *JobService) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if filter.MinSalary < 0 {
		return nil, validator.ValidationErrors{"minSalary": "must be at least 0"}
	}

	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, id int) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

// Delete removes a job and every application to it.
func (s *JobService) Delete(ctx context.Context, p *domain.Principal, id int) (int, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return 0, err
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("deleting job: %w", err)
	}

	s.logger.Info("job deleted", "job_id", id, "by", p.Username)
	return id, nil
}
