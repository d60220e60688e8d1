package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/pkg/validator"
)

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	salary := 100000
	equity := 0.05

	job, err := f.jobs.Create(ctx, adminP, CreateJobInput{Title: "Engineer", Salary: &salary, Equity: &equity, CompanyHandle: "c1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected id")
	}

	if _, err := f.jobs.Create(ctx, u2P, CreateJobInput{Title: "x", CompanyHandle: "c1"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	tooMuch := 1.5
	var verrs validator.ValidationErrors
	if _, err := f.jobs.Create(ctx, adminP, CreateJobInput{Title: "x", Equity: &tooMuch}); !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if verrs["equity"] == "" || verrs["companyHandle"] == "" {
		t.Fatalf("expected equity and companyHandle violations, got %v", verrs)
	}
}

func TestDeleteJobRemovesApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.jobs.Delete(ctx, adminP, f.jobIDs[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	user, _ := f.users.Get(ctx, adminP, "u1")
	if len(user.Jobs) != 1 || user.Jobs[0] != f.jobIDs[1] {
		t.Fatalf("u1 jobs = %v", user.Jobs)
	}
	if _, err := f.jobs.Get(ctx, f.jobIDs[0]); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListJobsRejectsNegativeSalary(t *testing.T) {
	f := newFixture(t)

	var verrs validator.ValidationErrors
	if _, err := f.jobs.List(context.Background(), domain.JobFilter{MinSalary: -1}); !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}
