package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
)

func seed(t *testing.T) (*Store, int) {
	t.Helper()
	ctx := context.Background()
	s := NewStore()

	for _, u := range []domain.User{
		{Username: "u1", FirstName: "U1F", LastName: "U1L", Email: "user1@user.com", IsAdmin: true},
		{Username: "u2", FirstName: "U2F", LastName: "U2L", Email: "user2@user.com"},
	} {
		u := u
		if err := s.Users().Create(ctx, &u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	job := &domain.Job{Title: "J1", CompanyHandle: "c1"}
	if err := s.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return s, job.ID
}

func TestUserCreateDuplicate(t *testing.T) {
	s, _ := seed(t)
	err := s.Users().Create(context.Background(), &domain.User{Username: "u1"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	u, _ := s.Users().GetByUsername(context.Background(), "u1")
	if u.FirstName != "U1F" {
		t.Fatalf("duplicate create overwrote user: %+v", u)
	}
}

func TestUserListOrdered(t *testing.T) {
	s, _ := seed(t)
	_ = s.Users().Create(context.Background(), &domain.User{Username: "a0"})

	users, err := s.Users().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{users[0].Username, users[1].Username, users[2].Username}
	if got[0] != "a0" || got[1] != "u1" || got[2] != "u2" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestUserUpdatePartial(t *testing.T) {
	s, _ := seed(t)
	name := "New"
	u, err := s.Users().Update(context.Background(), "u2", repository.UserUpdate{FirstName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.FirstName != "New" || u.LastName != "U2L" {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := s.Users().Update(context.Background(), "nope", repository.UserUpdate{FirstName: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestApplicationLifecycle(t *testing.T) {
	s, jobID := seed(t)
	ctx := context.Background()
	apps := s.Applications()

	app := &domain.Application{Username: "u2", JobID: jobID, State: domain.StateApplied}
	if err := apps.Create(ctx, app); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := apps.Create(ctx, app); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	app.State = domain.StateAccepted
	if err := apps.UpdateState(ctx, app); err != nil {
		t.Fatalf("update: %v", err)
	}
	if st, _ := apps.State("u2", jobID); st != domain.StateAccepted {
		t.Fatalf("state = %q", st)
	}

	ids, _ := apps.JobIDs(ctx, "u2")
	if len(ids) != 1 || ids[0] != jobID {
		t.Fatalf("job ids = %v", ids)
	}
}

func TestApplicationMissingParents(t *testing.T) {
	s, jobID := seed(t)
	ctx := context.Background()
	apps := s.Applications()

	tests := []struct {
		name string
		app  domain.Application
		want error
	}{
		{"missing user", domain.Application{Username: "nope", JobID: jobID}, domain.ErrUserNotFound},
		{"missing job", domain.Application{Username: "u2", JobID: 0}, domain.ErrJobNotFound},
	}
	for _, tt := range tests {
		if err := apps.Create(ctx, &tt.app); !errors.Is(err, tt.want) {
			t.Errorf("%s create: got %v, want %v", tt.name, err, tt.want)
		}
		if err := apps.UpdateState(ctx, &tt.app); !errors.Is(err, tt.want) {
			t.Errorf("%s update: got %v, want %v", tt.name, err, tt.want)
		}
	}

	err := apps.UpdateState(ctx, &domain.Application{Username: "u2", JobID: jobID, State: domain.StateAccepted})
	if !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	s, jobID := seed(t)
	ctx := context.Background()

	_ = s.Applications().Create(ctx, &domain.Application{Username: "u2", JobID: jobID, State: domain.StateApplied})
	listing := &domain.Listing{Name: "Cabin", HostUsername: "u2"}
	if err := s.Listings().Create(ctx, listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if err := s.Users().Delete(ctx, "u2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Applications().State("u2", jobID); ok {
		t.Fatal("application survived user delete")
	}
	if l, _ := s.Listings().GetByID(ctx, listing.ID); l != nil {
		t.Fatal("listing survived host delete")
	}
	if err := s.Users().Delete(ctx, "u2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListingSearchJoinsHost(t *testing.T) {
	s, _ := seed(t)
	ctx := context.Background()

	for _, name := range []string{"Beach House", "Mountain Cabin", "beachfront loft"} {
		if err := s.Listings().Create(ctx, &domain.Listing{Name: name, HostUsername: "u1"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	found, err := s.Listings().Search(ctx, "BEACH")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}
	if found[0].Host == nil || found[0].Host.FirstName != "U1F" {
		t.Fatalf("host not joined: %+v", found[0])
	}

	if err := s.Listings().Create(ctx, &domain.Listing{Name: "x", HostUsername: "ghost"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestJobListFilter(t *testing.T) {
	s, _ := seed(t)
	ctx := context.Background()
	salary := 200
	equity := 0.1
	_ = s.Jobs().Create(ctx, &domain.Job{Title: "Engineer", Salary: &salary, Equity: &equity})

	jobs, _ := s.Jobs().List(ctx, domain.JobFilter{MinSalary: 100})
	if len(jobs) != 1 || jobs[0].Title != "Engineer" {
		t.Fatalf("min salary filter: %+v", jobs)
	}
	jobs, _ = s.Jobs().List(ctx, domain.JobFilter{Title: "j"})
	if len(jobs) != 1 || jobs[0].Title != "J1" {
		t.Fatalf("title filter: %+v", jobs)
	}
	jobs, _ = s.Jobs().List(ctx, domain.JobFilter{HasEquity: true})
	if len(jobs) != 1 {
		t.Fatalf("equity filter: %+v", jobs)
	}
}

func TestJobDoesNotAliasCallerPointers(t *testing.T) {
	s, _ := seed(t)
	ctx := context.Background()
	salary := 100
	equity := 0.2

	job := &domain.Job{Title: "Engineer", Salary: &salary, Equity: &equity, CompanyHandle: "c1"}
	if err := s.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}
	salary = 1
	equity = 0.9

	got, _ := s.Jobs().GetByID(ctx, job.ID)
	if *got.Salary != 100 || *got.Equity != 0.2 {
		t.Fatalf("stored job changed with caller input: salary=%d equity=%v", *got.Salary, *got.Equity)
	}

	*got.Salary = 5
	again, _ := s.Jobs().GetByID(ctx, job.ID)
	if *again.Salary != 100 {
		t.Fatalf("stored job changed through a returned pointer: %d", *again.Salary)
	}
}
