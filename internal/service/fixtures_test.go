package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vedran77/jobly/internal/auth"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository/memory"
)

var (
	adminP = &domain.Principal{Username: "u1", IsAdmin: true}
	u2P    = &domain.Principal{Username: "u2"}
)

type recordingNotifier struct {
	mu      sync.Mutex
	created []domain.Application
	updated []domain.Application
}

func (n *recordingNotifier) NotifyApplicationCreated(app domain.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, app)
}

func (n *recordingNotifier) NotifyApplicationUpdated(app domain.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated = append(n.updated, app)
}

type fixture struct {
	store    *memory.Store
	tokens   *auth.Tokens
	users    *UserService
	auth     *AuthService
	jobs     *JobService
	listings *ListingService
	notifier *recordingNotifier
	jobIDs   []int
}

// newFixture seeds u1 (admin), u2 and u3 with password "password<n>",
// three jobs, and applications from u1 to the first two jobs.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	tokens := auth.NewTokens("test-secret", time.Hour)

	f := &fixture{
		store:    store,
		tokens:   tokens,
		users:    NewUserService(store.Users(), store.Applications(), tokens, nil),
		auth:     NewAuthService(store.Users(), tokens, nil),
		jobs:     NewJobService(store.Jobs(), nil),
		listings: NewListingService(store.Listings(), nil),
		notifier: &recordingNotifier{},
	}
	f.users.SetNotifier(f.notifier)

	for i, u := range []domain.User{
		{Username: "u1", FirstName: "U1F", LastName: "U1L", Email: "user1@user.com", IsAdmin: true},
		{Username: "u2", FirstName: "U2F", LastName: "U2L", Email: "user2@user.com"},
		{Username: "u3", FirstName: "U3F", LastName: "U3L", Email: "user3@user.com"},
	} {
		hash, err := auth.HashPassword("password" + string(rune('1'+i)))
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		u.PasswordHash = hash
		if err := store.Users().Create(ctx, &u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	for _, title := range []string{"J1", "J2", "J3"} {
		job := &domain.Job{Title: title, CompanyHandle: "c1"}
		if err := store.Jobs().Create(ctx, job); err != nil {
			t.Fatalf("seed job: %v", err)
		}
		f.jobIDs = append(f.jobIDs, job.ID)
	}

	for _, id := range f.jobIDs[:2] {
		app := &domain.Application{Username: "u1", JobID: id, State: domain.StateApplied}
		if err := store.Applications().Create(ctx, app); err != nil {
			t.Fatalf("seed application: %v", err)
		}
	}

	return f
}
