package repository

import (
	"context"

	"github.com/vedran77/jobly/internal/domain"
)

// Lookups return (nil, nil) when the row does not exist. Mutations report
// missing rows and duplicates with the domain sentinel errors.

type UserRepository interface {
	// Create fails with domain.ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns all users ordered by username.
	List(ctx context.Context) ([]domain.User, error)
	// Update applies the non-nil fields of upd and returns the stored user.
	Update(ctx context.Context, username string, upd UserUpdate) (*domain.User, error)
	// Delete removes the user together with their applications and listings.
	Delete(ctx context.Context, username string) error
}

// UserUpdate is the allow-listed set of user columns a partial update may
// touch.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}

func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.PasswordHash == nil && u.IsAdmin == nil
}

type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id int) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	Delete(ctx context.Context, id int) error
}

type ApplicationRepository interface {
	// Create checks that user and job exist and inserts the application in
	// one transaction. A duplicate (username, jobID) fails with
	// domain.ErrAlreadyApplied.
	Create(ctx context.Context, app *domain.Application) error
	// UpdateState moves an existing application to app.State if the
	// current state allows it (see domain.ApplicationState.CanTransition).
	UpdateState(ctx context.Context, app *domain.Application) error
	// JobIDs returns the job ids username has applied to, ascending.
	JobIDs(ctx context.Context, username string) ([]int, error)
	// JobIDsByUser returns JobIDs for every user with at least one
	// application.
	JobIDsByUser(ctx context.Context) (map[string][]int, error)
}

type ListingRepository interface {
	// Create fails with domain.ErrUserNotFound when the host does not exist.
	Create(ctx context.Context, listing *domain.Listing) error
	List(ctx context.Context) ([]domain.ListingSummary, error)
	// Search matches term case-insensitively against listing names and
	// returns full listings with their host.
	Search(ctx context.Context, term string) ([]domain.Listing, error)
	GetByID(ctx context.Context, id int) (*domain.Listing, error)
	Delete(ctx context.Context, id int) error
}
