// Package memory keeps every repository in process memory. It backs the
// test suites and STORE=memory local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
)

type appKey struct {
	username string
	jobID    int
}

// Store holds all tables behind one lock so multi-table operations are
// atomic, as they are inside a database transaction.
type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	jobs         map[int]domain.Job
	applications map[appKey]domain.ApplicationState
	listings     map[int]domain.Listing

	nextJobID     int
	nextListingID int
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		jobs:          make(map[int]domain.Job),
		applications:  make(map[appKey]domain.ApplicationState),
		listings:      make(map[int]domain.Listing),
		nextJobID:     1,
		nextListingID: 1,
	}
}

func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
func (s *Store) Jobs() *JobRepo                 { return &JobRepo{s: s} }
func (s *Store) Applications() *ApplicationRepo { return &ApplicationRepo{s: s} }
func (s *Store) Listings() *ListingRepo         { return &ListingRepo{s: s} }

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Username]; exists {
		return domain.ErrUsernameTaken
	}
	r.s.users[user.Username] = *user
	return nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *UserRepo) Update(_ context.Context, username string, upd repository.UserUpdate) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	r.s.users[username] = u
	return &u, nil
}

func (r *UserRepo) Delete(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, username)

	for key := range r.s.applications {
		if key.username == username {
			delete(r.s.applications, key)
		}
	}
	for id, l := range r.s.listings {
		if l.HostUsername == username {
			delete(r.s.listings, id)
		}
	}
	return nil
}

type JobRepo struct{ s *Store }

func (r *JobRepo) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	job.ID = r.s.nextJobID
	r.s.nextJobID++
	r.s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *JobRepo) GetByID(_ context.Context, id int) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	j = cloneJob(j)
	return &j, nil
}

func (r *JobRepo) List(_ context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	title := strings.ToLower(filter.Title)
	jobs := []domain.Job{}
	for _, j := range r.s.jobs {
		if title != "" && !strings.Contains(strings.ToLower(j.Title), title) {
			continue
		}
		if filter.MinSalary > 0 && (j.Salary == nil || *j.Salary < filter.MinSalary) {
			continue
		}
		if filter.HasEquity && (j.Equity == nil || *j.Equity <= 0) {
			continue
		}
		jobs = append(jobs, cloneJob(j))
	}
	sort.Slice(jobs, func(i, k int) bool {
		if jobs[i].Title != jobs[k].Title {
			return jobs[i].Title < jobs[k].Title
		}
		return jobs[i].ID < jobs[k].ID
	})
	return jobs, nil
}

func (r *JobRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.s.jobs, id)

	for key := range r.s.applications {
		if key.jobID == id {
			delete(r.s.applications, key)
		}
	}
	return nil
}

// cloneJob copies the nullable fields so stored jobs never share memory
// with callers.
func cloneJob(j domain.Job) domain.Job {
	if j.Salary != nil {
		salary := *j.Salary
		j.Salary = &salary
	}
	if j.Equity != nil {
		equity := *j.Equity
		j.Equity = &equity
	}
	return j
}

type ApplicationRepo struct{ s *Store }

func (r *ApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkUserAndJob(app.Username, app.JobID); err != nil {
		return err
	}
	key := appKey{username: app.Username, jobID: app.JobID}
	if _, exists := r.s.applications[key]; exists {
		return domain.ErrAlreadyApplied
	}
	r.s.applications[key] = app.State
	return nil
}

func (r *ApplicationRepo) UpdateState(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkUserAndJob(app.Username, app.JobID); err != nil {
		return err
	}
	key := appKey{username: app.Username, jobID: app.JobID}
	current, exists := r.s.applications[key]
	if !exists {
		return domain.ErrApplicationNotFound
	}
	if !current.CanTransition(app.State) {
		return domain.ErrInvalidTransition
	}
	r.s.applications[key] = app.State
	return nil
}

// State returns the stored state of an application.
func (r *ApplicationRepo) State(username string, jobID int) (domain.ApplicationState, bool) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.applications[appKey{username: username, jobID: jobID}]
	return st, ok
}

func (r *ApplicationRepo) JobIDs(_ context.Context, username string) ([]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []int{}
	for key := range r.s.applications {
		if key.username == username {
			ids = append(ids, key.jobID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *ApplicationRepo) JobIDsByUser(_ context.Context) (map[string][]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string][]int)
	for key := range r.s.applications {
		out[key.username] = append(out[key.username], key.jobID)
	}
	for _, ids := range out {
		sort.Ints(ids)
	}
	return out, nil
}

// checkUserAndJob must be called with s.mu held.
func (s *Store) checkUserAndJob(username string, jobID int) error {
	if _, ok := s.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := s.jobs[jobID]; !ok {
		return domain.ErrJobNotFound
	}
	return nil
}

type ListingRepo struct{ s *Store }

func (r *ListingRepo) Create(_ context.Context, listing *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[listing.HostUsername]; !ok {
		return domain.ErrUserNotFound
	}
	listing.ID = r.s.nextListingID
	r.s.nextListingID++

	stored := *listing
	stored.Host = nil
	r.s.listings[listing.ID] = stored
	return nil
}

func (r *ListingRepo) List(_ context.Context) ([]domain.ListingSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.ListingSummary, 0, len(r.s.listings))
	for _, l := range r.s.listings {
		out = append(out, domain.ListingSummary{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Zipcode:  l.Zipcode,
			Capacity: l.Capacity,
			PhotoURL: l.PhotoURL,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ListingRepo) Search(_ context.Context, term string) ([]domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	term = strings.ToLower(term)
	out := []domain.Listing{}
	for _, l := range r.s.listings {
		if !strings.Contains(strings.ToLower(l.Name), term) {
			continue
		}
		out = append(out, r.s.withHost(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ListingRepo) GetByID(_ context.Context, id int) (*domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.listings[id]
	if !ok {
		return nil, nil
	}
	l = r.s.withHost(l)
	return &l, nil
}

func (r *ListingRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.s.listings, id)
	return nil
}

// withHost must be called with s.mu held.
func (s *Store) withHost(l domain.Listing) domain.Listing {
	if u, ok := s.users[l.HostUsername]; ok {
		l.Host = &domain.Host{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
	}
	return l
}

var (
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.JobRepository         = (*JobRepo)(nil)
	_ repository.ApplicationRepository = (*ApplicationRepo)(nil)
	_ repository.ListingRepository     = (*ListingRepo)(nil)
)
