package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

// Create runs the existence checks and the insert in one transaction. The
// (username, job_id) primary key is what actually rejects duplicates; the
// checks only pick the right error for missing parents.
func (r *ApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := checkUserAndJob(ctx, tx, app.Username, app.JobID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO applications (username, job_id, state) VALUES ($1, $2, $3)`,
			app.Username, app.JobID, string(app.State),
		)
		return mapApplicationWriteError(err)
	})
}

func (r *ApplicationRepo) UpdateState(ctx context.Context, app *domain.Application) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := checkUserAndJob(ctx, tx, app.Username, app.JobID); err != nil {
			return err
		}

		var current string
		err := tx.QueryRow(ctx,
			`SELECT state FROM applications WHERE username = $1 AND job_id = $2 FOR UPDATE`,
			app.Username, app.JobID,
		).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrApplicationNotFound
		}
		if err != nil {
			return err
		}
		if !domain.ApplicationState(current).CanTransition(app.State) {
			return domain.ErrInvalidTransition
		}

		_, err = tx.Exec(ctx,
			`UPDATE applications SET state = $3 WHERE username = $1 AND job_id = $2`,
			app.Username, app.JobID, string(app.State),
		)
		return err
	})
}

func (r *ApplicationRepo) JobIDs(ctx context.Context, username string) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`, username)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

func (r *ApplicationRepo) JobIDsByUser(ctx context.Context) (map[string][]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT username, job_id FROM applications ORDER BY username, job_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]int)
	for rows.Next() {
		var username string
		var jobID int
		if err := rows.Scan(&username, &jobID); err != nil {
			return nil, err
		}
		out[username] = append(out[username], jobID)
	}
	return out, rows.Err()
}

func checkUserAndJob(ctx context.Context, tx pgx.Tx, username string, jobID int) error {
	var userExists, jobExists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1),
		       EXISTS (SELECT 1 FROM jobs WHERE id = $2)`,
		username, jobID,
	).Scan(&userExists, &jobExists)
	if err != nil {
		return err
	}
	if !userExists {
		return domain.ErrUserNotFound
	}
	if !jobExists {
		return domain.ErrJobNotFound
	}
	return nil
}

// mapApplicationWriteError covers the races the existence check cannot: a
// concurrent insert of the same pair, or a parent deleted in between.
func mapApplicationWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.ErrAlreadyApplied
	}
	if constraint := foreignKeyConstraint(err); constraint != "" {
		if strings.Contains(constraint, "job") {
			return domain.ErrJobNotFound
		}
		return domain.ErrUserNotFound
	}
	return err
}

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)
