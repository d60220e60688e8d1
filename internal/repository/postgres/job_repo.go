package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
)

const jobColumns = `id, title, salary, equity, company_handle`

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

func (r *JobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.pool.QueryRow(ctx, query, job.Title, job.Salary, job.Equity, job.CompanyHandle).Scan(&job.ID)
}

func (r *JobRepo) GetByID(ctx context.Context, id int) (*domain.Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

func (r *JobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var where []string
	var args []any

	if filter.Title != "" {
		args = append(args, containsPattern(filter.Title))
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.MinSalary > 0 {
		args = append(args, filter.MinSalary)
		where = append(where, fmt.Sprintf("salary >= $%d", len(args)))
	}
	if filter.HasEquity {
		where = append(where, "equity > 0")
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY title, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *JobRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return &j, nil
}

var _ repository.JobRepository = (*JobRepo)(nil)
