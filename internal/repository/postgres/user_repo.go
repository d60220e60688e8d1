package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
)

const userColumns = `username, first_name, last_name, email, is_admin, password`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, first_name, last_name, email, is_admin, password)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		user.Username, user.FirstName, user.LastName,
		user.Email, user.IsAdmin, user.PasswordHash,
	)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, username string, upd repository.UserUpdate) (*domain.User, error) {
	cols := userUpdateColumns(upd)
	if len(cols) == 0 {
		return nil, errors.New("no fields to update")
	}

	set, args := sqlForPartialUpdate(cols)
	query := fmt.Sprintf("UPDATE users SET %s WHERE username = $%d RETURNING %s", set, len(args)+1, userColumns)
	args = append(args, username)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

// Delete relies on ON DELETE CASCADE for applications and listings, so the
// whole removal is one statement.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func userUpdateColumns(upd repository.UserUpdate) []column {
	var cols []column
	if upd.FirstName != nil {
		cols = append(cols, column{"first_name", *upd.FirstName})
	}
	if upd.LastName != nil {
		cols = append(cols, column{"last_name", *upd.LastName})
	}
	if upd.Email != nil {
		cols = append(cols, column{"email", *upd.Email})
	}
	if upd.PasswordHash != nil {
		cols = append(cols, column{"password", *upd.PasswordHash})
	}
	if upd.IsAdmin != nil {
		cols = append(cols, column{"is_admin", *upd.IsAdmin})
	}
	return cols
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var _ repository.UserRepository = (*UserRepo)(nil)
