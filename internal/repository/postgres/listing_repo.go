package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
)

const listingWithHostQuery = `
	SELECT l.id, l.name, l.description, l.price, l.zipcode, l.capacity,
	       l.photo_url, l.amenities, u.username, u.first_name, u.last_name
	FROM listings l
	JOIN users u ON u.username = l.host_username`

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	query := `
		INSERT INTO listings (name, description, price, zipcode, capacity, photo_url, amenities, host_username)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		l.Name, l.Description, l.Price, l.Zipcode,
		l.Capacity, l.PhotoURL, l.Amenities, l.HostUsername,
	).Scan(&l.ID)
	if foreignKeyConstraint(err) != "" {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *ListingRepo) List(ctx context.Context) ([]domain.ListingSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, zipcode, capacity, photo_url
		FROM listings
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ListingSummary{}
	for rows.Next() {
		var s domain.ListingSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Zipcode, &s.Capacity, &s.PhotoURL); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ListingRepo) Search(ctx context.Context, term string) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx,
		listingWithHostQuery+` WHERE l.name ILIKE $1 ORDER BY l.id`, containsPattern(term))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListingWithHost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *ListingRepo) GetByID(ctx context.Context, id int) (*domain.Listing, error) {
	l, err := scanListingWithHost(r.pool.QueryRow(ctx, listingWithHostQuery+` WHERE l.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (r *ListingRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func scanListingWithHost(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	var h domain.Host
	err := row.Scan(
		&l.ID, &l.Name, &l.Description, &l.Price, &l.Zipcode, &l.Capacity,
		&l.PhotoURL, &l.Amenities, &h.Username, &h.FirstName, &h.LastName,
	)
	if err != nil {
		return nil, err
	}
	l.HostUsername = h.Username
	l.Host = &h
	return &l, nil
}

var _ repository.ListingRepository = (*ListingRepo)(nil)
