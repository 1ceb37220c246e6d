package venues

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, venue *Venue) error
	GetByCode(ctx context.Context, publicCode string) (*Venue, error)
	List(ctx context.Context, limit, offset int) ([]VenueListing, error)
}

type Repository struct {
	db    *pgxpool.Pool
	codes *CodeGenerator
}

func NewRepository(db *pgxpool.Pool, codes *CodeGenerator) Store {
	return &Repository{db: db, codes: codes}
}

// Create inserts the venue and then mints its public code from the
// assigned id in the same transaction.
func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	query := `
		INSERT INTO venues (name, address, city, description, phone_number, open_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		venue.Name,
		venue.Address,
		venue.City,
		venue.Description,
		venue.PhoneNumber,
		venue.OpenTime,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		return err
	}

	code, err := r.codes.Generate(venue.ID)
	if err != nil {
		return err
	}
	venue.PublicCode = code

	if _, err := tx.Exec(ctx, `UPDATE venues SET public_code = $1 WHERE id = $2`, code, venue.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetByCode(ctx context.Context, publicCode string) (*Venue, error) {
	query := `
		SELECT id, public_code, name, address, city, description, phone_number, open_time, created_at, updated_at
		FROM venues
		WHERE public_code = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var venue Venue
	err := r.db.QueryRow(ctx, query, publicCode).Scan(
		&venue.ID,
		&venue.PublicCode,
		&venue.Name,
		&venue.Address,
		&venue.City,
		&venue.Description,
		&venue.PhoneNumber,
		&venue.OpenTime,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &venue, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]VenueListing, error) {
	query := `
		SELECT v.id, v.public_code, v.name, v.address, v.city, v.phone_number, v.open_time,
		       COUNT(r.id) AS total_reviews,
		       COALESCE(AVG(r.rating), 0) AS average_rating
		FROM venues v
		LEFT JOIN reviews r ON r.venue_id = v.id
		GROUP BY v.id
		ORDER BY v.created_at DESC
		LIMIT $1 OFFSET $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []VenueListing
	for rows.Next() {
		var l VenueListing
		err := rows.Scan(
			&l.ID,
			&l.PublicCode,
			&l.Name,
			&l.Address,
			&l.City,
			&l.PhoneNumber,
			&l.OpenTime,
			&l.TotalReviews,
			&l.AverageRating,
		)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
