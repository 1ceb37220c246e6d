package venuereviews

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, venueCode string, review *Review) error
	ListByVenueCode(ctx context.Context, venueCode string) ([]Review, error)
	Stats(ctx context.Context, venueCode string) (total int, average float64, err error)
	Delete(ctx context.Context, reviewID int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// Create inserts a review scoped to the venue with the given public
// code. A code that matches no venue is reported as pgx.ErrNoRows.
func (r *Repository) Create(ctx context.Context, venueCode string, review *Review) error {
	query := `
		INSERT INTO reviews (venue_id, user_id, rating, comment)
		SELECT v.id, $2, $3, $4
		FROM venues v
		WHERE v.public_code = $1
		RETURNING id, venue_id, created_at
	`
	return r.db.QueryRow(ctx, query,
		venueCode,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.VenueID, &review.CreatedAt)
}

func (r *Repository) ListByVenueCode(ctx context.Context, venueCode string) ([]Review, error) {
	query := `
		SELECT vr.id, vr.venue_id, vr.user_id, COALESCE(vr.rating, 0), vr.comment,
		       vr.created_at, COALESCE(u.first_name, '')
		FROM reviews vr
		JOIN venues v ON v.id = vr.venue_id
		LEFT JOIN users u ON u.id = vr.user_id
		WHERE v.public_code = $1
		ORDER BY vr.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, venueCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID,
			&review.VenueID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UserName,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *Repository) Stats(ctx context.Context, venueCode string) (total int, average float64, err error) {
	query := `
		SELECT COUNT(vr.id) AS total_reviews,
		       COALESCE(AVG(COALESCE(vr.rating, 0)), 0) AS average_rating
		FROM reviews vr
		JOIN venues v ON v.id = vr.venue_id
		WHERE v.public_code = $1
	`
	err = r.db.QueryRow(ctx, query, venueCode).Scan(&total, &average)
	return total, average, err
}

// Delete is the admin moderation pathway; regular users never remove
// reviews through this service.
func (r *Repository) Delete(ctx context.Context, reviewID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
