package venuereviews

import (
	"time"
)

// Review is a single venue review row. UserID is nullable: reviews
// survive account deletion as orphans.
type Review struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Rating    int       `json:"rating"` // 1-5, 0 when stored null
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields
	UserName string `json:"user_name,omitempty"`
}
