package venues

import (
	"errors"
	"time"
)

var (
	ErrVenueNotFound     = errors.New("venue not found")
	QueryTimeoutDuration = time.Second * 5
)

// Venue is a fitness club listed on the aggregator. PublicCode is the
// opaque key the front end scopes reviews by (e.g. "gym-EJreadN").
type Venue struct {
	ID          int64     `json:"id"`
	PublicCode  string    `json:"public_code"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Description *string   `json:"description,omitempty"`
	PhoneNumber string    `json:"phone_number"`
	OpenTime    *string   `json:"open_time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VenueListing is the row shape for the catalog screen, with review
// aggregates joined in.
type VenueListing struct {
	ID            int64   `json:"id"`
	PublicCode    string  `json:"public_code"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	PhoneNumber   string  `json:"phone_number"`
	OpenTime      *string `json:"open_time,omitempty"`
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}
