package storage

import (
	"fitclub/internal/domain/pushtokens"
	"fitclub/internal/domain/users"
	venuereviews "fitclub/internal/domain/venuereview"
	"fitclub/internal/domain/venues"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	Users         users.Store
	Venues        venues.Store
	VenuesReviews venuereviews.Store
	PushTokens    pushtokens.Store
}

func NewContainer(db *pgxpool.Pool, codes *venues.CodeGenerator) *Container {
	return &Container{
		Users:         users.NewRepository(db),
		Venues:        venues.NewRepository(db, codes),
		VenuesReviews: venuereviews.NewRepository(db),
		PushTokens:    pushtokens.NewRepository(db),
	}
}
