package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"fitclub/internal/domain/venues"

	"github.com/go-chi/chi/v5"
)

type createVenuePayload struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Address     string  `json:"address" validate:"required,max=255"`
	City        string  `json:"city" validate:"required,max=80"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	OpenTime    *string `json:"open_time,omitempty"`
}

// CreateVenue godoc
//
//	@Summary		Create a venue
//	@Description	Registers a fitness club and mints its public code
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createVenuePayload	true	"Venue payload"
//	@Success		201		{object}	venues.Venue
//	@Failure		400		{object}	error	"Bad Request"
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload createVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue := &venues.Venue{
		Name:        payload.Name,
		Address:     payload.Address,
		City:        payload.City,
		Description: payload.Description,
		PhoneNumber: payload.PhoneNumber,
		OpenTime:    payload.OpenTime,
	}

	if err := app.store.Venues.Create(r.Context(), venue); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, venue)
}

// GetVenue godoc
//
//	@Summary		Get a venue
//	@Description	Venue detail with its review aggregate
//	@Tags			venues
//	@Produce		json
//	@Param			venueCode	path		string	true	"Venue public code"
//	@Success		200			{object}	map[string]interface{}
//	@Failure		404			{object}	error	"Not Found"
//	@Router			/venues/{venueCode} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueCode := chi.URLParam(r, "venueCode")

	venue, err := app.store.Venues.GetByCode(r.Context(), venueCode)
	if err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	total, average, err := app.store.VenuesReviews.Stats(r.Context(), venueCode)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"venue":         venue,
		"total_reviews": total,
		"average":       math.Round(average*10) / 10,
	}

	app.jsonResponse(w, http.StatusOK, response)
}

// ListVenues godoc
//
//	@Summary		List venues
//	@Description	Catalog listing with review aggregates
//	@Tags			venues
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Offset"
//	@Success		200		{array}		venues.VenueListing
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 20)

	listings, err := app.store.Venues.List(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, listings)
}

func paginationParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
