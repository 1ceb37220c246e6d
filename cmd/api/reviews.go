package main

import (
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/reviews"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// GetVenueReviews godoc
//
//	@Summary		List reviews for a venue
//	@Description	Returns the venue's reviews, newest first, with count and one-decimal average
//	@Tags			reviews
//	@Produce		json
//	@Param			venueCode	path		string	true	"Venue public code"
//	@Success		200			{object}	map[string]interface{}
//	@Router			/venues/{venueCode}/reviews [get]
func (app *application) getVenueReviewsHandler(w http.ResponseWriter, r *http.Request) {
	venueCode := chi.URLParam(r, "venueCode")

	store := app.reviewStores.ForVenue(venueCode)
	list := store.FetchReviews(r.Context())

	response := map[string]interface{}{
		"reviews":       list,
		"total_reviews": store.Count(),
		"average":       store.AverageRating(),
	}

	app.jsonResponse(w, http.StatusOK, response)
}

// CreateVenueReview godoc
//
//	@Summary		Submit a review
//	@Description	Adds the acting user's review to the venue and refreshes the aggregate
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			venueCode	path		string					true	"Venue public code"
//	@Param			body		body		reviews.SubmitInput		true	"Review payload"
//	@Success		201			{object}	map[string]interface{}
//	@Failure		400			{object}	error	"Bad Request"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueCode}/reviews [post]
func (app *application) createVenueReviewHandler(w http.ResponseWriter, r *http.Request) {
	venueCode := chi.URLParam(r, "venueCode")

	var payload reviews.SubmitInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	store := app.reviewStores.ForVenue(venueCode)
	if !store.SubmitReview(r.Context(), payload, user.ID) {
		writeJSONError(w, http.StatusUnprocessableEntity, "review was not saved")
		return
	}

	response := map[string]interface{}{
		"total_reviews": store.Count(),
		"average":       store.AverageRating(),
	}

	app.jsonResponse(w, http.StatusCreated, response)
}

// DeleteVenueReview godoc
//
//	@Summary		Delete a review
//	@Description	Admin moderation pathway, bypasses the per-venue store cache
//	@Tags			reviews
//	@Produce		json
//	@Param			venueCode	path		string	true	"Venue public code"
//	@Param			reviewID	path		int		true	"Review ID"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueCode}/reviews/{reviewID} [delete]
func (app *application) deleteVenueReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	rID, err := strconv.ParseInt(reviewID, 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	if err := app.store.VenuesReviews.Delete(r.Context(), rID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// drop the stale cache so the next fetch reloads
	venueCode := chi.URLParam(r, "venueCode")
	app.reviewStores.ForVenue(venueCode).FetchReviews(r.Context())

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "review deleted"})
}
