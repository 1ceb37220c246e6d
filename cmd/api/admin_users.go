package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitclub/internal/domain/users"

	"github.com/go-chi/chi/v5"
)

type updateRolePayload struct {
	Role string `json:"role" validate:"required,oneof=admin partner support user"`
}

type setBlockedPayload struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// AdminUpdateUserRole godoc
//
//	@Summary		Change a user's role
//	@Description	Writes the new role; the committed change is broadcast through the change feed
//	@Tags			admin-users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int					true	"User ID"
//	@Param			body	body		updateRolePayload	true	"Role payload"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		404		{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID}/role [patch]
func (app *application) updateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	var in updateRolePayload
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Users.UpdateRole(ctx, userID, in.Role); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "role updated",
	})
}

// AdminSetUserBlocked godoc
//
//	@Summary		Block or unblock a user
//	@Description	Writes is_blocked; the committed change is broadcast through the change feed
//	@Tags			admin-users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int					true	"User ID"
//	@Param			body	body		setBlockedPayload	true	"Blocked flag"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		404		{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID}/block [patch]
func (app *application) setUserBlockedHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	var in setBlockedPayload
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Users.SetBlocked(ctx, userID, *in.Blocked); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "block status updated",
	})
}

// AdminListUsers godoc
//
//	@Summary		List users
//	@Tags			admin-users
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Offset"
//	@Success		200		{array}		users.User
//	@Security		ApiKeyAuth
//	@Router			/admin/users [get]
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 50)

	list, err := app.store.Users.List(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}
