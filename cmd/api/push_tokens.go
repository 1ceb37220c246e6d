package main

import (
	"encoding/json"
	"net/http"
)

type registerPushTokenPayload struct {
	Token      string          `json:"token" validate:"required"`
	DeviceInfo json.RawMessage `json:"device_info,omitempty"`
}

// RegisterPushToken godoc
//
//	@Summary		Register a device push token
//	@Tags			push-tokens
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerPushTokenPayload	true	"Token payload"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error	"Bad Request"
//	@Security		ApiKeyAuth
//	@Router			/push-tokens [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload registerPushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.PushTokens.AddOrUpdatePushToken(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "token registered"})
}

type removePushTokenPayload struct {
	Token string `json:"token" validate:"required"`
}

// RemovePushToken godoc
//
//	@Summary		Remove a device push token
//	@Description	Deregisters the device, e.g. on logout
//	@Tags			push-tokens
//	@Accept			json
//	@Produce		json
//	@Param			body	body		removePushTokenPayload	true	"Token payload"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error	"Bad Request"
//	@Security		ApiKeyAuth
//	@Router			/push-tokens [delete]
func (app *application) removePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload removePushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.PushTokens.RemovePushToken(r.Context(), user.ID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "token removed"})
}
