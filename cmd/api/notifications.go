package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListNotifications godoc
//
//	@Summary		List notification entries
//	@Description	Returns the in-memory notification list, newest first, with the unread badge text
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Security		ApiKeyAuth
//	@Router			/notifications [get]
func (app *application) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"notifications":  app.center.Entries(),
		"unread_count":   app.center.UnreadCount(),
		"unread_display": app.center.DisplayUnread(),
	}

	app.jsonResponse(w, http.StatusOK, response)
}

// MarkNotificationRead godoc
//
//	@Summary		Mark one entry read
//	@Tags			notifications
//	@Produce		json
//	@Param			notificationID	path		string	true	"Entry ID"
//	@Success		200				{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/notifications/{notificationID}/read [patch]
func (app *application) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	app.center.MarkRead(chi.URLParam(r, "notificationID"))

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "marked read"})
}

// MarkAllNotificationsRead godoc
//
//	@Summary		Mark every entry read
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/notifications/read-all [patch]
func (app *application) markAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	app.center.MarkAllRead()

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "all marked read"})
}

// RemoveNotification godoc
//
//	@Summary		Remove one entry
//	@Tags			notifications
//	@Produce		json
//	@Param			notificationID	path		string	true	"Entry ID"
//	@Success		200				{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/notifications/{notificationID} [delete]
func (app *application) removeNotificationHandler(w http.ResponseWriter, r *http.Request) {
	app.center.Remove(chi.URLParam(r, "notificationID"))

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "removed"})
}
