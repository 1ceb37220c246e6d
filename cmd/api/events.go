package main

import (
	"fmt"
	"net/http"
)

// ToastStream godoc
//
//	@Summary		Toast event stream
//	@Description	Server-sent events carrying toast frames for connected admin screens
//	@Tags			ops
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"SSE stream"
//	@Security		ApiKeyAuth
//	@Router			/events [get]
func (app *application) toastStreamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		app.internalServerError(w, r, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	frames, deregister := app.toasts.Register()
	defer deregister()

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
