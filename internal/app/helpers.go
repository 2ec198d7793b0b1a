package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-booking-web/internal/render"
)

// readIDParam returns the numeric URL parameter, or 0 when it is missing or
// not a number. The workflow rejects 0 as an invalid selection.
func readIDParam(r *http.Request, name string) int {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 0 {
		return 0
	}

	return id
}

func (app *Application) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// render fills in the parts every page shares and writes the page only after
// it was rendered completely.
func (app *Application) render(w http.ResponseWriter, r *http.Request, status int, page string, data render.PageData) {
	data.Version = version

	user, err := app.sessions.CurrentUser(r.Context())
	if err == nil {
		data.User = user
	}

	if data.Flash == nil {
		if flash, ok := app.sessions.PopFlash(r.Context()); ok {
			data.Flash = &flash
		}
	}

	var buf bytes.Buffer

	err = app.renderer.Render(&buf, page, data)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

// background runs fn after the response was sent. Panics are logged instead of
// crashing the server.
func (app *Application) background(r *http.Request, name string, fn func() error) {
	logger := app.contextGetLogger(r)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(fmt.Sprintf("panic occurred during %s", name), "panic", err)
			}
		}()

		err := fn()
		if err != nil {
			logger.Error(fmt.Sprintf("failed to %s", name), "error", err)
			return
		}

		logger.Info(fmt.Sprintf("%s succeeded", name))
	}()
}
