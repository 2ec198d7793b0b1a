package app

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/render"
	"github.com/metinatakli/movie-booking-web/internal/session"
)

const (
	ErrInternalServer   = "The server encountered a problem and could not process your request"
	ErrNotFound         = "The requested resource not found"
	ErrMethodNotAllowed = "The method is not supported for this resource"
	ErrLoginRequired    = "Please login to book tickets"
	ErrTicketInactive   = "This ticket is no longer active."
	ErrRequestPending   = "A previous request is still being processed. Please wait."
	ErrActionNotAllowed = "This action is not available right now."
)

func (app *Application) logError(r *http.Request, err error) {
	app.contextGetLogger(r).Error(err.Error())
}

// errorResponse renders the error page with the given status. It falls back to
// plain text when the page itself cannot be rendered.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	var buf bytes.Buffer

	err := app.renderer.Render(&buf, render.PageError, render.PageData{
		Title:   http.StatusText(status),
		Error:   message,
		Status:  status,
		Version: version,
	})
	if err != nil {
		app.logError(r, err)
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

// workflowErrorResponse turns a failed booking step into a notification on the
// home page. Missing authentication sends the user to the login page instead.
func (app *Application) workflowErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := app.contextGetLogger(r)

	var (
		validationErr *domain.ValidationError
		networkErr    *domain.NetworkError
		dataShapeErr  *domain.DataShapeError
	)

	switch {
	case errors.Is(err, domain.ErrAuthenticationRequired):
		app.flashError(r, ErrLoginRequired)
		app.redirect(w, r, "/login")
		return

	case errors.As(err, &validationErr):
		app.flashError(r, validationErr.Reason)

	case errors.As(err, &networkErr):
		logger.Warn("backend request failed", "op", networkErr.Op, "status", networkErr.Status, "error", err)
		app.flashError(r, networkErr.Error())

	case errors.As(err, &dataShapeErr):
		logger.Warn("unexpected backend response", "op", dataShapeErr.Op, "error", err)
		app.flashError(r, dataShapeErr.Error())

	case errors.Is(err, domain.ErrStaleReservation):
		app.flashError(r, ErrTicketInactive)

	case errors.Is(err, domain.ErrOperationInFlight):
		app.flashError(r, ErrRequestPending)

	case errors.Is(err, domain.ErrInvalidTransition):
		app.flashError(r, ErrActionNotAllowed)

	case errors.Is(err, domain.ErrStaleResponse), errors.Is(err, domain.ErrNotConfirmed):
		// superseded or declined, nothing to report

	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/")
}

func (app *Application) flash(r *http.Request, message string) {
	app.sessions.PutFlash(r.Context(), session.Flash{Message: message})
}

func (app *Application) flashError(r *http.Request, message string) {
	app.sessions.PutFlash(r.Context(), session.Flash{Message: message, Error: true})
}
