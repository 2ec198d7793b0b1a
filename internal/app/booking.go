package app

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/metinatakli/movie-booking-web/internal/workflow"
)

const msgBookingCompleted = "Booking completed successfully!"

func (app *Application) SelectMovie(w http.ResponseWriter, r *http.Request) {
	wf := app.contextGetWorkflow(r)

	_, err := wf.SelectMovie(r.Context(), readIDParam(r, "movieID"))
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/#show-timings")
}

func (app *Application) OpenShowBookingForm(w http.ResponseWriter, r *http.Request) {
	wf := app.contextGetWorkflow(r)

	err := wf.OpenBookingForm(r.Context(), readIDParam(r, "showID"))
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/#booking-form")
}

func (app *Application) OpenMovieBookingForm(w http.ResponseWriter, r *http.Request) {
	wf := app.contextGetWorkflow(r)

	err := wf.OpenMovieBookingForm(r.Context(), readIDParam(r, "movieID"))
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/#booking-form")
}

// SubmitBooking books the open form. Only the seat count is read from the
// request; identity fields are locked to the session user.
func (app *Application) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	wf := app.contextGetWorkflow(r)

	err := r.ParseForm()
	if err != nil {
		app.flashError(r, err.Error())
		app.redirect(w, r, "/")
		return
	}

	// unparsable input counts as 0 seats and fails validation
	seats, _ := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("seats")))

	reservation, err := wf.SubmitBooking(r.Context(), workflow.BookingInput{Seats: seats})
	recordStep(r.Context(), "booking", err)
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	logger.Info("booking completed", "reservation_id", reservation.ReservationID, "seats", seats)

	app.flash(r, msgBookingCompleted)
	app.redirect(w, r, "/#ticket")
}

// ResetWorkflow closes the booking form or the receipt.
func (app *Application) ResetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf := app.contextGetWorkflow(r)

	err := wf.Reset()
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/")
}
