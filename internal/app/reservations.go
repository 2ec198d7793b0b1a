package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/mailer"
	"github.com/metinatakli/movie-booking-web/internal/render"
	"github.com/metinatakli/movie-booking-web/internal/ticket"
	"github.com/metinatakli/movie-booking-web/internal/workflow"
)

const (
	msgTicketConfirmed = "Ticket confirmed successfully!"
	msgTicketCancelled = "Ticket cancelled successfully!"

	confirmedField = "confirmed"
)

// formConfirmer approves the action when the confirmation page was submitted.
// The prompt the workflow asked for is stored in prompt.
func formConfirmer(r *http.Request, prompt *string) workflow.Confirmer {
	return workflow.ConfirmFunc(func(_ context.Context, p string) bool {
		*prompt = p
		return r.PostForm.Get(confirmedField) == "yes"
	})
}

func (app *Application) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	wf := app.contextGetWorkflow(r)
	reservationID := readIDParam(r, "reservationID")

	err := r.ParseForm()
	if err != nil {
		app.flashError(r, err.Error())
		app.redirect(w, r, "/")
		return
	}

	var prompt string

	receipt, err := wf.ConfirmReservation(r.Context(), reservationID, formConfirmer(r, &prompt))
	if errors.Is(err, domain.ErrNotConfirmed) {
		app.confirmPage(w, r, prompt, reservationID)
		return
	}

	recordStep(r.Context(), "confirm", err)
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	logger.Info("reservation confirmed", "reservation_id", reservationID)

	app.mailTicket(r, receipt)

	app.flash(r, msgTicketConfirmed)
	app.redirect(w, r, "/#ticket")
}

func (app *Application) CancelReservation(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	wf := app.contextGetWorkflow(r)
	reservationID := readIDParam(r, "reservationID")

	err := r.ParseForm()
	if err != nil {
		app.flashError(r, err.Error())
		app.redirect(w, r, "/")
		return
	}

	var prompt string

	err = wf.CancelReservation(r.Context(), reservationID, formConfirmer(r, &prompt))
	if errors.Is(err, domain.ErrNotConfirmed) {
		app.confirmPage(w, r, prompt, reservationID)
		return
	}

	recordStep(r.Context(), "cancel", err)
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	logger.Info("reservation cancelled", "reservation_id", reservationID)

	app.flash(r, msgTicketCancelled)
	app.redirect(w, r, "/#show-timings")
}

func (app *Application) confirmPage(w http.ResponseWriter, r *http.Request, prompt string, reservationID int) {
	app.render(w, r, http.StatusOK, render.PageConfirm, render.PageData{
		Title: "Please confirm",
		Prompt: &render.Prompt{
			Message:       prompt,
			Action:        r.URL.Path,
			ReservationID: reservationID,
		},
	})
}

// DownloadReceipt serves the ticket of the last confirmed reservation as PDF.
func (app *Application) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	wf := app.contextGetWorkflow(r)
	reservationID := readIDParam(r, "reservationID")

	receipt, ok := wf.Receipt()
	if !ok || receipt.Reservation.ReservationID != reservationID {
		app.notFoundResponse(w, r)
		return
	}

	pdf, err := ticket.GeneratePDF(receipt)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ticketFilename(reservationID)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// mailTicket sends the confirmed ticket to the logged-in user in the
// background. Nothing is sent without a mailer or a user email.
func (app *Application) mailTicket(r *http.Request, receipt domain.Receipt) {
	if app.mailer == nil {
		return
	}

	user, err := app.sessions.CurrentUser(r.Context())
	if err != nil || user.Email == "" {
		return
	}

	app.background(r, "send ticket email", func() error {
		pdf, err := ticket.GeneratePDF(receipt)
		if err != nil {
			return err
		}

		data := map[string]any{
			"name":          user.Name,
			"reservationID": receipt.Reservation.ReservationID,
			"movieTitle":    receipt.Reservation.MovieTitle,
			"grandTotal":    "₹" + receipt.GrandTotal.StringFixed(2),
		}

		return app.mailer.Send(user.Email, "ticket_confirmed.tmpl", data, mailer.Attachment{
			Filename: ticketFilename(receipt.Reservation.ReservationID),
			Data:     pdf,
		})
	})
}

func ticketFilename(reservationID int) string {
	return fmt.Sprintf("ticket-%d.pdf", reservationID)
}
