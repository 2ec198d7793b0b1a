package app

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

const (
	msgSnacksOrdered  = "Successfully ordered %d snack items!"
	msgSnacksLowStock = "Note: Some items are running low on stock after your order"
	msgSnackMaximum   = "Maximum available quantity (%d) reached for this item"

	snackFieldPrefix = "qty-"
)

func (app *Application) OpenSnackForm(w http.ResponseWriter, r *http.Request) {
	wf := app.contextGetWorkflow(r)

	_, err := wf.OpenSnackForm(r.Context(), readIDParam(r, "reservationID"))
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, "/#snack-form")
}

// UpdateSnackOrder handles both buttons of the snack form: "adjust" carries
// "<snackID>:<delta>" for the +/- buttons, anything else submits the order.
// Quantities typed into the form are kept either way.
func (app *Application) UpdateSnackOrder(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	wf := app.contextGetWorkflow(r)
	reservationID := readIDParam(r, "reservationID")

	err := r.ParseForm()
	if err != nil {
		app.flashError(r, err.Error())
		app.redirect(w, r, "/")
		return
	}

	requests := parseSnackQuantities(r)

	adjust := r.PostForm.Get("adjust")
	if adjust == "" {
		result, err := wf.SubmitSnackOrder(r.Context(), reservationID, requests)
		recordStep(r.Context(), "snack_order", err)
		if err != nil {
			app.workflowErrorResponse(w, r, err)
			return
		}

		logger.Info("snacks ordered", "reservation_id", reservationID, "items", result.Items)

		message := fmt.Sprintf(msgSnacksOrdered, result.Items)
		if result.LowStock {
			message += " " + msgSnacksLowStock
		}

		app.flash(r, message)
		app.redirect(w, r, "/#ticket")
		return
	}

	for _, req := range requests {
		_, err := wf.SetSnackQuantity(req.SnackID, req.Quantity)
		if err != nil {
			app.workflowErrorResponse(w, r, err)
			return
		}
	}

	snackID, delta, ok := parseAdjustment(adjust)
	if !ok {
		app.redirect(w, r, "/#snack-form")
		return
	}

	quantity, atMax, err := wf.AdjustSnack(snackID, delta)
	if err != nil {
		app.workflowErrorResponse(w, r, err)
		return
	}

	if atMax {
		app.flashError(r, fmt.Sprintf(msgSnackMaximum, quantity))
	}

	app.redirect(w, r, "/#snack-form")
}

// parseSnackQuantities reads every "qty-<snackID>" field. Values that are not
// numbers count as 0.
func parseSnackQuantities(r *http.Request) []domain.SnackRequest {
	var requests []domain.SnackRequest

	for field, values := range r.PostForm {
		idStr, ok := strings.CutPrefix(field, snackFieldPrefix)
		if !ok || len(values) == 0 {
			continue
		}

		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}

		quantity, _ := strconv.Atoi(strings.TrimSpace(values[0]))

		requests = append(requests, domain.SnackRequest{SnackID: id, Quantity: max(quantity, 0)})
	}

	return requests
}

func parseAdjustment(value string) (snackID, delta int, ok bool) {
	idStr, deltaStr, found := strings.Cut(value, ":")
	if !found {
		return 0, 0, false
	}

	snackID, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, 0, false
	}

	delta, err = strconv.Atoi(deltaStr)
	if err != nil {
		return 0, 0, false
	}

	return snackID, delta, true
}
