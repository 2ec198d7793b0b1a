package workflow

import (
	"context"
	"time"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/events"
)

// ConfirmReservation confirms the current reservation after the user approved
// it. On success the receipt becomes downloadable.
func (w *Workflow) ConfirmReservation(ctx context.Context, reservationID int, confirmer Confirmer) (domain.Receipt, error) {
	err := w.beginReservationChange(ctx, reservationID, confirmer, PromptConfirm)
	if err != nil {
		return domain.Receipt{}, err
	}
	defer w.release(opReservation)

	confirmed, err := w.orders.Confirm(ctx, reservationID)
	if err != nil {
		return domain.Receipt{}, err
	}

	w.mu.Lock()

	updated := mergeReservation(*w.reservation, confirmed)
	updated.Status = domain.StatusConfirmed

	w.reservation = &updated
	w.selection = nil
	w.state = StateConfirmed

	receipt := domain.NewReceipt(updated, w.snackLines)
	w.mu.Unlock()

	w.publish(ctx, events.Event{
		Type:          events.ReservationConfirmed,
		ReservationID: reservationID,
		Seats:         len(receipt.Tickets),
		OccurredAt:    time.Now().UTC(),
	})

	return receipt, nil
}

// CancelReservation cancels the current reservation after the user approved
// it, then reloads the show timings since the local seat counts may be stale.
func (w *Workflow) CancelReservation(ctx context.Context, reservationID int, confirmer Confirmer) error {
	err := w.beginReservationChange(ctx, reservationID, confirmer, PromptCancel)
	if err != nil {
		return err
	}
	defer w.release(opReservation)

	err = w.orders.Cancel(ctx, reservationID)
	if err != nil {
		return err
	}

	w.mu.Lock()

	cancelled := *w.reservation
	cancelled.Status = domain.StatusCancelled

	w.reservation = &cancelled
	w.selection = nil
	w.state = StateCancelled
	w.mu.Unlock()

	w.publish(ctx, events.Event{
		Type:          events.ReservationCancelled,
		ReservationID: reservationID,
		OccurredAt:    time.Now().UTC(),
	})

	w.refreshShows(ctx)

	return nil
}

// beginReservationChange checks that the reservation can still be confirmed
// or cancelled, asks for approval and claims the in-flight slot. The caller
// must release opReservation on success.
func (w *Workflow) beginReservationChange(ctx context.Context, reservationID int, confirmer Confirmer, prompt string) error {
	w.mu.Lock()
	err := w.checkReviewable(reservationID)
	w.mu.Unlock()

	if err != nil {
		return err
	}

	if confirmer == nil || !confirmer.Confirm(ctx, prompt) {
		return domain.ErrNotConfirmed
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.checkReviewable(reservationID)
	if err != nil {
		return err
	}

	return w.acquire(opReservation)
}

// checkReviewable must be called with w.mu held.
func (w *Workflow) checkReviewable(reservationID int) error {
	if len(w.inflight) > 0 {
		return domain.ErrOperationInFlight
	}

	err := w.checkCurrent(reservationID)
	if err != nil {
		return err
	}

	if !w.state.reviewing() {
		return domain.ErrInvalidTransition
	}

	return nil
}

// mergeReservation applies the fields the backend sent back on top of the
// reservation already on screen.
func mergeReservation(current domain.Reservation, updated *domain.Reservation) domain.Reservation {
	if updated == nil {
		return current
	}

	if updated.MovieTitle != "" {
		current.MovieTitle = updated.MovieTitle
	}

	if updated.ShowDate != "" {
		current.ShowDate = updated.ShowDate
		current.ShowTime = updated.ShowTime
	}

	if updated.ScreenNo != 0 {
		current.ScreenNo = updated.ScreenNo
	}

	if len(updated.Tickets) > 0 {
		current.Tickets = updated.Tickets
	}

	if len(updated.Snacks) > 0 {
		current.Snacks = updated.Snacks
	}

	if updated.EmployeeName != "" {
		current.EmployeeName = updated.EmployeeName
	}

	return current
}
