package workflow

import "github.com/metinatakli/movie-booking-web/internal/domain"

// View is a copy of the workflow state for rendering. Changing it has no effect
// on the workflow.
type View struct {
	State   State
	MovieID int
	// Shows carries the locally adjusted seat counts.
	Shows       []domain.ShowTiming
	Form        *FormView
	Snacks      []SnackLine
	Reservation *domain.Reservation
	Receipt     *domain.Receipt
	CanDownload bool
	Busy        bool
}

type FormView struct {
	domain.BookingDraft
	// Locked marks the identity fields as read-only.
	Locked bool
}

type SnackLine struct {
	domain.SnackItem
	Selected int
}

func (w *Workflow) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := View{
		State:   w.state,
		MovieID: w.movieID,
		Shows:   w.displayedShows(),
		Busy:    len(w.inflight) > 0,
	}

	if w.draft != nil && (w.state == StateBookingFormOpen || w.state == StateReservationPending) {
		draft := *w.draft
		if draft.SeatCap != nil {
			seatCap := *draft.SeatCap
			draft.SeatCap = &seatCap
		}
		view.Form = &FormView{BookingDraft: draft, Locked: w.locked}
	}

	if w.state == StateSnackFormOpen && w.selection != nil {
		view.Snacks = make([]SnackLine, len(w.snacks))
		for i, item := range w.snacks {
			view.Snacks[i] = SnackLine{SnackItem: item, Selected: w.selection.Quantity(item.ID)}
		}
	}

	if w.reservation != nil && (w.state.reviewing() || w.state.Terminal()) {
		reservation := *w.reservation
		receipt := domain.NewReceipt(reservation, w.snackLines)

		view.Reservation = &reservation
		view.Receipt = &receipt
	}

	view.CanDownload = w.reservation != nil && w.reservation.Status == domain.StatusConfirmed

	return view
}
