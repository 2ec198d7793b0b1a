package workflow

type State int

const (
	StateIdle State = iota
	StateShowSelected
	StateBookingFormOpen
	StateReservationPending
	StateTicketReview
	StateSnackFormOpen
	StateReceiptReview
	StateConfirmed
	StateCancelled
)

var stateNames = [...]string{
	StateIdle:               "idle",
	StateShowSelected:       "show_selected",
	StateBookingFormOpen:    "booking_form_open",
	StateReservationPending: "reservation_pending",
	StateTicketReview:       "ticket_review",
	StateSnackFormOpen:      "snack_form_open",
	StateReceiptReview:      "receipt_review",
	StateConfirmed:          "confirmed",
	StateCancelled:          "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Terminal reports whether the current reservation has reached its final
// status.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateCancelled
}

// reviewing reports states in which a pending reservation is on screen and can
// be confirmed or cancelled.
func (s State) reviewing() bool {
	return s == StateTicketReview || s == StateSnackFormOpen || s == StateReceiptReview
}

// browsing reports states in which no reservation is being worked on.
func (s State) browsing() bool {
	return s == StateIdle || s == StateShowSelected || s == StateBookingFormOpen || s.Terminal()
}
