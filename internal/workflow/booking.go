package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/events"
	appvalidator "github.com/metinatakli/movie-booking-web/internal/validator"
)

// BookingInput is what the user can still edit in the booking form. Identity
// fields come from the session and are locked.
type BookingInput struct {
	Seats int
}

// SelectMovie loads the show timings of a movie. An empty list is a valid
// result. If another SelectMovie (or Reset) started while this one was waiting
// for the backend, the response is discarded with domain.ErrStaleResponse.
func (w *Workflow) SelectMovie(ctx context.Context, movieID int) ([]domain.ShowTiming, error) {
	if movieID <= 0 {
		return nil, domain.NewValidationError("MovieID", appvalidator.ErrInvalidMovie)
	}

	w.mu.Lock()
	if !w.state.browsing() {
		w.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	w.generation++
	generation := w.generation
	w.mu.Unlock()

	shows, err := w.catalog.ShowTimings(ctx, movieID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation {
		return nil, domain.ErrStaleResponse
	}

	if err != nil {
		return nil, err
	}

	if !w.state.browsing() {
		return nil, domain.ErrInvalidTransition
	}

	w.movieID = movieID
	w.setShows(shows)
	w.draft = nil
	w.locked = false
	w.state = StateShowSelected

	return w.displayedShows(), nil
}

// OpenBookingForm opens the booking form for one of the listed shows. The
// session user is required; without one nothing changes and
// domain.ErrAuthenticationRequired is returned.
func (w *Workflow) OpenBookingForm(ctx context.Context, showID int) error {
	user, err := w.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateShowSelected && w.state != StateBookingFormOpen && !w.state.Terminal() {
		return domain.ErrInvalidTransition
	}

	show, ok := w.findShow(showID)
	if !ok {
		return domain.NewValidationError("ShowID", appvalidator.ErrInvalidShow)
	}

	movieID := show.MovieID
	if movieID == 0 {
		movieID = w.movieID
	}

	seatCap := w.seats[showID]
	w.openForm(user, domain.BookingDraft{
		MovieID:      movieID,
		ShowRequired: true,
		ShowID:       showID,
		SeatCap:      &seatCap,
	})

	return nil
}

// OpenMovieBookingForm opens the booking form for a movie without picking a
// show. No seat cap applies.
func (w *Workflow) OpenMovieBookingForm(ctx context.Context, movieID int) error {
	user, err := w.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.browsing() {
		return domain.ErrInvalidTransition
	}

	if w.movieID != movieID {
		w.generation++
		w.movieID = movieID
		w.shows = nil
		w.seats = nil
	}

	w.openForm(user, domain.BookingDraft{MovieID: movieID})

	return nil
}

// openForm pre-fills the identity fields from the session user. The caller must
// hold w.mu.
func (w *Workflow) openForm(user *domain.User, draft domain.BookingDraft) {
	draft.Name = user.Name
	draft.Age = user.Age
	draft.Gender = user.Gender
	draft.Seats = appvalidator.MinSeats

	w.draft = &draft
	w.locked = true
	w.state = StateBookingFormOpen
}

// SubmitBooking validates the draft and books it. Validation failures never
// reach the backend. On any failure the form stays open with the attempted
// input kept.
func (w *Workflow) SubmitBooking(ctx context.Context, input BookingInput) (*domain.Reservation, error) {
	w.mu.Lock()

	err := w.acquire(opBooking)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}

	if w.state != StateBookingFormOpen || w.draft == nil {
		delete(w.inflight, opBooking)
		w.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}

	w.draft.Name = strings.TrimSpace(w.draft.Name)
	w.draft.Gender = strings.TrimSpace(w.draft.Gender)
	w.draft.Seats = input.Seats
	draft := *w.draft

	err = appvalidator.ValidateBooking(w.validate, draft)
	if err != nil {
		delete(w.inflight, opBooking)
		w.mu.Unlock()
		return nil, err
	}

	w.state = StateReservationPending
	w.mu.Unlock()

	defer w.release(opBooking)

	reservation, err := w.orders.Book(ctx, draft)
	if err == nil && reservation == nil {
		err = &domain.DataShapeError{Op: domain.OpBook, Detail: "Error: No ticket information available"}
	}

	w.mu.Lock()

	if err != nil {
		w.state = StateBookingFormOpen
		w.mu.Unlock()
		return nil, err
	}

	booked := *reservation
	if booked.Status == "" {
		booked.Status = domain.StatusPending
	}

	if draft.ShowID != 0 {
		if available, ok := w.seats[draft.ShowID]; ok {
			w.seats[draft.ShowID] = max(available-draft.Seats, 0)
		}
	}

	w.reservation = &booked
	w.snackLines = nil
	w.snacks = nil
	w.selection = nil
	w.draft = nil
	w.locked = false
	w.state = StateTicketReview
	w.mu.Unlock()

	w.publish(ctx, events.Event{
		Type:          events.BookingCreated,
		ReservationID: booked.ReservationID,
		MovieID:       draft.MovieID,
		ShowID:        draft.ShowID,
		Seats:         draft.Seats,
		OccurredAt:    time.Now().UTC(),
	})

	return &booked, nil
}

// refreshShows replaces the displayed show timings with the backend's current
// numbers. Failures keep the old list.
func (w *Workflow) refreshShows(ctx context.Context) {
	w.mu.Lock()
	movieID := w.movieID
	if movieID == 0 {
		w.mu.Unlock()
		return
	}
	w.generation++
	generation := w.generation
	w.mu.Unlock()

	shows, err := w.catalog.ShowTimings(ctx, movieID)
	if err != nil {
		w.logger.Warn("refresh show timings", "movie_id", movieID, "error", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation || movieID != w.movieID {
		return
	}

	w.setShows(shows)
}

// setShows replaces the show list and resets the displayed seat counters. The
// caller must hold w.mu.
func (w *Workflow) setShows(shows []domain.ShowTiming) {
	w.shows = make([]domain.ShowTiming, len(shows))
	copy(w.shows, shows)

	w.seats = make(map[int]int, len(shows))
	for _, show := range shows {
		w.seats[show.ShowID] = max(show.AvailableSeats, 0)
	}
}

func (w *Workflow) findShow(showID int) (domain.ShowTiming, bool) {
	for _, show := range w.shows {
		if show.ShowID == showID {
			return show, true
		}
	}

	return domain.ShowTiming{}, false
}

// displayedShows returns the show list with the locally adjusted seat counts.
// The caller must hold w.mu.
func (w *Workflow) displayedShows() []domain.ShowTiming {
	shows := make([]domain.ShowTiming, len(w.shows))
	for i, show := range w.shows {
		show.AvailableSeats = w.seats[show.ShowID]
		shows[i] = show
	}

	return shows
}
