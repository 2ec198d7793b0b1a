package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/events"
)

const (
	opBooking     = "booking"
	opSnackOrder  = "snack_order"
	opReservation = "reservation"
)

// SessionReader returns the logged-in user of the request, or
// domain.ErrAuthenticationRequired when there is none.
type SessionReader interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

type Config struct {
	Catalog   domain.CatalogClient
	Orders    domain.OrderClient
	Session   SessionReader
	Validator *validator.Validate
	Publisher events.Publisher
	Logger    *slog.Logger
}

// Workflow is the booking and checkout state of one browser session.
//
// The mutex guards every field below it and is never held across a call to the
// backend. Mutating operations mark themselves in inflight for the duration of
// the call so that a repeated submission is refused instead of sent twice.
type Workflow struct {
	catalog   domain.CatalogClient
	orders    domain.OrderClient
	session   SessionReader
	validate  *validator.Validate
	publisher events.Publisher
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	inflight   map[string]struct{}

	movieID int
	shows   []domain.ShowTiming
	seats   map[int]int

	draft  *domain.BookingDraft
	locked bool

	snacks    []domain.SnackItem
	selection *domain.SnackSelection

	reservation *domain.Reservation
	snackLines  []domain.SnackOrderLine
}

func New(cfg Config) *Workflow {
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Workflow{
		catalog:   cfg.Catalog,
		orders:    cfg.Orders,
		session:   cfg.Session,
		validate:  cfg.Validator,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		inflight:  make(map[string]struct{}),
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// Busy reports whether a mutating backend call is still pending.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.inflight) > 0
}

// Reset closes the booking form and any reservation view and returns to Idle.
// The last known reservation is kept so a confirmed receipt stays downloadable.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.inflight) > 0 {
		return domain.ErrOperationInFlight
	}

	// a show timing fetch still in flight must not reopen the listing
	w.generation++

	w.movieID = 0
	w.shows = nil
	w.seats = nil
	w.draft = nil
	w.locked = false
	w.snacks = nil
	w.selection = nil
	w.state = StateIdle

	return nil
}

// Receipt returns the receipt of the last reservation if it was confirmed.
func (w *Workflow) Receipt() (domain.Receipt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reservation == nil || w.reservation.Status != domain.StatusConfirmed {
		return domain.Receipt{}, false
	}

	return domain.NewReceipt(*w.reservation, w.snackLines), true
}

// acquire marks op as in flight. Mutating operations exclude each other, so
// it fails while any of them is pending. The caller must hold w.mu.
func (w *Workflow) acquire(op string) error {
	if len(w.inflight) > 0 {
		return domain.ErrOperationInFlight
	}

	w.inflight[op] = struct{}{}

	return nil
}

func (w *Workflow) release(op string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.inflight, op)
}

// checkCurrent verifies that id names the reservation on screen and that it is
// still pending. The caller must hold w.mu.
func (w *Workflow) checkCurrent(id int) error {
	if w.reservation == nil || w.reservation.ReservationID != id {
		return domain.ErrStaleReservation
	}

	if w.reservation.Status != domain.StatusPending {
		return domain.ErrStaleReservation
	}

	return nil
}

func (w *Workflow) publish(ctx context.Context, event events.Event) {
	event.RequestID = middleware.GetReqID(ctx)

	err := w.publisher.Publish(ctx, event)
	if err != nil {
		w.logger.Warn("publish event", "type", event.Type, "reservation_id", event.ReservationID, "error", err)
	}
}
