package backend

import (
	"context"
	"net/http"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

const noTicketMessage = "Error: No ticket information available"

type reservationRef struct {
	ReservationID int `json:"reservationId"`
}

type ticketPayload struct {
	Ticket *domain.Reservation `json:"ticket"`
}

func (c *Client) Book(ctx context.Context, draft domain.BookingDraft) (*domain.Reservation, error) {
	var payload ticketPayload

	err := c.do(ctx, domain.OpBook, http.MethodPost, "/api/book", nil, draft, &payload)
	if err != nil {
		return nil, err
	}

	if payload.Ticket == nil || payload.Ticket.Tickets == nil {
		return nil, &domain.DataShapeError{Op: domain.OpBook, Detail: noTicketMessage}
	}

	return payload.Ticket, nil
}

func (c *Client) OrderSnacks(ctx context.Context, order domain.SnackOrderRequest) ([]domain.SnackOrderLine, error) {
	var payload struct {
		Orders []domain.SnackOrderLine `json:"orders"`
	}

	err := c.do(ctx, domain.OpSnackOrder, http.MethodPost, "/api/snacks/order", nil, order, &payload)
	if err != nil {
		return nil, err
	}

	return payload.Orders, nil
}

// Confirm returns the confirmed reservation, or nil when the backend only
// acknowledged the call.
func (c *Client) Confirm(ctx context.Context, reservationID int) (*domain.Reservation, error) {
	var payload ticketPayload

	err := c.do(ctx, domain.OpConfirm, http.MethodPost, "/api/booking/confirm", nil, reservationRef{reservationID}, &payload)
	if err != nil {
		return nil, err
	}

	return payload.Ticket, nil
}

func (c *Client) Cancel(ctx context.Context, reservationID int) error {
	return c.do(ctx, domain.OpCancel, http.MethodPost, "/api/booking/cancel", nil, reservationRef{reservationID}, nil)
}
