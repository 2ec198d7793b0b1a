package events

import (
	"context"
	"time"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	SnacksOrdered        Type = "snacks.ordered"
	ReservationConfirmed Type = "reservation.confirmed"
	ReservationCancelled Type = "reservation.cancelled"
)

// Types lists every event type the web frontend emits. Each one maps to a
// durable queue of the same name.
var Types = []Type{BookingCreated, SnacksOrdered, ReservationConfirmed, ReservationCancelled}

type Event struct {
	Type          Type      `json:"type"`
	ReservationID int       `json:"reservationId"`
	MovieID       int       `json:"movieId,omitempty"`
	ShowID        int       `json:"showId,omitempty"`
	Seats         int       `json:"seats,omitempty"`
	Items         int       `json:"items,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
