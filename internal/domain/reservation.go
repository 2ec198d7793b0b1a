package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "Pending"
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusCancelled ReservationStatus = "Cancelled"
)

func (s ReservationStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

type Reservation struct {
	ReservationID int               `json:"reservationId"`
	MovieTitle    string            `json:"movieTitle"`
	ShowDate      string            `json:"showDate,omitempty"`
	ShowTime      string            `json:"showTime,omitempty"`
	ScreenNo      int               `json:"screenNo,omitempty"`
	Tickets       []Ticket          `json:"tickets"`
	Status        ReservationStatus `json:"status,omitempty"`
	Snacks        []SnackOrderLine  `json:"snacks,omitempty"`
	EmployeeName  string            `json:"employeeName,omitempty"`
}

type Ticket struct {
	ScreenNo int             `json:"screenNo"`
	RowNo    SeatLabel       `json:"rowNo"`
	SeatNo   SeatLabel       `json:"seatNo"`
	Price    decimal.Decimal `json:"price"`
}

// SeatLabel is a row or seat identifier. The backend sends either numbers or
// strings depending on the screen layout.
type SeatLabel string

func (l *SeatLabel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SeatLabel(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = SeatLabel(n.String())

	return nil
}

func (l SeatLabel) String() string {
	if l == "" {
		return "N/A"
	}

	return string(l)
}

// BookingDraft is the booking form content between opening the form and a
// successful submission.
type BookingDraft struct {
	MovieID      int    `json:"movieId" validate:"required"`
	ShowRequired bool   `json:"-"`
	ShowID       int    `json:"showId,omitempty" validate:"required_if=ShowRequired true"`
	Name         string `json:"name" validate:"required"`
	Age          int    `json:"age" validate:"min=1,max=120"`
	Gender       string `json:"gender" validate:"required"`
	Seats        int    `json:"seats" validate:"min=1,max=10"`
	// SeatCap is the number of seats displayed as available when the form was
	// opened; nil when no show was picked.
	SeatCap *int `json:"-" validate:"-"`
}

type OrderClient interface {
	Book(ctx context.Context, draft BookingDraft) (*Reservation, error)
	OrderSnacks(ctx context.Context, order SnackOrderRequest) ([]SnackOrderLine, error)
	Confirm(ctx context.Context, reservationID int) (*Reservation, error)
	Cancel(ctx context.Context, reservationID int) error
}
