package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

type MockOrderClient struct {
	domain.OrderClient
	BookFunc        func(ctx context.Context, draft domain.BookingDraft) (*domain.Reservation, error)
	OrderSnacksFunc func(ctx context.Context, order domain.SnackOrderRequest) ([]domain.SnackOrderLine, error)
	ConfirmFunc     func(ctx context.Context, reservationID int) (*domain.Reservation, error)
	CancelFunc      func(ctx context.Context, reservationID int) error
}

func (m *MockOrderClient) Book(ctx context.Context, draft domain.BookingDraft) (*domain.Reservation, error) {
	return m.BookFunc(ctx, draft)
}

func (m *MockOrderClient) OrderSnacks(ctx context.Context, order domain.SnackOrderRequest) ([]domain.SnackOrderLine, error) {
	return m.OrderSnacksFunc(ctx, order)
}

func (m *MockOrderClient) Confirm(ctx context.Context, reservationID int) (*domain.Reservation, error) {
	return m.ConfirmFunc(ctx, reservationID)
}

func (m *MockOrderClient) Cancel(ctx context.Context, reservationID int) error {
	return m.CancelFunc(ctx, reservationID)
}
