package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

type MockSessionReader struct {
	CurrentUserFunc func(ctx context.Context) (*domain.User, error)
}

func (m *MockSessionReader) CurrentUser(ctx context.Context) (*domain.User, error) {
	return m.CurrentUserFunc(ctx)
}
