package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

type MockCatalogClient struct {
	domain.CatalogClient
	MoviesFunc      func(ctx context.Context) ([]domain.Movie, error)
	SnacksFunc      func(ctx context.Context) ([]domain.SnackItem, error)
	ShowTimingsFunc func(ctx context.Context, movieID int) ([]domain.ShowTiming, error)
}

func (m *MockCatalogClient) Movies(ctx context.Context) ([]domain.Movie, error) {
	return m.MoviesFunc(ctx)
}

func (m *MockCatalogClient) Snacks(ctx context.Context) ([]domain.SnackItem, error) {
	return m.SnacksFunc(ctx)
}

func (m *MockCatalogClient) ShowTimings(ctx context.Context, movieID int) ([]domain.ShowTiming, error) {
	return m.ShowTimingsFunc(ctx, movieID)
}
