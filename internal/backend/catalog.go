package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

func (c *Client) Movies(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie

	err := c.do(ctx, domain.OpMovies, http.MethodGet, "/api/movies", nil, nil, &movies)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

func (c *Client) Snacks(ctx context.Context) ([]domain.SnackItem, error) {
	var snacks []domain.SnackItem

	err := c.do(ctx, domain.OpSnacks, http.MethodGet, "/api/snacks", nil, nil, &snacks)
	if err != nil {
		return nil, err
	}

	return snacks, nil
}

func (c *Client) ShowTimings(ctx context.Context, movieID int) ([]domain.ShowTiming, error) {
	var payload struct {
		ShowTimings []domain.ShowTiming `json:"showTimings"`
	}

	query := url.Values{"movieId": {strconv.Itoa(movieID)}}

	err := c.do(ctx, domain.OpShowTimings, http.MethodGet, "/api/showtimings", query, nil, &payload)
	if err != nil {
		return nil, err
	}

	if payload.ShowTimings == nil {
		return []domain.ShowTiming{}, nil
	}

	return payload.ShowTimings, nil
}
