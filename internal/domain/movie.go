package domain

import (
	"context"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime/types"
)

type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Duration    int    `json:"duration"`
	ReleaseDate string `json:"releaseDate"`
	Trending    bool   `json:"trending"`
}

type ShowTiming struct {
	ShowID         int        `json:"showId"`
	MovieID        int        `json:"movieId"`
	ShowDate       types.Date `json:"showDate"`
	ShowTime       string     `json:"showTime"`
	ScreenNo       int        `json:"screenNo"`
	AvailableSeats int        `json:"availableSeats"`
	MovieName      string     `json:"movieName"`
}

var releaseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseReleaseDate parses the release date in any of the layouts the backend is
// known to send. ok is false when none of them match.
func (m Movie) ParseReleaseDate() (t time.Time, ok bool) {
	value := strings.TrimSpace(m.ReleaseDate)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range releaseDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// TrendingFirst orders items with trending ones first, keeping the relative order
// within both groups. Every ID appears at most once.
func TrendingFirst[T any](items []T, trending func(T) bool, id func(T) int) []T {
	ordered := make([]T, 0, len(items))
	seen := make(map[int]struct{}, len(items))

	for _, pass := range []bool{true, false} {
		for _, item := range items {
			if trending(item) != pass {
				continue
			}

			if _, ok := seen[id(item)]; ok {
				continue
			}

			seen[id(item)] = struct{}{}
			ordered = append(ordered, item)
		}
	}

	return ordered
}

func SortMovies(movies []Movie) []Movie {
	return TrendingFirst(movies,
		func(m Movie) bool { return m.Trending },
		func(m Movie) int { return m.ID },
	)
}

type CatalogClient interface {
	Movies(ctx context.Context) ([]Movie, error)
	Snacks(ctx context.Context) ([]SnackItem, error)
	ShowTimings(ctx context.Context, movieID int) ([]ShowTiming, error)
}
