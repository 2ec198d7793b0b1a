package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSortMovies(t *testing.T) {
	movies := []Movie{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B", Trending: true},
		{ID: 3, Title: "C"},
		{ID: 4, Title: "D", Trending: true},
		{ID: 1, Title: "A"},
	}

	got := SortMovies(movies)

	titles := make([]string, len(got))
	for i, m := range got {
		titles[i] = m.Title
	}

	if diff := cmp.Diff([]string{"B", "D", "A", "C"}, titles); diff != "" {
		t.Errorf("SortMovies() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		value  string
		want   time.Time
		wantOk bool
	}{
		{value: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), wantOk: true},
		{value: "2024-03-15 18:30:00", want: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), wantOk: true},
		{value: "2024-03-15T18:30:00Z", want: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), wantOk: true},
		{value: "next friday"},
		{value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := Movie{ReleaseDate: tt.value}.ParseReleaseDate()
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseReleaseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShowTimingDecode(t *testing.T) {
	payload := `{"showId":5,"movieId":2,"showDate":"2025-06-01","showTime":"18:30","screenNo":3,"availableSeats":42,"movieName":"Dune"}`

	var show ShowTiming
	if err := json.Unmarshal([]byte(payload), &show); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if show.ShowDate.Format(time.DateOnly) != "2025-06-01" {
		t.Errorf("ShowDate = %v", show.ShowDate)
	}
	if show.AvailableSeats != 42 || show.ShowID != 5 {
		t.Errorf("unexpected show %+v", show)
	}
}
