package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// fakeBackend serves the booking API the frontend talks to. It keeps seat
// counts so that bookings and cancellations show up in later listings.
type fakeBackend struct {
	mu        sync.Mutex
	seats     int
	confirmed map[int]bool
	cancelled map[int]bool
	snackCall int
	failLogin bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		seats:     testSeats,
		confirmed: make(map[int]bool),
		cancelled: make(map[int]bool),
	}
}

func (b *fakeBackend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seats = testSeats
	b.confirmed = make(map[int]bool)
	b.cancelled = make(map[int]bool)
	b.snackCall = 0
	b.failLogin = false
}

func (b *fakeBackend) server() *httptest.Server {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies", b.movies)
		r.Get("/snacks", b.snacks)
		r.Get("/showtimings", b.showTimings)
		r.Post("/book", b.book)
		r.Post("/snacks/order", b.orderSnacks)
		r.Post("/booking/confirm", b.confirm)
		r.Post("/booking/cancel", b.cancel)
		r.Post("/login", b.login)
		r.Post("/signup", b.signup)
	})

	return httptest.NewServer(r)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (b *fakeBackend) movies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `[
		{"id":1,"title":"Nosferatu","genre":"Horror","duration":94,"releaseDate":"1922-03-04"},
		{"id":7,"title":"Metropolis","genre":"Sci-Fi","duration":153,"releaseDate":"1927-01-10T00:00:00Z","trending":true}
	]`)
}

func (b *fakeBackend) snacks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `[
		{"id":1,"itemName":"Popcorn","price":50,"quantity":3,"lowStock":true},
		{"id":2,"itemName":"Nachos","price":"80.00","quantity":10}
	]`)
}

func (b *fakeBackend) showTimings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("movieId") != strconv.Itoa(testMovieID) {
		writeJSON(w, http.StatusOK, `{"showTimings":null}`)
		return
	}

	b.mu.Lock()
	seats := b.seats
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, `{"showTimings":[{"showId":70,"movieId":7,"showDate":"2026-10-20","showTime":"18:30","screenNo":2,"availableSeats":`+strconv.Itoa(seats)+`}]}`)
}

func (b *fakeBackend) book(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShowID int `json:"showId"`
		Seats  int `json:"seats"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.ShowID != testShowID {
		writeJSON(w, http.StatusBadRequest, `{"error":"Invalid show"}`)
		return
	}

	b.mu.Lock()
	if req.Seats > b.seats {
		b.mu.Unlock()
		writeJSON(w, http.StatusConflict, `{"error":"Not enough seats left"}`)
		return
	}
	b.seats -= req.Seats
	b.mu.Unlock()

	type ticket struct {
		ScreenNo int    `json:"screenNo"`
		RowNo    string `json:"rowNo"`
		SeatNo   int    `json:"seatNo"`
		Price    string `json:"price"`
	}

	tickets := make([]ticket, req.Seats)
	for i := range tickets {
		tickets[i] = ticket{ScreenNo: 2, RowNo: "C", SeatNo: i + 1, Price: "200.00"}
	}

	body, _ := json.Marshal(map[string]any{
		"ticket": map[string]any{
			"reservationId": testReservationID,
			"movieTitle":    "Metropolis",
			"showDate":      "2026-10-20",
			"showTime":      "18:30",
			"tickets":       tickets,
		},
	})

	writeJSON(w, http.StatusOK, string(body))
}

func (b *fakeBackend) orderSnacks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.snackCall++
	b.mu.Unlock()

	// an empty answer makes the frontend echo its own order
	writeJSON(w, http.StatusOK, `{"orders":[]}`)
}

func (b *fakeBackend) confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, `{"error":"Unknown reservation"}`)
		return
	}

	b.mu.Lock()
	b.confirmed[id] = true
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, `{"ticket":{"reservationId":`+strconv.Itoa(id)+`,"status":"Confirmed","employeeName":"Priya"}}`)
}

func (b *fakeBackend) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, `{"error":"Unknown reservation"}`)
		return
	}

	b.mu.Lock()
	b.cancelled[id] = true
	b.seats = testSeats
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, `{"message":"Ticket cancelled"}`)
}

func reservationID(r *http.Request) (int, bool) {
	var req struct {
		ReservationID int `json:"reservationId"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.ReservationID != testReservationID {
		return 0, false
	}

	return req.ReservationID, true
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	fail := b.failLogin
	b.mu.Unlock()

	if fail || req.Email != testEmail || req.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, `{"error":"Invalid email or password"}`)
		return
	}

	writeJSON(w, http.StatusOK, `{"user":`+testUserJSON+`}`)
}

func (b *fakeBackend) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}

	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Email == testEmail {
		writeJSON(w, http.StatusOK, `{"error":"Email already registered"}`)
		return
	}

	writeJSON(w, http.StatusOK, `{"user":{"id":4,"name":"Grace Hopper","email":"`+req.Email+`","age":40,"gender":"Female"}}`)
}
