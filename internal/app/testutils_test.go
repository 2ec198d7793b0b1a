package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/mocks"
	"github.com/metinatakli/movie-booking-web/internal/render"
	"github.com/metinatakli/movie-booking-web/internal/session"
	"github.com/metinatakli/movie-booking-web/internal/validator"
	"github.com/metinatakli/movie-booking-web/internal/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testMovieID       = 7
	testShowID        = 70
	testReservationID = 501
)

var testUserJSON = json.RawMessage(`{"name":"Ada Lovelace","email":"ada@example.com","age":36,"gender":"Female","id":3}`)

// testBackend holds the mocks behind a test application and counts the calls
// that change backend state.
type testBackend struct {
	catalog   *mocks.MockCatalogClient
	orders    *mocks.MockOrderClient
	auth      *mocks.MockAuthClient
	publisher *mocks.MockPublisher

	bookCalls  atomic.Int32
	snackCalls atomic.Int32
}

func newTestBackend() *testBackend {
	b := &testBackend{publisher: &mocks.MockPublisher{}}

	b.catalog = &mocks.MockCatalogClient{
		MoviesFunc: func(ctx context.Context) ([]domain.Movie, error) {
			return []domain.Movie{
				{ID: 1, Title: "Nosferatu", Genre: "Horror", Duration: 94},
				{ID: testMovieID, Title: "Metropolis", Genre: "Sci-Fi", Duration: 153, Trending: true},
			}, nil
		},
		SnacksFunc: func(ctx context.Context) ([]domain.SnackItem, error) {
			return []domain.SnackItem{
				{ID: 1, ItemName: "Popcorn", Price: decimal.RequireFromString("50"), Quantity: 3, LowStock: true},
				{ID: 2, ItemName: "Nachos", Price: decimal.RequireFromString("80"), Quantity: 10},
			}, nil
		},
		ShowTimingsFunc: func(ctx context.Context, movieID int) ([]domain.ShowTiming, error) {
			return []domain.ShowTiming{
				{ShowID: testShowID, MovieID: movieID, ShowTime: "18:30", ScreenNo: 2, AvailableSeats: 12},
			}, nil
		},
	}

	b.orders = &mocks.MockOrderClient{
		BookFunc: func(ctx context.Context, draft domain.BookingDraft) (*domain.Reservation, error) {
			b.bookCalls.Add(1)
			return &domain.Reservation{
				ReservationID: testReservationID,
				MovieTitle:    "Metropolis",
				Tickets: []domain.Ticket{
					{ScreenNo: 2, RowNo: "A", SeatNo: "1", Price: decimal.RequireFromString("200")},
					{ScreenNo: 2, RowNo: "A", SeatNo: "2", Price: decimal.RequireFromString("250")},
				},
			}, nil
		},
		OrderSnacksFunc: func(ctx context.Context, order domain.SnackOrderRequest) ([]domain.SnackOrderLine, error) {
			b.snackCalls.Add(1)
			return nil, nil
		},
		ConfirmFunc: func(ctx context.Context, reservationID int) (*domain.Reservation, error) {
			return &domain.Reservation{ReservationID: reservationID, Status: domain.StatusConfirmed, EmployeeName: "Sam"}, nil
		},
		CancelFunc: func(ctx context.Context, reservationID int) error {
			return nil
		},
	}

	b.auth = &mocks.MockAuthClient{
		LoginFunc: func(ctx context.Context, creds domain.Credentials) (json.RawMessage, error) {
			return testUserJSON, nil
		},
		SignupFunc: func(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error) {
			return testUserJSON, nil
		},
	}

	return b
}

func newTestApplication(t *testing.T, b *testBackend, opts ...func(*Application)) *Application {
	t.Helper()

	renderer, err := render.New()
	require.NoError(t, err)

	app := &Application{
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessions:  session.NewStore(session.NewManager(nil, time.Hour)),
		renderer:  renderer,
		publisher: b.publisher,
		catalog:   b.catalog,
		orders:    b.orders,
		auth:      b.auth,
	}
	app.config.Env = "test"

	for _, opt := range opts {
		opt(app)
	}

	app.workflows = workflow.NewRegistry(app.newWorkflow)

	return app
}

type testResponse struct {
	status int
	body   string
	path   string
	header http.Header
}

// testClient is a browser-like client: it keeps cookies and follows redirects.
type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestClient(t *testing.T, app *Application) *testClient {
	t.Helper()

	server := httptest.NewServer(app.Routes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := server.Client()
	client.Jar = jar

	return &testClient{t: t, server: server, client: client}
}

func (c *testClient) do(req *http.Request) testResponse {
	c.t.Helper()

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return testResponse{
		status: resp.StatusCode,
		body:   string(body),
		path:   resp.Request.URL.Path,
		header: resp.Header,
	}
}

func (c *testClient) get(path string) testResponse {
	c.t.Helper()

	req, err := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	require.NoError(c.t, err)

	return c.do(req)
}

func (c *testClient) post(path string, form url.Values) testResponse {
	c.t.Helper()

	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *testClient) login() {
	c.t.Helper()

	resp := c.post("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret123"}})
	require.Equal(c.t, http.StatusOK, resp.status)
	require.Contains(c.t, resp.body, msgLoginSuccessful)
}

// toTicketReview logs in and books two seats of the test show.
func (c *testClient) toTicketReview() {
	c.t.Helper()

	c.login()
	c.get("/movies/7/showtimings")
	c.get("/shows/70/book")

	resp := c.post("/booking", url.Values{"seats": {"2"}})
	require.Contains(c.t, resp.body, msgBookingCompleted)
}
