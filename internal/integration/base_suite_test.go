package integration_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/metinatakli/movie-booking-web/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type BaseSuite struct {
	suite.Suite
	app            *TestApp
	backend        *fakeBackend
	backendServer  *httptest.Server
	cacheContainer *RedisContainer
	server         *httptest.Server
}

func (s *BaseSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		s.T().Skipf("failed to start container: %s", err)
	}

	s.cacheContainer = redisContainer

	s.backend = newFakeBackend()
	s.backendServer = s.backend.server()

	var cfg app.Config
	cfg.Env = "test"
	cfg.Backend.URL = s.backendServer.URL
	cfg.Redis.URL = redisContainer.ConnectionString
	cfg.Redis.MaxOpenConns = 10
	cfg.Redis.MaxIdleConns = 10
	cfg.Redis.MaxIdleTime = 2 * time.Minute
	cfg.Session.IdleTimeout = 20 * time.Minute

	testApp, err := newTestApp(cfg)
	s.Require().NoError(err, "cannot initialize app")

	s.app = testApp
	s.server = httptest.NewServer(testApp.App.Routes())
}

func (s *BaseSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.backendServer != nil {
		s.backendServer.Close()
	}
	if s.app != nil {
		s.app.Redis.Close()
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) SetupTest() {
	s.backend.reset()
	s.app.Mailer.Reset()
	s.app.Publisher.Reset()
	s.Require().NoError(s.app.Redis.FlushAll(context.Background()).Err())
}

// newBrowser returns a client that keeps its own session cookie.
func (s *BaseSuite) newBrowser() *browser {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)

	client := s.server.Client()
	client.Jar = jar

	return &browser{baseURL: s.server.URL, client: client}
}

type browser struct {
	baseURL string
	client  *http.Client
}

// Scenario is one browser request and what the page after all redirects must
// show.
type Scenario struct {
	Name           string
	Method         string
	URL            string
	Form           url.Values
	ExpectedStatus int
	ExpectedPath   string
	ExpectedBody   []string
	UnexpectedBody []string
	BeforeTestFunc func(t testing.TB, app *TestApp)
	AfterTestFunc  func(t testing.TB, app *TestApp, body string)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp, b *browser) {
	t.Run(s.Name, func(t *testing.T) {
		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		status, path, body := b.do(t, s.Method, s.URL, s.Form)

		expectedStatus := s.ExpectedStatus
		if expectedStatus == 0 {
			expectedStatus = http.StatusOK
		}

		assert.Equal(t, expectedStatus, status)

		if s.ExpectedPath != "" {
			assert.Equal(t, s.ExpectedPath, path)
		}

		for _, want := range s.ExpectedBody {
			assert.Contains(t, body, want)
		}

		for _, unwanted := range s.UnexpectedBody {
			assert.NotContains(t, body, unwanted)
		}

		if s.AfterTestFunc != nil {
			s.AfterTestFunc(t, testApp, body)
		}
	})
}

func (b *browser) do(t testing.TB, method, path string, form url.Values) (status int, finalPath, body string) {
	t.Helper()

	req, err := prepareRequest(method, b.baseURL+path, form)
	require.NoError(t, err)

	res, err := b.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	data := new(strings.Builder)
	_, err = io.Copy(data, res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Request.URL.Path, data.String()
}
