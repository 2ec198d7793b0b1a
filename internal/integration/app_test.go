package integration_test

import (
	"log/slog"
	"os"
	"time"

	"github.com/metinatakli/movie-booking-web/internal/app"
	"github.com/metinatakli/movie-booking-web/internal/backend"
	"github.com/metinatakli/movie-booking-web/internal/mailer"
	"github.com/metinatakli/movie-booking-web/internal/mocks"
	"github.com/metinatakli/movie-booking-web/internal/session"
	appvalidator "github.com/metinatakli/movie-booking-web/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App       *app.Application
	Redis     *redis.Client
	Mailer    *mailer.MockMailer
	Publisher *mocks.MockPublisher
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	mailer := mailer.NewMockMailer()
	publisher := &mocks.MockPublisher{}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	client, err := backend.New(backend.Options{
		BaseURL: cfg.Backend.URL,
		Timeout: 5 * time.Second,
		Logger:  logger,
	})
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	sessions := session.NewStore(session.NewManager(redisClient, cfg.Session.IdleTimeout))

	application, err := app.NewApp(
		cfg,
		logger,
		redisClient,
		appvalidator.NewValidator(),
		mailer,
		publisher,
		sessions,
		client,
		client,
		client,
	)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	return &TestApp{
		App:       application,
		Redis:     redisClient,
		Mailer:    mailer,
		Publisher: publisher,
	}, nil
}
