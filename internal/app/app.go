package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-web/api"
	"github.com/metinatakli/movie-booking-web/internal/backend"
	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/events"
	"github.com/metinatakli/movie-booking-web/internal/mailer"
	"github.com/metinatakli/movie-booking-web/internal/render"
	"github.com/metinatakli/movie-booking-web/internal/session"
	appvalidator "github.com/metinatakli/movie-booking-web/internal/validator"
	"github.com/metinatakli/movie-booking-web/internal/vcs"
	"github.com/metinatakli/movie-booking-web/internal/workflow"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "movie-booking-web"

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	redis     redis.UniversalClient
	validator *validator.Validate
	mailer    mailer.Mailer
	publisher events.Publisher
	sessions  *session.Store
	renderer  *render.Renderer

	catalog domain.CatalogClient
	orders  domain.OrderClient
	auth    domain.AuthClient

	workflows *workflow.Registry
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	Backend          struct {
		URL     string
		Timeout time.Duration
		Strict  bool
	}
	Redis struct {
		URL          string
		MaxOpenConns int
		MaxIdleConns int
		MaxIdleTime  time.Duration
	}
	Session struct {
		IdleTimeout time.Duration
	}
	Workflow struct {
		IdleTimeout   time.Duration
		SweepInterval time.Duration
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		Sender   string
	}
	AMQP struct {
		URL string
	}
}

// Run parses the configuration, wires the dependencies and serves until the
// process receives SIGINT or SIGTERM. Every flag defaults to the value of its
// environment variable when set.
func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", getenvInt("PORT", 4000), "server port")
	flag.StringVar(&cfg.Env, "env", getenv("APP_ENV", "dev"), "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", getenv("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	flag.StringVar(&cfg.Backend.URL, "backend-url", getenv("BACKEND_URL", "http://localhost:3000"), "Booking backend base URL")
	flag.DurationVar(&cfg.Backend.Timeout, "backend-timeout", getenvDuration("BACKEND_TIMEOUT", 10*time.Second), "Booking backend request timeout")
	flag.BoolVar(&cfg.Backend.Strict, "backend-strict", getenvBool("BACKEND_STRICT", false), "Validate backend responses against the API contract")

	flag.StringVar(&cfg.Redis.URL, "redis-url", getenv("REDIS_URL", ""), "Redis address, sessions are kept in memory when empty")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", getenvInt("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", getenvInt("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", getenvDuration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	flag.DurationVar(&cfg.Session.IdleTimeout, "session-idle-timeout", getenvDuration("SESSION_IDLE_TIMEOUT", 20*time.Minute), "Session idle timeout")
	flag.DurationVar(&cfg.Workflow.IdleTimeout, "workflow-idle-timeout", getenvDuration("WORKFLOW_IDLE_TIMEOUT", 30*time.Minute), "Drop booking workflows unused for this long")
	flag.DurationVar(&cfg.Workflow.SweepInterval, "workflow-sweep-interval", getenvDuration("WORKFLOW_SWEEP_INTERVAL", 5*time.Minute), "How often idle booking workflows are dropped")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", getenv("SMTP_HOST", ""), "SMTP host, tickets are not mailed when empty")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", getenvInt("SMTP_PORT", 2525), "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", getenv("SMTP_USERNAME", ""), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", getenv("SMTP_PASSWORD", ""), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", getenv("SMTP_SENDER", "Movie Booking <no-reply@movie-booking.local>"), "SMTP sender")

	flag.StringVar(&cfg.AMQP.URL, "amqp-url", getenv("AMQP_URL", ""), "RabbitMQ URL for booking events, disabled when empty")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	textHandler := slog.NewTextHandler(os.Stdout, nil)
	logger := slog.New(textHandler)

	app := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(textHandler, otelslog.NewHandler(serviceName)))
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	sessions := session.NewStore(session.NewManager(redisClient, cfg.Session.IdleTimeout))

	var contract *api.Contract
	if cfg.Backend.Strict {
		contract, err = api.LoadContract()
		if err != nil {
			return err
		}
	}

	client, err := backend.New(backend.Options{
		BaseURL:  cfg.Backend.URL,
		Timeout:  cfg.Backend.Timeout,
		Contract: contract,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
	}

	var appMailer mailer.Mailer
	if cfg.SMTP.Host != "" {
		appMailer = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	}

	app, err = NewApp(
		cfg,
		logger,
		redisClient,
		appvalidator.NewValidator(),
		appMailer,
		publisher,
		sessions,
		client,
		client,
		client,
	)
	if err != nil {
		return err
	}

	return app.run()
}

// NewApp wires an Application. redisClient may be nil when sessions are kept
// in memory, mailer may be nil to skip all email.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	redisClient *redis.Client,
	validator *validator.Validate,
	mailer mailer.Mailer,
	publisher events.Publisher,
	sessions *session.Store,
	catalog domain.CatalogClient,
	orders domain.OrderClient,
	auth domain.AuthClient,
) (*Application, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	app := &Application{
		config:    cfg,
		logger:    logger,
		validator: validator,
		mailer:    mailer,
		publisher: publisher,
		sessions:  sessions,
		renderer:  renderer,
		catalog:   catalog,
		orders:    orders,
		auth:      auth,
	}

	if redisClient != nil {
		app.redis = redisClient
	}

	app.workflows = workflow.NewRegistry(app.newWorkflow)

	return app, nil
}

func (app *Application) newWorkflow() *workflow.Workflow {
	return workflow.New(workflow.Config{
		Catalog:   app.catalog,
		Orders:    app.orders,
		Session:   app.sessions,
		Validator: app.validator,
		Publisher: app.publisher,
		Logger:    app.logger,
	})
}

// NewRedisClient connects to redis with tracing and metrics instrumentation.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()

	go app.workflows.Run(janitorCtx, app.config.Workflow.SweepInterval, app.config.Workflow.IdleTimeout, func(removed int) {
		app.logger.Debug("dropped idle booking workflows", "removed", removed, "remaining", app.workflows.Len())
	})

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "backend", app.config.Backend.URL)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(app.requestLogger)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)

	r.Get("/healthcheck", app.GetHealth)

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.Manager().LoadAndSave)
		r.Use(app.ensureGuestSession)
		r.Use(app.loadWorkflow)

		r.Get("/", app.Home)

		r.Get("/movies/{movieID}/showtimings", app.SelectMovie)
		r.Get("/movies/{movieID}/book", app.OpenMovieBookingForm)
		r.Get("/shows/{showID}/book", app.OpenShowBookingForm)

		r.Post("/booking", app.SubmitBooking)
		r.Post("/booking/dismiss", app.ResetWorkflow)
		r.Post("/receipt/close", app.ResetWorkflow)

		r.Route("/reservations/{reservationID}", func(r chi.Router) {
			r.Get("/snacks", app.OpenSnackForm)
			r.Post("/snacks", app.UpdateSnackOrder)
			r.Post("/confirm", app.ConfirmReservation)
			r.Post("/cancel", app.CancelReservation)
			r.Get("/receipt.pdf", app.DownloadReceipt)
		})

		r.Get("/login", app.LoginPage)
		r.Post("/login", app.Login)
		r.Get("/signup", app.SignupPage)
		r.Post("/signup", app.Signup)
		r.Post("/logout", app.Logout)
	})

	return r
}
