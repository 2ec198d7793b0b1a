package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/metinatakli/movie-booking-web/api"
	"github.com/metinatakli/movie-booking-web/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 1 << 20

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Transport defaults to an OpenTelemetry instrumented http.DefaultTransport.
	Transport http.RoundTripper
	// Contract, when set, validates every successful response body.
	Contract *api.Contract
	Logger   *slog.Logger
}

// Client talks to the booking backend. It implements domain.CatalogClient,
// domain.OrderClient and domain.AuthClient.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	contract *api.Contract
	logger   *slog.Logger
}

var (
	_ domain.CatalogClient = (*Client)(nil)
	_ domain.OrderClient   = (*Client)(nil)
	_ domain.AuthClient    = (*Client)(nil)
)

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}

	baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}

	transport := opts.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Transport: transport, Timeout: opts.Timeout},
		contract: opts.Contract,
		logger:   logger,
	}, nil
}

// errorEnvelope is the failure convention shared by every endpoint: a non-empty
// error field means the call failed whatever the status code was.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do sends one request and decodes a successful JSON answer into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return &domain.NetworkError{Op: op, Status: res.StatusCode, Err: err}
	}

	var envelope errorEnvelope
	if len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
		_ = json.Unmarshal(data, &envelope)
	}

	success := res.StatusCode >= 200 && res.StatusCode < 300
	if !success || envelope.Error != "" {
		c.logger.Warn("backend call failed", "op", op, "status", res.StatusCode, "error", envelope.Error)

		return &domain.NetworkError{
			Op:      op,
			Status:  res.StatusCode,
			Message: envelope.Error,
		}
	}

	if c.contract != nil {
		err = c.contract.ValidateResponse(method, path, res.StatusCode, data)
		if err != nil {
			c.logger.Error("backend response violates contract", "op", op, "error", err)
			return &domain.DataShapeError{Op: op, Detail: domain.FallbackMessage(op), Err: err}
		}
	}

	if out == nil {
		return nil
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return &domain.DataShapeError{Op: op, Detail: domain.FallbackMessage(op), Err: err}
	}

	return nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}

	return uuid.NewString()
}
