package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

type userPayload struct {
	User json.RawMessage `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (json.RawMessage, error) {
	return c.authenticate(ctx, domain.OpLogin, "/api/login", creds)
}

func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error) {
	return c.authenticate(ctx, domain.OpSignup, "/api/signup", req)
}

func (c *Client) authenticate(ctx context.Context, op, path string, body any) (json.RawMessage, error) {
	var payload userPayload

	err := c.do(ctx, op, http.MethodPost, path, nil, body, &payload)
	if err != nil {
		return nil, err
	}

	if len(payload.User) == 0 || bytes.Equal(payload.User, []byte("null")) {
		return nil, &domain.DataShapeError{Op: op, Detail: domain.FallbackMessage(op)}
	}

	return payload.User, nil
}
