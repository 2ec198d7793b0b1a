package mocks

import (
	"context"
	"encoding/json"

	"github.com/metinatakli/movie-booking-web/internal/domain"
)

type MockAuthClient struct {
	domain.AuthClient
	LoginFunc  func(ctx context.Context, creds domain.Credentials) (json.RawMessage, error)
	SignupFunc func(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error)
}

func (m *MockAuthClient) Login(ctx context.Context, creds domain.Credentials) (json.RawMessage, error) {
	return m.LoginFunc(ctx, creds)
}

func (m *MockAuthClient) Signup(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error) {
	return m.SignupFunc(ctx, req)
}
