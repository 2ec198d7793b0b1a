package domain

import (
	"context"
	"encoding/json"
)

// User is the part of the session user the booking form needs. The full user
// document returned by the backend is kept opaque in the session.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Age      int    `json:"age" validate:"min=1,max=120"`
	Gender   string `json:"gender" validate:"required"`
}

// AuthClient returns the raw user JSON on success.
type AuthClient interface {
	Login(ctx context.Context, creds Credentials) (json.RawMessage, error)
	Signup(ctx context.Context, req SignupRequest) (json.RawMessage, error)
}
