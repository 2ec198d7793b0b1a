package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/redis/go-redis/v9"
)

type key string

const (
	KeyUser  = key("user")
	KeyGuest = key("guest")
	KeyFlash = key("flash")
)

func (k key) String() string {
	return string(k)
}

// NewManager returns a session manager backed by redis, or by an in-memory
// store when client is nil.
func NewManager(client *redis.Client, idleTimeout time.Duration) *scs.SessionManager {
	manager := scs.New()

	if client != nil {
		manager.Store = goredisstore.New(client)
	} else {
		manager.Store = memstore.New()
	}

	manager.IdleTimeout = idleTimeout
	manager.Cookie.Name = "session_id"
	manager.Cookie.HttpOnly = true
	manager.Cookie.SameSite = http.SameSiteLaxMode

	return manager
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// Store keeps the logged-in user and flash notifications in the scs session
// of the request context.
type Store struct {
	manager *scs.SessionManager
}

func NewStore(manager *scs.SessionManager) *Store {
	return &Store{manager: manager}
}

func (s *Store) Manager() *scs.SessionManager {
	return s.manager
}

func (s *Store) Token(ctx context.Context) string {
	return s.manager.Token(ctx)
}

// HasUser reports whether a user is logged in. Only the presence of the user
// document matters.
func (s *Store) HasUser(ctx context.Context) bool {
	return s.manager.GetString(ctx, KeyUser.String()) != ""
}

// CurrentUser decodes the session user. It returns
// domain.ErrAuthenticationRequired when nobody is logged in.
func (s *Store) CurrentUser(ctx context.Context) (*domain.User, error) {
	raw := s.manager.GetString(ctx, KeyUser.String())
	if raw == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	var user domain.User
	err := json.Unmarshal([]byte(raw), &user)
	if err != nil {
		return nil, fmt.Errorf("decoding session user: %w", err)
	}

	return &user, nil
}

// SetUser stores the user document returned by the backend and renews the
// session token. It returns the token before and after renewal.
func (s *Store) SetUser(ctx context.Context, user json.RawMessage) (oldToken, newToken string, err error) {
	if !json.Valid(user) {
		return "", "", errors.New("session user is not valid JSON")
	}

	oldToken = s.manager.Token(ctx)

	err = s.manager.RenewToken(ctx)
	if err != nil {
		return "", "", err
	}

	s.manager.Put(ctx, KeyUser.String(), string(user))
	s.manager.Remove(ctx, KeyGuest.String())

	return oldToken, s.manager.Token(ctx), nil
}

// Clear logs the user out and starts a fresh guest session.
func (s *Store) Clear(ctx context.Context) error {
	err := s.manager.Destroy(ctx)
	if err != nil {
		return err
	}

	s.manager.Put(ctx, KeyGuest.String(), true)

	return nil
}

func (s *Store) PutFlash(ctx context.Context, flash Flash) {
	data, err := json.Marshal(flash)
	if err != nil {
		return
	}

	s.manager.Put(ctx, KeyFlash.String(), string(data))
}

func (s *Store) PopFlash(ctx context.Context) (Flash, bool) {
	raw := s.manager.PopString(ctx, KeyFlash.String())
	if raw == "" {
		return Flash{}, false
	}

	var flash Flash
	err := json.Unmarshal([]byte(raw), &flash)
	if err != nil {
		return Flash{}, false
	}

	return flash, true
}
