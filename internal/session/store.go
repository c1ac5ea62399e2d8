// Package session owns the client's authentication state: the current
// user and bearer token, mirrored to durable storage so a restart picks
// the session back up.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"eventbook/internal/gateway"
	"eventbook/internal/models"
	"eventbook/internal/storage"
)

// State is the lifecycle position of a Store.
type State int

const (
	StateUninitialized State = iota
	StateRestoring
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Storage is the durable key/value store the session is mirrored to.
type Storage interface {
	Get(key string) (string, bool, error)
	SetMany(entries map[string]string) error
	Remove(keys ...string) error
}

// Authenticator performs the unauthenticated auth calls.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.RegisterResponse, error)
}

// Store is the single authority for who is logged in. It is the only
// writer of the token and user entries in durable storage and serves the
// token to the gateway as a gateway.TokenSource.
type Store struct {
	db     Storage
	auth   Authenticator
	logger *slog.Logger

	mu    sync.RWMutex
	state State
	user  *models.User
	token string
}

var _ gateway.TokenSource = (*Store)(nil)

// NewStore creates an uninitialized Store. Call Restore before use.
func NewStore(db Storage, auth Authenticator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, auth: auth, logger: logger}
}

// Restore loads the persisted session. It never fails: unreadable state
// leaves the store anonymous, and corrupt state is also cleared from
// durable storage.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateRestoring
	s.user, s.token = nil, ""

	user, token, err := s.load()
	if err != nil {
		var corrupt *corruptSessionError
		if errors.As(err, &corrupt) {
			s.logger.Warn("discarding corrupt session", slog.String("reason", corrupt.Error()))
			if rmErr := s.db.Remove(storage.KeyToken, storage.KeyUser); rmErr != nil {
				s.logger.Error("failed to clear corrupt session", slog.String("error", rmErr.Error()))
			}
		} else {
			s.logger.Warn("failed to read session", slog.String("error", err.Error()))
		}
		s.state = StateAnonymous
		return
	}

	if user == nil {
		s.state = StateAnonymous
		return
	}
	s.user, s.token = user, token
	s.state = StateAuthenticated
}

// load returns a nil user when nothing is stored.
func (s *Store) load() (*models.User, string, error) {
	rawUser, hasUser, err := s.db.Get(storage.KeyUser)
	if err != nil {
		return nil, "", err
	}
	token, hasToken, err := s.db.Get(storage.KeyToken)
	if err != nil {
		return nil, "", err
	}

	switch {
	case !hasUser && !hasToken:
		return nil, "", nil
	case !hasUser:
		return nil, "", &corruptSessionError{reason: "token without user"}
	case !hasToken || token == "":
		return nil, "", &corruptSessionError{reason: "user without token"}
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, "", &corruptSessionError{reason: "unparseable user", err: err}
	}
	if err := user.Validate(); err != nil {
		return nil, "", &corruptSessionError{reason: "invalid user", err: err}
	}
	return &user, token, nil
}

// Login authenticates against the server. On success the returned token
// and user replace any previous session, in durable storage first and then
// in memory. On failure nothing changes.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		return err
	}

	rawUser, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.SetMany(map[string]string{
		storage.KeyToken: resp.Token,
		storage.KeyUser:  string(rawUser),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	user := *resp.User
	s.user, s.token = &user, resp.Token
	s.state = StateAuthenticated
	s.logger.Info("logged in", slog.String("user_id", user.ID), slog.String("role", user.Role))
	return nil
}

// Register creates an account without logging in.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	_, err := s.auth.Register(ctx, models.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %w", ErrRegistration, err)
		}
		return err
	}
	s.logger.Info("registered account", slog.String("email", email))
	return nil
}

// Logout clears the session from memory and durable storage. Calling it
// while anonymous is a no-op. Memory is cleared even if storage fails.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasAuthenticated := s.state == StateAuthenticated
	s.user, s.token = nil, ""
	s.state = StateAnonymous

	if err := s.db.Remove(storage.KeyToken, storage.KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if wasAuthenticated {
		s.logger.Info("logged out")
	}
	return nil
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user and token are held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated
}

// IsAdmin is derived from the current user on every call.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// IsLoading is true until Restore has completed.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateUninitialized || s.state == StateRestoring
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
