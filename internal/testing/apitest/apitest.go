// Package apitest starts an in-process mock booking API for tests.
//
// Each server comes with one seeded admin account and one seeded regular
// account:
//
//	srv := apitest.New(t)
//	client := gateway.New(srv.URL)
//	resp, err := client.Login(ctx, apitest.UserEmail, apitest.UserPassword)
package apitest

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"eventbook/internal/auth"
	"eventbook/internal/mockapi"
	"eventbook/internal/models"

	"github.com/stretchr/testify/require"
)

// Seeded credentials.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin-pass"
	UserEmail     = "a@b.com"
	UserPassword  = "pw"
	Secret        = "apitest-secret-0123456789abcdef"
)

// Server is a running mock backend.
type Server struct {
	*httptest.Server
	Handlers *mockapi.Handlers
	Tokens   *auth.TokenIssuer
	Admin    *models.User
}

// New starts a mock backend that is closed when the test ends.
func New(t *testing.T) *Server {
	t.Helper()

	tokens, err := auth.NewTokenIssuer(Secret, time.Hour)
	require.NoError(t, err, "apitest: token issuer")

	h := mockapi.NewHandlers(tokens, Discard())
	admin, err := h.SeedAdmin("Admin", AdminEmail, AdminPassword)
	require.NoError(t, err, "apitest: seed admin")

	srv := httptest.NewServer(mockapi.NewRouter(h))
	t.Cleanup(srv.Close)

	s := &Server{Server: srv, Handlers: h, Tokens: tokens, Admin: admin}
	s.register(t, "Alice", UserEmail, UserPassword)
	return s
}

func (s *Server) register(t *testing.T, name, email, password string) {
	t.Helper()
	_, err := s.Handlers.SeedUser(name, email, password)
	require.NoError(t, err, "apitest: seed user")
}

// AdminToken returns a valid bearer token for the seeded admin.
func (s *Server) AdminToken(t *testing.T) string {
	t.Helper()
	token, err := s.Tokens.Issue(s.Admin.ID, s.Admin.Role)
	require.NoError(t, err)
	return token
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StaticToken is a gateway.TokenSource with a fixed value.
type StaticToken string

// Token implements gateway.TokenSource.
func (s StaticToken) Token() string { return string(s) }
