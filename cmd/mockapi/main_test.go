package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventbook/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	cfg := &config.ServerConfig{
		Port:          "0",
		JWTSecret:     "router-test-secret-0123456789",
		TokenTTL:      time.Hour,
		AdminName:     "Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-pass",
		LogLevel:      "info",
	}
	mux, err := setupRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err, "failed to build router")

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "Health check",
			method:     "GET",
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Events are public",
			method:     "GET",
			path:       "/api/events",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Unknown event",
			method:     "GET",
			path:       "/api/events/nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Create category requires auth",
			method:     "POST",
			path:       "/api/categories",
			body:       `{"name":"Music"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "My bookings requires auth",
			method:     "GET",
			path:       "/api/bookings/me",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Seeded admin can log in",
			method:     "POST",
			path:       "/api/auth/login",
			body:       `{"email":"admin@example.com","password":"admin-pass"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Wrong password",
			method:     "POST",
			path:       "/api/auth/login",
			body:       `{"email":"admin@example.com","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = http.NoBody
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
		})
	}
}

func TestSetupRouter_ShortSecret(t *testing.T) {
	cfg := &config.ServerConfig{JWTSecret: "short", TokenTTL: time.Hour}
	_, err := setupRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
