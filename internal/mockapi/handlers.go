// Package mockapi is an in-memory implementation of the booking API used
// for local development and tests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"eventbook/internal/auth"
	"eventbook/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Context key type to avoid collisions.
type contextKey string

// ClaimsContextKey is the context key for verified token claims.
const ClaimsContextKey contextKey = "claims"

const (
	roleUser      = "user"
	maxFormMemory = 8 << 20
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store  *memStore
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance with an empty data set.
func NewHandlers(tokens *auth.TokenIssuer, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{store: &memStore{}, tokens: tokens, logger: logger}
}

// SeedAdmin creates an admin account directly, bypassing registration.
func (h *Handlers) SeedAdmin(name, email, password string) (*models.User, error) {
	return h.seed(name, email, password, models.RoleAdmin)
}

// SeedUser creates a regular account directly.
func (h *Handlers) SeedUser(name, email, password string) (*models.User, error) {
	return h.seed(name, email, password, roleUser)
}

func (h *Handlers) seed(name, email, password, role string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := h.store.createUser(name, email, hash, role)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ClaimsFromContext returns the verified claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims
}

// AuthMiddleware verifies a bearer token when one is sent. Requests
// without a token pass through anonymously; a bad token is rejected.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		claims, err := h.tokens.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous and non-admin requests.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	user, err := h.store.createUser(req.Name, req.Email, hash, roleUser)
	if errors.Is(err, errDuplicate) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, models.RegisterResponse{User: &user})
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := h.store.userByEmail(strings.TrimSpace(req.Email))
	if !ok || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	u := user.User
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: &u})
}

// ListEvents handles GET /api/events.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.listEvents())
}

// GetEvent handles GET /api/events/{id}.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := h.store.event(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateEvent handles POST /api/events with a JSON or multipart body.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	in, err := parseEventInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Name == "" || in.Date == "" {
		writeError(w, http.StatusBadRequest, "name and date are required")
		return
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be ISO-8601")
		return
	}
	if in.Price != nil && *in.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	e, err := h.store.createEvent(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateEvent handles PUT /api/events/{id}.
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Date != "" {
		if _, err := models.ParseDate(in.Date); err != nil {
			writeError(w, http.StatusBadRequest, "date must be ISO-8601")
			return
		}
	}
	if in.Price != nil && *in.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	e, err := h.store.updateEvent(chi.URLParam(r, "id"), in)
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.store.deleteEvent(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.listCategories())
}

// CreateCategory handles POST /api/categories.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.createCategory(name))
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.deleteCategory(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTags handles GET /api/tags.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.listTags())
}

// CreateTag handles POST /api/tags.
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.createTag(name))
}

// DeleteTag handles DELETE /api/tags/{id}.
func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.store.deleteTag(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BookEvent handles POST /api/bookings/{eventID}.
func (h *Handlers) BookEvent(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	b, err := h.store.book(claims.Subject, chi.URLParam(r, "eventID"))
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, errDuplicate):
		writeError(w, http.StatusConflict, "event already booked")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, http.StatusCreated, b)
	}
}

// MyBookings handles GET /api/bookings/me.
func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.store.bookingsFor(claims.Subject))
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var in models.NameInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return "", false
	}
	return name, true
}

// parseEventInput reads either a JSON body or a multipart form.
func parseEventInput(r *http.Request) (models.EventInput, error) {
	var in models.EventInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := decodeJSON(r, &in); err != nil {
			return in, errors.New("invalid request body")
		}
		return in, nil
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return in, errors.New("invalid multipart form")
	}
	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	in.Date = r.FormValue("date")
	in.Venue = r.FormValue("venue")
	in.ImageURL = r.FormValue("imageUrl")
	in.CategoryID = r.FormValue("categoryId")
	in.TagIDs = r.MultipartForm.Value["tags"]
	if p := r.FormValue("price"); p != "" {
		price, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return in, errors.New("price must be a number")
		}
		in.Price = &price
	}
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		in.ImageURL = "/uploads/" + uuid.NewString() + "-" + header.Filename
	}
	return in, nil
}
