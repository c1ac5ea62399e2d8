package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://x/", "/a", "http://x/a"},
		{"http://x", "a", "http://x/a"},
		{"http://x", "/a", "http://x/a"},
		{"http://x/", "a", "http://x/a"},
		{"http://x//", "//a", "http://x/a"},
		{"http://x/base/", "/api/events", "http://x/base/api/events"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.base, tt.path))
		})
	}

	c := New("http://x/")
	assert.Equal(t, ResolveURL("http://x", "a"), c.ResolveURL("/a"))
}

// recorded captures the last request a test server received.
type recorded struct {
	method      string
	path        string
	auth        string
	contentType string
	body        string
}

func newServer(t *testing.T, status int, respBody string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method:      r.Method,
			path:        r.URL.Path,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(data),
		}
		if respBody != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestSendErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"json message", http.StatusNotFound, `{"message":"not found"}`, "not found"},
		{"empty body", http.StatusInternalServerError, "", "request failed with status 500"},
		{"html body", http.StatusBadGateway, "<html>bad gateway</html>", "request failed with status 502"},
		{"json without message", http.StatusBadRequest, `{"error":"x"}`, "request failed with status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			err := New(srv.URL).Send(context.Background(), http.MethodGet, "/api/events/1", nil, &models.Event{})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %T: %v", err, err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestSendAttachesHeaders(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)

	_, err := New(srv.URL).FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.auth, "no token source means no Authorization header")
	assert.Equal(t, "application/json", rec.contentType)

	_, err = New(srv.URL, WithTokenSource(staticToken(""))).FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.auth, "an empty token is not sent")

	_, err = New(srv.URL).WithTokens(staticToken("tok")).FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", rec.auth)
}

func TestSendEncodesJSONBody(t *testing.T) {
	srv, rec := newServer(t, http.StatusCreated, `{"id":"c1","name":"Music"}`)

	category, err := New(srv.URL).CreateCategory(context.Background(), "Music")
	require.NoError(t, err)
	assert.Equal(t, &models.Category{ID: "c1", Name: "Music"}, category)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/categories", rec.path)
	assert.JSONEq(t, `{"name":"Music"}`, rec.body)
}

func TestSendMultipartForm(t *testing.T) {
	srv, rec := newServer(t, http.StatusCreated, `{"id":"e1","name":"Gallery","date":"2030-01-01"}`)

	price := 5.0
	form := EventForm(models.EventInput{
		Name:   "Gallery",
		Date:   "2030-01-01",
		Price:  &price,
		TagIDs: []string{"t1", "t2"},
	}, "poster.png", strings.NewReader("png-bytes"))

	event, err := New(srv.URL).CreateEventForm(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "e1", event.ID)

	assert.True(t, strings.HasPrefix(rec.contentType, "multipart/form-data; boundary="), rec.contentType)
	assert.Contains(t, rec.body, `name="name"`)
	assert.Contains(t, rec.body, "Gallery")
	assert.Contains(t, rec.body, `filename="poster.png"`)
	assert.Contains(t, rec.body, "png-bytes")
	assert.Equal(t, 2, strings.Count(rec.body, `name="tags"`))
}

func TestSendDeleteAcceptsEmptyBody(t *testing.T) {
	srv, rec := newServer(t, http.StatusNoContent, "")

	require.NoError(t, New(srv.URL).DeleteTag(context.Background(), "a/b"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/tags/a/b", rec.path, "the server decodes the escaped id")
}

func TestSendMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html></html>`},
		{"empty", ``},
		{"wrong shape", `{"id":1}`},
		{"fails validation", `[{"id":"","name":"nameless"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusOK, tt.body)
			_, err := New(srv.URL).FetchCategories(context.Background())

			var transportErr *TransportError
			require.True(t, errors.As(err, &transportErr), "expected TransportError, got %T: %v", err, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestLoginRequiresTokenAndUser(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"user":{"id":"1","email":"a@b.com"}}`)

	_, err := New(srv.URL).Login(context.Background(), "a@b.com", "pw")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSendTransportFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	_, err := New(url).FetchEvents(context.Background())
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %T", err)
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Equal(t, url+"/api/events", transportErr.URL)
}

func TestSendHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).FetchEvents(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`[]`)),
		Request:    req,
	}, nil
}

func TestWithTimeoutKeepsInjectedTransport(t *testing.T) {
	transport := &countingTransport{}
	injected := &http.Client{Transport: transport}

	client := New("http://api.invalid", WithHTTPClient(injected), WithTimeout(2*time.Second))

	_, err := client.FetchTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, transport.calls, "requests go through the injected transport")
	assert.Equal(t, 2*time.Second, client.http.Timeout)
	assert.Zero(t, injected.Timeout, "the caller's client is not mutated")
}
