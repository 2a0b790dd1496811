package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/logging"
	"github.com/fitflix/backend/internal/models"
)

type authenticatorStub struct {
	identity models.Identity
	err      error
	header   string
}

func (a *authenticatorStub) Authenticate(_ context.Context, authorization string) (models.Identity, error) {
	a.header = authorization
	return a.identity, a.err
}

func TestRequireIdentityStoresIdentity(t *testing.T) {
	stub := &authenticatorStub{identity: models.Identity{ID: 7, Username: "alice"}}

	var got models.Identity
	handler := RequireIdentity(stub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity on context")
		}
		got = identity
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/videos/1", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 got %d", rec.Code)
	}
	if stub.header != "Bearer abc" {
		t.Fatalf("expected raw header to be forwarded got %q", stub.header)
	}
	if got.ID != 7 || got.Username != "alice" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestRequireIdentityRejects(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "missing token",
			err:     &apperr.Error{Kind: apperr.KindAuth, Message: "Token not provided.", Status: http.StatusForbidden},
			status:  http.StatusForbidden,
			message: "Token not provided.",
		},
		{
			name:    "invalid token",
			err:     apperr.Auth("Invalid token."),
			status:  http.StatusUnauthorized,
			message: "Invalid token.",
		},
		{
			name:    "unknown user",
			err:     apperr.NotFound("User not found."),
			status:  http.StatusNotFound,
			message: "User not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireIdentity(&authenticatorStub{err: tt.err})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/2", nil))

			if called {
				t.Fatal("next handler should not run")
			}
			if rec.Code != tt.status {
				t.Fatalf("expected status %d got %d", tt.status, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["message"] != tt.message {
				t.Fatalf("expected message %q got %q", tt.message, body["message"])
			}
		})
	}
}

type observation struct {
	route  string
	method string
	status int
}

type observerStub struct {
	seen []observation
}

func (o *observerStub) ObserveRequest(route, method string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{route: route, method: method, status: status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &observerStub{}

	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/videos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/42", nil))

	if len(observer.seen) != 1 {
		t.Fatalf("expected one observation got %d", len(observer.seen))
	}
	got := observer.seen[0]
	if got.route != "/videos/{id}" || got.method != http.MethodGet || got.status != http.StatusForbidden {
		t.Fatalf("unexpected observation %+v", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin got %q", got)
	}
	if rec.Code == http.StatusTeapot {
		t.Fatal("preflight should not reach the next handler")
	}
}

func TestRequestLoggerRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var requestID string
	handler := RequestLogger(base)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	inspect := RequestLogger(base)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		requestID = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}

	inspect.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/videos", nil))
	if requestID == "" {
		t.Fatal("expected request id on context")
	}
}

type brokenWriter struct {
	header http.Header
	status int
}

func (b *brokenWriter) Header() http.Header {
	if b.header == nil {
		b.header = http.Header{}
	}
	return b.header
}

func (b *brokenWriter) WriteHeader(status int) { b.status = status }

func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRequireIdentityLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequireIdentity(&authenticatorStub{err: apperr.Auth("Invalid token.")})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/videos/1", nil)
	req = req.WithContext(logging.WithLogger(req.Context(), logger))
	w := &brokenWriter{}

	handler.ServeHTTP(w, req)

	if w.status != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", w.status)
	}
	if !strings.Contains(buf.String(), "encode response body") || !strings.Contains(buf.String(), "connection reset") {
		t.Fatalf("expected encode failure to be logged, got %s", buf.String())
	}
}
