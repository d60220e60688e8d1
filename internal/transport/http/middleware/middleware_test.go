package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vedran77/jobly/internal/authz"
	"github.com/vedran77/jobly/internal/domain"
)

type stubVerifier map[string]*domain.Principal

func (v stubVerifier) Verify(token string) (*domain.Principal, error) {
	if p, ok := v[token]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

func TestAuthenticateOptional(t *testing.T) {
	verifier := stubVerifier{"good": {Username: "u2"}}

	var got *domain.Principal
	h := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrincipalFrom(r.Context())
	}))

	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer good", "u2"},
		{"bearer good", "u2"},
		{"Bearer bad", ""},
		{"Basic good", ""},
		{"Bearer ", ""},
	}
	for _, tt := range tests {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)

		name := ""
		if got != nil {
			name = got.Username
		}
		if name != tt.want {
			t.Errorf("header %q: principal %q, want %q", tt.header, name, tt.want)
		}
	}
}

func TestAuthorizeSelfOrAdmin(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /users/{username}", Authorize(authz.SelfOrAdmin, "username")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		p      *domain.Principal
		path   string
		status int
	}{
		{nil, "/users/u2", http.StatusUnauthorized},
		{&domain.Principal{Username: "u2"}, "/users/u2", http.StatusNoContent},
		{&domain.Principal{Username: "u2"}, "/users/u3", http.StatusUnauthorized},
		{&domain.Principal{Username: "u1", IsAdmin: true}, "/users/u3", http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		req = req.WithContext(WithPrincipal(req.Context(), tt.p))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%+v %s: expected %d, got %d", tt.p, tt.path, tt.status, rec.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("missing allow-origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow-origin for foreign origin")
	}
}

func TestCORSEmptyListAllowsNoOrigin(t *testing.T) {
	h := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass through, got %d", rec.Code)
	}
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatal("expected allow-origin header for wildcard")
	}
}

func TestLoggingRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	id := rec.Header().Get(RequestIDHeader)
	if id == "" || id == "not-a-uuid" {
		t.Fatalf("expected generated request id, got %q", id)
	}
	if !strings.Contains(buf.String(), id) || !strings.Contains(buf.String(), `"status":500`) {
		t.Fatalf("request not logged: %s", buf.String())
	}
}
