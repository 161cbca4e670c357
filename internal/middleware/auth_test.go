package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/auth"
	"github.com/dukerupert/chorequest/internal/model"
)

type fakeSessions map[string]*model.AdminSession

func (f fakeSessions) Session(token string) (*model.AdminSession, error) {
	if token == "broken" {
		return nil, errors.New("db down")
	}
	return f[token], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminProbe(got *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = auth.IsAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadSession(t *testing.T) {
	sessions := fakeSessions{"good": {Token: "good", ExpiresAt: time.Now().Add(time.Hour)}}

	tests := []struct {
		name  string
		setup func(*http.Request)
		want  bool
	}{
		{"no token", func(*http.Request) {}, false},
		{"header", func(r *http.Request) { r.Header.Set(SessionHeader, "good") }, true},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, true},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"}) }, true},
		{"unknown token", func(r *http.Request) { r.Header.Set(SessionHeader, "stale") }, false},
		{"lookup error", func(r *http.Request) { r.Header.Set(SessionHeader, "broken") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			handler := LoadSession(sessions, discardLogger())(adminProbe(&got))

			req := httptest.NewRequest("GET", "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if got != tt.want {
				t.Errorf("IsAdmin = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequireAdminAllowed(t *testing.T) {
	sessions := fakeSessions{"good": {Token: "good"}}
	handler := LoadSession(sessions, discardLogger())(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(SessionHeader, "good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireAdminForbidden(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
