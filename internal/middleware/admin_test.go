package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminProtected(secret string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("admin ok"))
	})
	return AdminSecret(secret, discardLogger())(next)
}

func TestAdminSecret_Valid(t *testing.T) {
	handler := adminProtected("super-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/apikeys", nil)
	req.Header.Set(AdminSecretHeader, "super-secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAdminSecret_Invalid(t *testing.T) {
	handler := adminProtected("super-secret")

	tests := []struct {
		name   string
		secret string
	}{
		{"wrong secret", "not-the-secret"},
		{"empty secret", ""},
		{"prefix of secret", "super"},
		{"secret with suffix", "super-secret-extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/apikeys", nil)
			if tt.secret != "" {
				req.Header.Set(AdminSecretHeader, tt.secret)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
				t.Errorf("expected uniform error body, got %s", rec.Body.String())
			}
		})
	}
}
