package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// AdminSecretHeader carries the shared secret for admin endpoints.
const AdminSecretHeader = "X-Admin-Secret"

// AdminSecret returns middleware gating admin endpoints on a shared secret.
// The comparison is constant-time; all failures get the same response so the
// secret cannot be probed byte by byte.
func AdminSecret(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(AdminSecretHeader)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				logger.Warn("admin authentication failed",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAdminError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAdminError writes a 401 Unauthorized response.
func writeAdminError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid admin secret"}}`))
}
