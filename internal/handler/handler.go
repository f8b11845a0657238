// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/scanner"
	"github.com/linuxoverapi/scangate/internal/service"
)

// Handler holds the catch-all endpoints that need no dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is the root info endpoint.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "ScanGate security scan gateway",
		"version": "1.0.0",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeServiceError maps a business-rule error onto an HTTP error response.
// Unknown errors become a generic 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrTokenMismatch):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrKeyUnauthorized):
		writeError(w, http.StatusUnauthorized, "INVALID_API_KEY", err.Error())
	case errors.Is(err, service.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", err.Error())
	case errors.Is(err, service.ErrKeyExists), errors.Is(err, identity.ErrAccountExists):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrInvalidTier),
		errors.Is(err, service.ErrNotEligible),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, identity.ErrUsernameLength),
		errors.Is(err, identity.ErrUsernameInvalid),
		errors.Is(err, identity.ErrEmailInvalid),
		errors.Is(err, identity.ErrMobileInvalid),
		errors.Is(err, identity.ErrPasswordTooWeak),
		errors.Is(err, scanner.ErrInvalidDomain):
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, scanner.ErrUnknownTool):
		writeError(w, http.StatusNotFound, "UNKNOWN_TOOL", err.Error())
	case errors.Is(err, service.ErrKeyNotFound),
		errors.Is(err, service.ErrNoKeys),
		errors.Is(err, service.ErrScanNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, identity.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrScanTimeout):
		writeError(w, http.StatusGatewayTimeout, "SCAN_TIMEOUT", err.Error())
	case errors.Is(err, service.ErrExecution):
		writeError(w, http.StatusBadGateway, "EXECUTION_ERROR", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
