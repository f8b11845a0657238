package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxoverapi/scangate/internal/middleware"
	"github.com/linuxoverapi/scangate/internal/model"
)

// AdminKeyStore defines the key operations exposed to operators.
type AdminKeyStore interface {
	ListAll(ctx context.Context) ([]*model.APIKey, error)
	IncrementCount(ctx context.Context, token string) error
}

// AdminAccountLister lists every registered account.
type AdminAccountLister interface {
	ListAccounts(ctx context.Context) ([]*model.Account, error)
}

// AdminHandler provides admin-only endpoints for operations and support.
// The router must gate these behind the admin secret middleware.
type AdminHandler struct {
	keys     AdminKeyStore
	accounts AdminAccountLister
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(keys AdminKeyStore, accounts AdminAccountLister, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		keys:     keys,
		accounts: accounts,
		logger:   logger,
	}
}

// ListAPIKeys handles GET /api/v1/admin/apikeys
func (h *AdminHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.keys.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list API keys", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list API keys")
		return
	}

	responses := make([]model.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"keys":  responses,
		"total": len(responses),
	})
}

// IncrementCount handles POST /api/v1/admin/apikeys/{token}/increment
func (h *AdminHandler) IncrementCount(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.keys.IncrementCount(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.Info("usage count incremented by admin",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Count incremented successfully"})
}

// ListAccounts handles GET /api/v1/admin/accounts
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error("failed to list accounts", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list accounts")
		return
	}

	responses := make([]model.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, account.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": responses,
		"total":    len(responses),
	})
}
