package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxoverapi/scangate/internal/model"
)

// KeyIssuer defines the API key operations the apikey endpoints need.
type KeyIssuer interface {
	Issue(ctx context.Context, username, tier, sessionProof string) (*model.APIKey, error)
	List(ctx context.Context, username, sessionProof string) ([]*model.APIKey, error)
	UsageCount(ctx context.Context, token string) (int64, error)
}

// APIKeyHandler handles API key management endpoints.
type APIKeyHandler struct {
	keys   KeyIssuer
	logger *slog.Logger
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(keys KeyIssuer, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		keys:   keys,
		logger: logger,
	}
}

// GenerateRequest is the body for POST /apikeys/generate.
type GenerateRequest struct {
	Username string `json:"username"`
	Tier     string `json:"tier"`
	JWTToken string `json:"jwt_token"`
}

// Generate handles POST /api/v1/apikeys/generate
func (h *APIKeyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	key, err := h.keys.Issue(r.Context(), req.Username, req.Tier, req.JWTToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.Info("API key issued",
		slog.String("username", key.Username),
		slog.String("tier", key.Tier),
	)

	// The plaintext token doubles as the lookup key, so it is returned on
	// every read, not shown once.
	writeJSON(w, http.StatusCreated, map[string]string{"api_key": key.Token})
}

// List handles GET /api/v1/apikeys/{username}?jwt_token=
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	sessionProof := r.URL.Query().Get("jwt_token")
	if sessionProof == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "jwt_token query parameter is required")
		return
	}

	keys, err := h.keys.List(r.Context(), username, sessionProof)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]model.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"keys": responses})
}

// Count handles GET /api/v1/apikeys/count/{token}
func (h *APIKeyHandler) Count(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	count, err := h.keys.UsageCount(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
