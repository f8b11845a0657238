package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/scanner"
	"github.com/linuxoverapi/scangate/internal/service"
)

// ScanRunner defines the scan operations the scan endpoints need.
type ScanRunner interface {
	Tools() []scanner.ToolInfo
	Run(ctx context.Context, toolName, domain, token string) (*model.ScanOutcome, error)
	History(ctx context.Context, token string, limit int) ([]model.ScanSummary, error)
	Result(ctx context.Context, token, scanID string) (*model.ScanDetail, error)
}

// ScanHandler handles scan dispatch and history endpoints.
type ScanHandler struct {
	scans  ScanRunner
	logger *slog.Logger
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scans ScanRunner, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		scans:  scans,
		logger: logger,
	}
}

// Tools handles GET /api/v1/scans/tools
func (h *ScanHandler) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.scans.Tools()})
}

// ScanRequest is the body for POST /scans/{tool}.
type ScanRequest struct {
	Domain string `json:"domain"`
	APIKey string `json:"api_key"`
}

// Run handles POST /api/v1/scans/{tool}
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	toolName := chi.URLParam(r, "tool")

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Domain == "" || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "domain and api_key are required")
		return
	}

	outcome, err := h.scans.Run(r.Context(), toolName, req.Domain, req.APIKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.Info("scan completed",
		slog.String("tool", outcome.Tool),
		slog.String("domain", outcome.Domain),
	)

	writeJSON(w, http.StatusOK, outcome)
}

// History handles GET /api/v1/scans/history/{token}?limit=
func (h *ScanHandler) History(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	limit := service.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	history, err := h.scans.History(r.Context(), token, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// Result handles GET /api/v1/scans/result/{token}/{id}
func (h *ScanHandler) Result(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	scanID := chi.URLParam(r, "id")

	detail, err := h.scans.Result(r.Context(), token, scanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
