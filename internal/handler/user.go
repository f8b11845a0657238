package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linuxoverapi/scangate/internal/model"
)

// AccountReader resolves a bearer token to its account.
type AccountReader interface {
	AccountForToken(ctx context.Context, token string) (*model.Account, error)
}

// AccountManager defines the billing operations the user endpoints need.
type AccountManager interface {
	MakePayment(ctx context.Context, username, sessionProof string, amount float64) error
	PaidStatus(ctx context.Context, username, sessionProof string) (bool, error)
	BillAmount(ctx context.Context, username, sessionProof string) (float64, error)
}

// UserHandler handles account profile and billing endpoints.
type UserHandler struct {
	reader   AccountReader
	accounts AccountManager
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(reader AccountReader, accounts AccountManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		reader:   reader,
		accounts: accounts,
		logger:   logger,
	}
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token required")
		return
	}

	account, err := h.reader.AccountForToken(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.ToResponse())
}

// PaymentRequest is the body for POST /users/payment.
type PaymentRequest struct {
	Username string  `json:"username"`
	JWTToken string  `json:"jwt_token"`
	Amount   float64 `json:"amount"`
}

// Payment handles POST /api/v1/users/payment
func (h *UserHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "amount must be positive")
		return
	}

	if err := h.accounts.MakePayment(r.Context(), req.Username, req.JWTToken, req.Amount); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.Info("payment processed",
		slog.String("username", req.Username),
		slog.Float64("amount", req.Amount),
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment processed successfully"})
}

// PaidStatus handles GET /api/v1/users/paid-status/{username}?jwt_token=
func (h *UserHandler) PaidStatus(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	sessionProof := r.URL.Query().Get("jwt_token")

	paid, err := h.accounts.PaidStatus(r.Context(), username, sessionProof)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"paid": paid})
}

// Bill handles GET /api/v1/users/bill/{username}?jwt_token=
func (h *UserHandler) Bill(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	sessionProof := r.URL.Query().Get("jwt_token")

	amount, err := h.accounts.BillAmount(r.Context(), username, sessionProof)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"bill_amount": amount})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
