package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/model"
)

// IdentityService defines the identity operations the auth endpoints need.
type IdentityService interface {
	Register(ctx context.Context, input identity.RegisterInput) (*model.Account, error)
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(ctx context.Context, username, token string) error
}

// AuthHandler handles account registration and session endpoints.
type AuthHandler struct {
	identity IdentityService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc IdentityService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: svc,
		logger:   logger,
	}
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobile_no"`
	Password  string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	account, err := h.identity.Register(r.Context(), identity.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		MobileNo:  req.MobileNo,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.Info("account registered",
		slog.String("username", account.Username),
	)

	writeJSON(w, http.StatusCreated, account.ToResponse())
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.Info("login succeeded",
		slog.String("username", req.Username),
	)

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// ValidateTokenRequest is the body for POST /auth/validate-token.
type ValidateTokenRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// ValidateToken handles POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req ValidateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.identity.ValidateToken(r.Context(), req.Username, req.Token); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Token is valid"})
}
