package admin

import (
	"log/slog"
	"net/http"

	"github.com/tendant/simple-orgs/internal/httputil"
	"github.com/tendant/simple-orgs/pkg/orgs"
)

// Handler handles admin authentication endpoints.
type Handler struct {
	logger  *slog.Logger
	service *orgs.Service
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, service *orgs.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// LoginRequest represents an admin login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login authenticates an admin and returns an access token.
// POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
	})
}
