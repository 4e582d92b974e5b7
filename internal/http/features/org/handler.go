package org

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tendant/simple-orgs/internal/http/middleware"
	"github.com/tendant/simple-orgs/internal/httputil"
	"github.com/tendant/simple-orgs/pkg/domain"
	"github.com/tendant/simple-orgs/pkg/orgs"
)

// Handler handles organization endpoints.
type Handler struct {
	logger  *slog.Logger
	service *orgs.Service
}

// NewHandler creates a new organization handler.
func NewHandler(logger *slog.Logger, service *orgs.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// CreateRequest represents an organization creation request.
type CreateRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// UpdateRequest represents an organization update request. Omitted fields
// are left unchanged.
type UpdateRequest struct {
	OrganizationName *string `json:"organization_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Password         *string `json:"password,omitempty"`
}

// DeleteRequest represents an organization deletion request.
type DeleteRequest struct {
	OrganizationName string `json:"organization_name"`
}

// OrganizationResponse represents organization metadata.
type OrganizationResponse struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organization_name"`
	Slug             string    `json:"slug"`
	CollectionName   string    `json:"collection_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MessageResponse is a plain acknowledgment.
type MessageResponse struct {
	Message string `json:"message"`
}

func newOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:               org.ID.String(),
		OrganizationName: org.Name,
		Slug:             org.Slug,
		CollectionName:   org.CollectionName,
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	}
}

// Create provisions an organization with its admin and tenant collection.
// POST /org/create
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.OrganizationName) == "" || req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "organization_name, email and password are required")
		return
	}

	org, err := h.service.Create(r.Context(), orgs.CreateInput{
		Name:     req.OrganizationName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, newOrganizationResponse(org))
}

// Get returns organization metadata by name.
// GET /org/get?organization_name=
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("organization_name")
	if strings.TrimSpace(name) == "" {
		httputil.Error(w, http.StatusBadRequest, "organization_name is required")
		return
	}

	org, err := h.service.Get(r.Context(), name)
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, newOrganizationResponse(org))
}

// Update renames the caller's organization and/or changes admin credentials.
// PUT /org/update
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	org, err := h.service.Update(r.Context(), identity, orgs.UpdateInput{
		Name:     req.OrganizationName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, newOrganizationResponse(org))
}

// Delete removes the caller's organization, its admin, and its collection.
// DELETE /org/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DeleteRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.OrganizationName == "" {
		httputil.Error(w, http.StatusBadRequest, "organization_name is required")
		return
	}

	if err := h.service.Delete(r.Context(), identity, req.OrganizationName); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "Organization deleted successfully"})
}
