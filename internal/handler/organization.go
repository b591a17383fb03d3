package handler

import (
	"log/slog"
	"net/http"

	"nova/internal/domain/services"
	"nova/internal/httputil"
	"nova/internal/service"
)

// OrganizationHandler handles organization HTTP requests
type OrganizationHandler struct {
	orgService services.OrganizationService
	resolver   *service.TenantResolver
	logger     *slog.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService services.OrganizationService, resolver *service.TenantResolver, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		resolver:   resolver,
		logger:     logger,
	}
}

// CreateOrganization creates a new organization (super admin only)
// POST /api/organizations
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	var req services.CreateOrganizationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(r.Context(), principal, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, org)
}

// GetMyOrganization returns the caller's own organization
// GET /api/organizations/me
func (h *OrganizationHandler) GetMyOrganization(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	org, err := h.orgService.GetOrganization(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, org)
}

// ListOrganizations lists all organizations (super admin only)
// GET /api/organizations
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	orgs, err := h.orgService.ListOrganizations(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, orgs)
}
