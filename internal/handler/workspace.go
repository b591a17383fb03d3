package handler

import (
	"log/slog"
	"net/http"

	"nova/internal/domain/services"
	"nova/internal/httputil"
	"nova/internal/service"
)

// WorkspaceHandler handles workspace HTTP requests
type WorkspaceHandler struct {
	workspaceService services.WorkspaceService
	accessService    services.AccessService
	resolver         *service.TenantResolver
	logger           *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	workspaceService services.WorkspaceService,
	accessService services.AccessService,
	resolver *service.TenantResolver,
	logger *slog.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		accessService:    accessService,
		resolver:         resolver,
		logger:           logger,
	}
}

// CreateWorkspace creates a new workspace
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	var req services.CreateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(r.Context(), principal, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, workspace)
}

// ListWorkspaces returns the workspaces visible to the caller
// GET /api/workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	workspaces, err := h.workspaceService.ListWorkspaces(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, workspaces)
}

// GetWorkspace retrieves a workspace by ID
// GET /api/workspaces/{id}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace ID is required")
		return
	}

	workspace, err := h.workspaceService.GetWorkspace(r.Context(), principal, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, workspace)
}

// UpdateWorkspace updates a workspace, renaming it when the name changed
// PUT /api/workspaces/{id}
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace ID is required")
		return
	}

	var req services.UpdateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workspace, err := h.workspaceService.UpdateWorkspace(r.Context(), principal, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, workspace)
}

// DeleteWorkspace removes a workspace and everything attached to it
// DELETE /api/workspaces/{id}
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace ID is required")
		return
	}

	if err := h.workspaceService.DeleteWorkspace(r.Context(), principal, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTree returns the nested folder/file tree of a workspace
// GET /api/workspaces/{id}/tree
func (h *WorkspaceHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace ID is required")
		return
	}

	tree, err := h.workspaceService.GetWorkspaceTree(r.Context(), principal, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// ListAccess returns the access grants of a workspace
// GET /api/workspaces/{id}/access
func (h *WorkspaceHandler) ListAccess(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace ID is required")
		return
	}

	// Confirm the workspace belongs to the caller's organization before
	// exposing its grant list
	if _, err := h.workspaceService.GetWorkspace(r.Context(), principal, id); err != nil {
		handleError(w, err)
		return
	}

	grants, err := h.accessService.ListAccess(r.Context(), id, principal.OrganizationID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, grants)
}
