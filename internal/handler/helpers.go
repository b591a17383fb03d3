package handler

import (
	"errors"
	"net/http"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/httputil"
	"nova/internal/service"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// resolvePrincipal loads the caller of a request. The user ID comes from the
// auth middleware; the organization scope comes from the user record, never
// from the request itself.
func resolvePrincipal(r *http.Request, resolver *service.TenantResolver) (models.Principal, error) {
	return resolver.Resolve(r.Context(), httputil.GetUserID(r))
}
