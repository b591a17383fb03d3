package service

import (
	"context"
	"fmt"
	"sync"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
)

// TenantResolver turns a session user ID into a Principal. It is the entry
// point of the tenancy guard: the organization ID every scoped query filters
// on comes from here, never from client input.
type TenantResolver struct {
	userRepo repositories.UserRepository
}

// NewTenantResolver creates a new tenant resolver
func NewTenantResolver(userRepo repositories.UserRepository) *TenantResolver {
	return &TenantResolver{userRepo: userRepo}
}

// Resolve loads the session user and returns the principal its requests run
// as. A user without an organization (other than a super admin) cannot reach
// any scoped data.
func (t *TenantResolver) Resolve(ctx context.Context, userID string) (models.Principal, error) {
	if userID == "" {
		return models.Principal{}, fmt.Errorf("no session: %w", domain.ErrUnauthorized)
	}

	user, err := t.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.Principal{}, fmt.Errorf("resolve session user: %w", domain.ErrUnauthorized)
	}

	principal := models.Principal{
		UserID: user.ID,
		Role:   user.Role,
	}
	if user.OrganizationID != nil {
		principal.OrganizationID = *user.OrganizationID
	}

	if principal.OrganizationID == "" && user.Role != models.RoleSuperAdmin {
		return models.Principal{}, fmt.Errorf("user has no organization: %w", domain.ErrUnauthorized)
	}

	return principal, nil
}

// RequireOrganization rejects principals that cannot be scoped to an
// organization. Guards every workspace/document operation.
func RequireOrganization(principal models.Principal) error {
	if principal.OrganizationID == "" {
		return fmt.Errorf("no organization scope: %w", domain.ErrUnauthorized)
	}
	return nil
}

// RequireWorkspaceAdmin rejects principals that may not administer
// workspaces in their organization
func RequireWorkspaceAdmin(principal models.Principal) error {
	if err := RequireOrganization(principal); err != nil {
		return err
	}
	if !principal.IsAdmin() {
		return fmt.Errorf("workspace administration requires an admin role: %w", domain.ErrForbidden)
	}
	return nil
}

// WorkspaceLocks serializes a workspace rename against uploads into the same
// workspace. Process-local; single-replica deployments only.
type WorkspaceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWorkspaceLocks creates an empty lock table
func NewWorkspaceLocks() *WorkspaceLocks {
	return &WorkspaceLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for a workspace, creating it on first use.
// The caller unlocks the returned mutex.
func (w *WorkspaceLocks) lock(workspaceID string) *sync.Mutex {
	w.mu.Lock()
	m, ok := w.locks[workspaceID]
	if !ok {
		m = &sync.Mutex{}
		w.locks[workspaceID] = m
	}
	w.mu.Unlock()

	m.Lock()
	return m
}
