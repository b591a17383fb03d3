package services

import (
	"context"
	"time"

	"nova/internal/domain/models"
)

// CreateOrganizationRequest represents a request to create an organization
type CreateOrganizationRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// OrganizationService defines organization management operations
type OrganizationService interface {
	// CreateOrganization derives a unique slug from the name and inserts
	// the organization in pending status
	CreateOrganization(ctx context.Context, principal models.Principal, req *CreateOrganizationRequest) (*models.Organization, error)

	// GetOrganization retrieves the principal's own organization
	GetOrganization(ctx context.Context, principal models.Principal) (*models.Organization, error)

	// ListOrganizations lists all organizations (super admin only)
	ListOrganizations(ctx context.Context, principal models.Principal) ([]models.Organization, error)
}
