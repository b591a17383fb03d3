package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
	"nova/internal/domain/services"
)

// organizationService implements the OrganizationService interface
type organizationService struct {
	orgRepo repositories.OrganizationRepository
	logger  *slog.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo repositories.OrganizationRepository, logger *slog.Logger) services.OrganizationService {
	return &organizationService{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

// CreateOrganization derives a unique slug from the name and inserts the
// organization. The slug is immutable afterwards: stored document paths
// reference it.
func (s *organizationService) CreateOrganization(ctx context.Context, principal models.Principal, req *services.CreateOrganizationRequest) (*models.Organization, error) {
	if principal.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("organization creation requires a super admin: %w", domain.ErrForbidden)
	}

	if err := validation.Validate(req.Name, validation.Required, validation.Length(1, 120)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Dedupe a taken slug up front; the unique constraint still backs this
	// up against races
	slug := Slugify(req.Name)
	if _, err := s.orgRepo.GetBySlug(ctx, slug); err == nil {
		slug = DedupeSlug(slug)
	}

	org := &models.Organization{
		Name:      strings.TrimSpace(req.Name),
		Slug:      slug,
		Status:    models.OrgStatusPending,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: time.Now(),
	}

	err := s.orgRepo.Create(ctx, org)
	if err != nil && errors.Is(err, domain.ErrConflict) {
		// Lost the race anyway; retry once with a fresh suffix
		org.Slug = DedupeSlug(Slugify(req.Name))
		err = s.orgRepo.Create(ctx, org)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("organization created",
		"organization_id", org.ID,
		"name", org.Name,
		"slug", org.Slug,
	)

	return org, nil
}

// GetOrganization retrieves the principal's own organization
func (s *organizationService) GetOrganization(ctx context.Context, principal models.Principal) (*models.Organization, error) {
	if err := RequireOrganization(principal); err != nil {
		return nil, err
	}
	return s.orgRepo.GetByID(ctx, principal.OrganizationID)
}

// ListOrganizations lists all organizations
func (s *organizationService) ListOrganizations(ctx context.Context, principal models.Principal) ([]models.Organization, error) {
	if principal.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("organization listing requires a super admin: %w", domain.ErrForbidden)
	}
	return s.orgRepo.List(ctx)
}
