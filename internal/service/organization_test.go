package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/services"
)

func superAdmin() models.Principal {
	return models.Principal{UserID: "root-1", Role: models.RoleSuperAdmin}
}

func TestCreateOrganization(t *testing.T) {
	orgRepo := newFakeOrgRepo()
	svc := NewOrganizationService(orgRepo, testLogger())

	org, err := svc.CreateOrganization(context.Background(), superAdmin(), &services.CreateOrganizationRequest{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	if org.Slug != "acme-corp" {
		t.Errorf("slug = %q, want acme-corp", org.Slug)
	}
	if org.Status != models.OrgStatusPending {
		t.Errorf("status = %q, want pending", org.Status)
	}
}

func TestCreateOrganization_SlugCollisionRetries(t *testing.T) {
	orgRepo := newFakeOrgRepo(&models.Organization{ID: "org-0", Name: "Acme", Slug: "acme"})
	svc := NewOrganizationService(orgRepo, testLogger())

	org, err := svc.CreateOrganization(context.Background(), superAdmin(), &services.CreateOrganizationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	if org.Slug == "acme" || !strings.HasPrefix(org.Slug, "acme-") {
		t.Errorf("colliding slug not deduped: %q", org.Slug)
	}
}

func TestCreateOrganization_RequiresSuperAdmin(t *testing.T) {
	svc := NewOrganizationService(newFakeOrgRepo(), testLogger())

	_, err := svc.CreateOrganization(context.Background(), adminPrincipal(), &services.CreateOrganizationRequest{Name: "Acme"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for org admin, got %v", err)
	}
}

func TestTenantResolver(t *testing.T) {
	orgID := "org-1"
	userRepo := newFakeUserRepo(
		&models.User{ID: "u-1", Role: models.RoleUser, OrganizationID: &orgID},
		&models.User{ID: "orphan", Role: models.RoleUser},
		&models.User{ID: "root-1", Role: models.RoleSuperAdmin},
	)
	resolver := NewTenantResolver(userRepo)
	ctx := context.Background()

	principal, err := resolver.Resolve(ctx, "u-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if principal.OrganizationID != "org-1" {
		t.Errorf("organization = %q, want org-1", principal.OrganizationID)
	}

	// A user without an organization cannot reach scoped data
	if _, err := resolver.Resolve(ctx, "orphan"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("orphan user resolved: %v", err)
	}

	// Super admins are the exception
	if _, err := resolver.Resolve(ctx, "root-1"); err != nil {
		t.Errorf("super admin rejected: %v", err)
	}

	// No session, unknown user
	if _, err := resolver.Resolve(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty session resolved: %v", err)
	}
	if _, err := resolver.Resolve(ctx, "no-such-user"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown user resolved: %v", err)
	}
}
