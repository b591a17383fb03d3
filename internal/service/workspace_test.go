package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/services"
)

type workspaceFixture struct {
	workspaceRepo *fakeWorkspaceRepo
	docRepo       *fakeDocRepo
	accessRepo    *fakeAccessRepo
	chatRepo      *fakeChatRepo
	store         *memStore
	idx           *fakeIndexer
	svc           services.WorkspaceService
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()

	orgRepo := newFakeOrgRepo(&models.Organization{ID: "org-1", Name: "Acme", Slug: "acme"})
	userRepo := newFakeUserRepo(
		orgAdmin("admin-1", "org-1"),
		orgAdmin("admin-2", "org-1"),
	)
	f := &workspaceFixture{
		workspaceRepo: newFakeWorkspaceRepo(),
		docRepo:       newFakeDocRepo(),
		accessRepo:    &fakeAccessRepo{},
		chatRepo:      &fakeChatRepo{},
		store:         newMemStore(),
		idx:           newFakeIndexer(),
	}
	access := NewAccessService(f.accessRepo, userRepo, &fakeTxManager{}, testLogger())
	f.svc = NewWorkspaceService(
		f.workspaceRepo, f.docRepo, orgRepo, f.chatRepo,
		access, f.store, f.idx, NewWorkspaceLocks(), testLogger(),
	)
	return f
}

func TestCreateWorkspace_GrantsAlwaysIncludeAdmins(t *testing.T) {
	f := newWorkspaceFixture(t)

	ws, err := f.svc.CreateWorkspace(context.Background(), adminPrincipal(), &services.CreateWorkspaceRequest{
		Name:      "Contracts",
		MemberIDs: []string{"user-1"},
	})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	levels := make(map[string]models.AccessLevel)
	for _, g := range f.accessRepo.grants {
		if g.WorkspaceID == ws.ID {
			levels[g.UserID] = g.AccessLevel
		}
	}
	if levels["admin-1"] != models.AccessAdmin || levels["admin-2"] != models.AccessAdmin {
		t.Errorf("org admins missing admin grants: %v", levels)
	}
	if levels["user-1"] != models.AccessView {
		t.Errorf("selected member missing view grant: %v", levels)
	}
}

func TestCreateWorkspace_DuplicateName(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}

	var conflictErr *domain.ConflictError
	if !errors.As(err, &conflictErr) || conflictErr.ResourceID == "" {
		t.Errorf("conflict does not carry the existing workspace ID: %v", err)
	}
}

func TestCreateWorkspace_RejectsPathSeparators(t *testing.T) {
	f := newWorkspaceFixture(t)

	for _, name := range []string{"a/b", "a\\b", "", "   ", strings.Repeat("x", 200)} {
		_, err := f.svc.CreateWorkspace(context.Background(), adminPrincipal(), &services.CreateWorkspaceRequest{Name: name})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("name %q: expected validation error, got %v", name, err)
		}
	}
}

func TestCreateWorkspace_RequiresAdmin(t *testing.T) {
	f := newWorkspaceFixture(t)

	principal := models.Principal{UserID: "u-1", OrganizationID: "org-1", Role: models.RoleUser}
	_, err := f.svc.CreateWorkspace(context.Background(), principal, &services.CreateWorkspaceRequest{Name: "Contracts"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}
}

func TestUpdateWorkspace_RenameRewritesPaths(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	f.docRepo.docs["d1"] = &models.Document{
		ID:             "d1",
		WorkspaceID:    ws.ID,
		OrganizationID: "org-1",
		Filepath:       "Workspaces/acme/Contracts/Leases/agreement.pdf",
	}
	f.store.files["Workspaces/acme/Contracts/Leases/agreement.pdf"] = []byte("x")

	updated, err := f.svc.UpdateWorkspace(ctx, adminPrincipal(), ws.ID, &services.UpdateWorkspaceRequest{Name: "Agreements"})
	if err != nil {
		t.Fatalf("UpdateWorkspace: %v", err)
	}
	if updated.Name != "Agreements" {
		t.Errorf("name = %q, want Agreements", updated.Name)
	}

	wantPath := "Workspaces/acme/Agreements/Leases/agreement.pdf"
	if f.docRepo.docs["d1"].Filepath != wantPath {
		t.Errorf("stored path = %q, want %q", f.docRepo.docs["d1"].Filepath, wantPath)
	}
	if !f.store.Exists(wantPath) {
		t.Error("on-disk file not moved with the rename")
	}
	if len(f.store.renames) != 1 || f.store.renames[0] != [2]string{"Workspaces/acme/Contracts", "Workspaces/acme/Agreements"} {
		t.Errorf("unexpected folder renames: %v", f.store.renames)
	}
}

func TestUpdateWorkspace_RenameKeepsDescriptionAndConfig(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	updated, err := f.svc.UpdateWorkspace(ctx, adminPrincipal(), ws.ID, &services.UpdateWorkspaceRequest{
		Name:        "Agreements",
		Description: "active agreements",
		Config:      json.RawMessage(`{"fields":["party"]}`),
	})
	if err != nil {
		t.Fatalf("UpdateWorkspace: %v", err)
	}

	if updated.Name != "Agreements" || updated.Description != "active agreements" {
		t.Errorf("rename dropped the description: %+v", updated)
	}
	if string(updated.Config) != `{"fields":["party"]}` {
		t.Errorf("rename dropped the config: %s", updated.Config)
	}

	// The committed row carries all three, not just the name
	stored, err := f.workspaceRepo.GetByID(ctx, ws.ID, "org-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Name != "Agreements" || stored.Description != "active agreements" || string(stored.Config) != `{"fields":["party"]}` {
		t.Errorf("stored row incomplete after rename: %+v", stored)
	}
}

func TestUpdateWorkspace_RenameCollision(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("create Contracts: %v", err)
	}
	if _, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Agreements"}); err != nil {
		t.Fatalf("create Agreements: %v", err)
	}

	_, err = f.svc.UpdateWorkspace(ctx, adminPrincipal(), ws.ID, &services.UpdateWorkspaceRequest{Name: "Agreements"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict renaming onto an existing name, got %v", err)
	}

	// Nothing moved
	if len(f.store.renames) != 0 {
		t.Errorf("folder renamed despite the collision: %v", f.store.renames)
	}
}

func TestUpdateWorkspace_SameNameUpdatesInPlace(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	updated, err := f.svc.UpdateWorkspace(ctx, adminPrincipal(), ws.ID, &services.UpdateWorkspaceRequest{
		Name:        "Contracts",
		Description: "active agreements",
	})
	if err != nil {
		t.Fatalf("UpdateWorkspace: %v", err)
	}
	if updated.Description != "active agreements" {
		t.Errorf("description = %q", updated.Description)
	}
	if len(f.store.renames) != 0 {
		t.Errorf("rename triggered without a name change: %v", f.store.renames)
	}
}

func TestDeleteWorkspace_Cascade(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts", MemberIDs: []string{"user-1"}})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	f.docRepo.docs["d1"] = &models.Document{
		ID: "d1", WorkspaceID: ws.ID, OrganizationID: "org-1",
		Filepath: "Workspaces/acme/Contracts/agreement.pdf",
	}
	f.store.files["Workspaces/acme/Contracts/agreement.pdf"] = []byte("x")
	f.chatRepo.detachCount = 2

	if err := f.svc.DeleteWorkspace(ctx, adminPrincipal(), ws.ID); err != nil {
		t.Fatalf("DeleteWorkspace: %v", err)
	}

	if len(f.idx.purged) != 1 || f.idx.purged[0] != ws.ID {
		t.Errorf("index not purged: %v", f.idx.purged)
	}
	if f.store.fileCount() != 0 {
		t.Errorf("%d files survived the delete", f.store.fileCount())
	}
	if len(f.store.removed) != 1 || f.store.removed[0] != "Workspaces/acme/Contracts" {
		t.Errorf("workspace folder not removed: %v", f.store.removed)
	}
	if f.chatRepo.detachedWorkspace != ws.ID || f.chatRepo.fallbackName != "Contracts" {
		t.Errorf("chats not detached with name backfill: %q %q", f.chatRepo.detachedWorkspace, f.chatRepo.fallbackName)
	}
	for _, g := range f.accessRepo.grants {
		if g.WorkspaceID == ws.ID {
			t.Errorf("grant survived the delete: %+v", g)
		}
	}
	if f.docRepo.count() != 0 {
		t.Errorf("document rows survived the delete")
	}
	if _, err := f.workspaceRepo.GetByID(ctx, ws.ID, "org-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("workspace row survived the delete: %v", err)
	}
}

func TestDeleteWorkspace_EmptySkipsIndexPurge(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	if err := f.svc.DeleteWorkspace(ctx, adminPrincipal(), ws.ID); err != nil {
		t.Fatalf("DeleteWorkspace: %v", err)
	}

	if len(f.idx.purged) != 0 {
		t.Errorf("index purged for a workspace without documents: %v", f.idx.purged)
	}
}

func TestDeleteWorkspace_PurgeFailureAborts(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	f.docRepo.docs["d1"] = &models.Document{
		ID: "d1", WorkspaceID: ws.ID, OrganizationID: "org-1",
		Filepath: "Workspaces/acme/Contracts/agreement.pdf",
	}
	f.idx.purgeErr = errors.New("indexing service unavailable")

	if err := f.svc.DeleteWorkspace(ctx, adminPrincipal(), ws.ID); err == nil {
		t.Fatal("expected error when the index purge fails")
	}

	// The workspace and its rows are untouched
	if _, err := f.workspaceRepo.GetByID(ctx, ws.ID, "org-1"); err != nil {
		t.Errorf("workspace removed despite the aborted cascade: %v", err)
	}
	if f.docRepo.count() != 1 {
		t.Errorf("document rows removed despite the aborted cascade")
	}
}

func TestGetWorkspaceTree_ScopedToOrganization(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: "Contracts"})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	f.docRepo.docs["d1"] = &models.Document{
		ID: "d1", WorkspaceID: ws.ID, OrganizationID: "org-1",
		Filepath: "Workspaces/acme/Contracts/Leases/agreement.pdf",
	}

	tree, err := f.svc.GetWorkspaceTree(ctx, adminPrincipal(), ws.ID)
	if err != nil {
		t.Fatalf("GetWorkspaceTree: %v", err)
	}
	if len(tree) != 1 || tree[0].Name != "Leases" {
		t.Fatalf("unexpected tree: %+v", tree)
	}

	// A principal from another organization cannot see the workspace
	other := models.Principal{UserID: "x", OrganizationID: "org-2", Role: models.RoleOrgAdmin}
	if _, err := f.svc.GetWorkspaceTree(ctx, other, ws.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-organization tree access: %v", err)
	}
}

func TestListWorkspaces_AdminSeesAll(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Contracts", "Agreements"} {
		if _, err := f.svc.CreateWorkspace(ctx, adminPrincipal(), &services.CreateWorkspaceRequest{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := f.svc.ListWorkspaces(ctx, adminPrincipal())
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("admin sees %d workspaces, want 2", len(list))
	}
}
