package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
	"nova/internal/indexer"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (f *fakeUserRepo) ListAdminsByOrganization(ctx context.Context, organizationID string) ([]models.User, error) {
	var admins []models.User
	for _, u := range f.users {
		if u.Role == models.RoleOrgAdmin && u.OrganizationID != nil && *u.OrganizationID == organizationID {
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

// fakeWorkspaceRepo is an in-memory WorkspaceRepository enforcing the
// (name, organization_id) uniqueness the real table carries
type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[string]*models.Workspace
	nextID     int
	updateErr  error
}

func newFakeWorkspaceRepo(workspaces ...*models.Workspace) *fakeWorkspaceRepo {
	repo := &fakeWorkspaceRepo{workspaces: make(map[string]*models.Workspace)}
	for _, ws := range workspaces {
		repo.workspaces[ws.ID] = ws
	}
	return repo
}

func (f *fakeWorkspaceRepo) Create(ctx context.Context, workspace *models.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ws := range f.workspaces {
		if ws.Name == workspace.Name && ws.OrganizationID == workspace.OrganizationID {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("workspace '%s' already exists", workspace.Name),
				ResourceType: "workspace",
				ResourceID:   ws.ID,
			}
		}
	}
	if workspace.ID == "" {
		f.nextID++
		workspace.ID = "ws-" + strconv.Itoa(f.nextID)
	}
	copied := *workspace
	f.workspaces[workspace.ID] = &copied
	return nil
}

func (f *fakeWorkspaceRepo) GetByID(ctx context.Context, id, organizationID string) (*models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, ok := f.workspaces[id]
	if !ok || ws.OrganizationID != organizationID {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	copied := *ws
	return &copied, nil
}

func (f *fakeWorkspaceRepo) GetByName(ctx context.Context, name, organizationID string) (*models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ws := range f.workspaces {
		if ws.Name == name && ws.OrganizationID == organizationID {
			copied := *ws
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("workspace %s: %w", name, domain.ErrNotFound)
}

func (f *fakeWorkspaceRepo) ListByOrganization(ctx context.Context, organizationID string) ([]models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Workspace
	for _, ws := range f.workspaces {
		if ws.OrganizationID == organizationID {
			out = append(out, *ws)
		}
	}
	return out, nil
}

func (f *fakeWorkspaceRepo) ListForUser(ctx context.Context, userID, organizationID string) ([]models.Workspace, error) {
	return nil, nil
}

func (f *fakeWorkspaceRepo) Update(ctx context.Context, workspace *models.Workspace) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workspaces[workspace.ID]; !ok {
		return fmt.Errorf("workspace %s: %w", workspace.ID, domain.ErrNotFound)
	}
	copied := *workspace
	f.workspaces[workspace.ID] = &copied
	return nil
}

func (f *fakeWorkspaceRepo) Delete(ctx context.Context, id, organizationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, ok := f.workspaces[id]
	if !ok || ws.OrganizationID != organizationID {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	delete(f.workspaces, id)
	return nil
}

// fakeDocRepo is an in-memory DocumentRepository
type fakeDocRepo struct {
	mu        sync.Mutex
	docs      map[string]*models.Document
	createErr error
	deleted   []string
}

func newFakeDocRepo(docs ...*models.Document) *fakeDocRepo {
	repo := &fakeDocRepo{docs: make(map[string]*models.Document)}
	for _, d := range docs {
		repo.docs[d.ID] = d
	}
	return repo
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeDocRepo) GetByID(ctx context.Context, id, organizationID string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.OrganizationID != organizationID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDocRepo) GetOriginal(ctx context.Context, id, workspaceID string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.WorkspaceID != workspaceID || d.FileType != models.FileOriginal {
		return nil, fmt.Errorf("original document %s: %w", id, domain.ErrNotFound)
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDocRepo) ListByWorkspace(ctx context.Context, workspaceID, organizationID string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.docs {
		if d.WorkspaceID == workspaceID && d.OrganizationID == organizationID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) RewritePathPrefix(ctx context.Context, workspaceID, oldPrefix, newPrefix string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, d := range f.docs {
		if d.WorkspaceID == workspaceID && strings.HasPrefix(d.Filepath, oldPrefix) {
			d.Filepath = newPrefix + d.Filepath[len(oldPrefix):]
			n++
		}
	}
	return n, nil
}

func (f *fakeDocRepo) Delete(ctx context.Context, id, organizationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocRepo) DeleteAllByWorkspace(ctx context.Context, workspaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, d := range f.docs {
		if d.WorkspaceID == workspaceID {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeDocRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// fakeOrgRepo is an in-memory OrganizationRepository enforcing slug
// uniqueness
type fakeOrgRepo struct {
	orgs   map[string]*models.Organization
	nextID int
}

func newFakeOrgRepo(orgs ...*models.Organization) *fakeOrgRepo {
	repo := &fakeOrgRepo{orgs: make(map[string]*models.Organization)}
	for _, o := range orgs {
		repo.orgs[o.ID] = o
	}
	return repo
}

func (f *fakeOrgRepo) Create(ctx context.Context, org *models.Organization) error {
	for _, o := range f.orgs {
		if o.Slug == org.Slug {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("organization slug '%s' already exists", org.Slug),
				ResourceType: "organization",
				ResourceID:   o.ID,
			}
		}
	}
	if org.ID == "" {
		f.nextID++
		org.ID = "org-" + strconv.Itoa(f.nextID)
	}
	copied := *org
	f.orgs[org.ID] = &copied
	return nil
}

func (f *fakeOrgRepo) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrgRepo) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	for _, o := range f.orgs {
		if o.Slug == slug {
			copied := *o
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("organization %s: %w", slug, domain.ErrNotFound)
}

func (f *fakeOrgRepo) List(ctx context.Context) ([]models.Organization, error) {
	var out []models.Organization
	for _, o := range f.orgs {
		out = append(out, *o)
	}
	return out, nil
}

// fakeAccessRepo is an in-memory AccessRepository
type fakeAccessRepo struct {
	mu             sync.Mutex
	grants         []models.WorkspaceAccess
	createBatchErr error
	deleteCalls    int
}

func (f *fakeAccessRepo) Create(ctx context.Context, grant *models.WorkspaceAccess) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants = append(f.grants, *grant)
	return nil
}

func (f *fakeAccessRepo) CreateBatch(ctx context.Context, grants []models.WorkspaceAccess) error {
	if f.createBatchErr != nil {
		return f.createBatchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants = append(f.grants, grants...)
	return nil
}

func (f *fakeAccessRepo) DeleteAllByWorkspace(ctx context.Context, workspaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	kept := f.grants[:0]
	for _, g := range f.grants {
		if g.WorkspaceID != workspaceID {
			kept = append(kept, g)
		}
	}
	f.grants = kept
	return nil
}

func (f *fakeAccessRepo) ListByWorkspace(ctx context.Context, workspaceID, organizationID string) ([]models.WorkspaceAccessDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WorkspaceAccessDetail
	for _, g := range f.grants {
		if g.WorkspaceID == workspaceID {
			out = append(out, models.WorkspaceAccessDetail{WorkspaceAccess: g})
		}
	}
	return out, nil
}

// fakeChatRepo records detach calls
type fakeChatRepo struct {
	detachedWorkspace string
	fallbackName      string
	detachCount       int64
}

func (f *fakeChatRepo) DetachWorkspace(ctx context.Context, workspaceID, fallbackName string) (int64, error) {
	f.detachedWorkspace = workspaceID
	f.fallbackName = fallbackName
	return f.detachCount, nil
}

// fakeTxManager runs the function without a real transaction
type fakeTxManager struct{}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// memStore is an in-memory FileStore recording operations
type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
	deleted []string
	renames [][2]string
	removed []string
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Save(relPath string, r io.Reader) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.files[relPath]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("a file already exists at '%s'", relPath),
			ResourceType: "file",
			ResourceID:   relPath,
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[relPath] = data
	return nil
}

func (m *memStore) Delete(relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, relPath)
	m.deleted = append(m.deleted, relPath)
	return nil
}

func (m *memStore) Exists(relPath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[relPath]
	return ok
}

func (m *memStore) RenameDir(oldRel, newRel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renames = append(m.renames, [2]string{oldRel, newRel})
	for p, data := range m.files {
		if strings.HasPrefix(p, oldRel+"/") {
			delete(m.files, p)
			m.files[newRel+p[len(oldRel):]] = data
		}
	}
	return nil
}

func (m *memStore) RemoveDir(relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, relPath)
	for p := range m.files {
		if strings.HasPrefix(p, relPath+"/") {
			delete(m.files, p)
		}
	}
	return nil
}

func (m *memStore) fileCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// fakeIndexer records submissions; failFilenames selects which uploads fail
type fakeIndexer struct {
	mu            sync.Mutex
	uploads       []indexer.UploadRequest
	uploadBodies  [][]byte
	purged        []string
	failAll       bool
	failFilenames map[string]bool
	purgeErr      error
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{failFilenames: make(map[string]bool)}
}

func (f *fakeIndexer) UploadDocument(ctx context.Context, req *indexer.UploadRequest) error {
	body, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	if f.failAll || f.failFilenames[req.Filename] {
		return errors.New("indexing service error (status 500)")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *req
	copied.Content = bytes.NewReader(body)
	f.uploads = append(f.uploads, copied)
	f.uploadBodies = append(f.uploadBodies, body)
	return nil
}

func (f *fakeIndexer) PurgeWorkspace(ctx context.Context, workspaceID string) error {
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, workspaceID)
	return nil
}

func (f *fakeIndexer) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}
