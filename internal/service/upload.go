package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
	"nova/internal/domain/services"
	"nova/internal/indexer"
)

// allowedExtensions is the upload allow-list
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
	".xlsx": true,
	".xls":  true,
	".csv":  true,
	".rtf":  true,
}

// uploadService implements the UploadService interface. Each file runs a
// strictly sequential store -> index -> record workflow; every completed
// step pushes a matching undo that runs in reverse on failure, since no
// transaction can span the filesystem, the indexing service and the
// database.
type uploadService struct {
	docRepo       repositories.DocumentRepository
	workspaceRepo repositories.WorkspaceRepository
	orgRepo       repositories.OrganizationRepository
	store         FileStore
	indexer       Indexer
	locks         *WorkspaceLocks
	logger        *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(
	docRepo repositories.DocumentRepository,
	workspaceRepo repositories.WorkspaceRepository,
	orgRepo repositories.OrganizationRepository,
	store FileStore,
	idx Indexer,
	locks *WorkspaceLocks,
	logger *slog.Logger,
) services.UploadService {
	return &uploadService{
		docRepo:       docRepo,
		workspaceRepo: workspaceRepo,
		orgRepo:       orgRepo,
		store:         store,
		indexer:       idx,
		locks:         locks,
		logger:        logger,
	}
}

// UploadFile runs the per-file state machine for a single upload
func (s *uploadService) UploadFile(ctx context.Context, principal models.Principal, req *services.UploadFileRequest) (*models.Document, error) {
	return s.uploadOne(ctx, principal, req, false)
}

// UploadBatch fans the files out as independent concurrent uploads and joins
// them all; one file's failure never aborts its siblings. Results keep the
// input order.
func (s *uploadService) UploadBatch(ctx context.Context, principal models.Principal, reqs []*services.UploadFileRequest) *services.BatchUploadResult {
	result := &services.BatchUploadResult{
		Results: make([]services.UploadFileResult, len(reqs)),
		Total:   len(reqs),
	}

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req *services.UploadFileRequest) {
			defer wg.Done()

			doc, err := s.uploadOne(ctx, principal, req, true)
			if err != nil {
				result.Results[i] = services.UploadFileResult{
					Filename: req.Filename,
					Success:  false,
					Error:    err.Error(),
				}
				return
			}
			result.Results[i] = services.UploadFileResult{
				Filename:   req.Filename,
				Success:    true,
				DocumentID: doc.ID,
				Filepath:   doc.Filepath,
			}
		}(i, req)
	}
	wg.Wait()

	for _, r := range result.Results {
		if r.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	s.logger.Info("batch upload finished",
		"total", result.Total,
		"successful", result.Successful,
		"failed", result.Failed,
	)

	return result
}

func (s *uploadService) uploadOne(ctx context.Context, principal models.Principal, req *services.UploadFileRequest, batch bool) (*models.Document, error) {
	if err := RequireOrganization(principal); err != nil {
		return nil, err
	}

	// Validate: no side effects before this passes
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	org, err := s.orgRepo.GetByID(ctx, principal.OrganizationID)
	if err != nil {
		return nil, err
	}

	// Revision/amendment linkage is re-checked server-side regardless of
	// what the UI enforced
	var original *models.Document
	if req.FileType != models.FileOriginal {
		original, err = s.docRepo.GetOriginal(ctx, req.OriginalFileID, req.WorkspaceID)
		if err != nil {
			return nil, fmt.Errorf("%w: no original document %s in workspace", domain.ErrValidation, req.OriginalFileID)
		}
	}

	// The content is submitted to both storage and the index
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}

	// Store. The workspace lock covers path computation and the write so a
	// concurrent rename cannot strand the file under the old folder.
	lock := s.locks.lock(req.WorkspaceID)
	workspace, err := s.workspaceRepo.GetByID(ctx, req.WorkspaceID, principal.OrganizationID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	// Report a collision before touching disk; the exclusive create in
	// Save still decides races
	storagePath := resolveDestination(org.Slug, workspace.Name, req.FolderPath, req.Filename)
	if s.store.Exists(storagePath) {
		lock.Unlock()
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a file already exists at '%s'", storagePath),
			ResourceType: "file",
			ResourceID:   storagePath,
		}
	}
	if err := s.store.Save(storagePath, bytes.NewReader(data)); err != nil {
		lock.Unlock()
		return nil, err
	}
	lock.Unlock()

	var undos []func()
	undos = append(undos, func() {
		if err := s.store.Delete(storagePath); err != nil {
			s.logger.Error("compensation failed: stored file not deleted",
				"filepath", storagePath,
				"error", err,
			)
		}
	})

	fileID := uuid.NewString()

	// Index
	indexReq := &indexer.UploadRequest{
		FileID:      fileID,
		Filename:    req.Filename,
		WorkspaceID: workspace.ID,
		Filepath:    storagePath,
		IsOriginal:  req.FileType == models.FileOriginal,
		Batch:       batch,
		Content:     bytes.NewReader(data),
	}
	if original != nil {
		indexReq.ParentID = original.ID
		indexReq.ParentName = path.Base(original.Filepath)
	}
	if req.ImpactDate != nil {
		indexReq.RevisionDate = req.ImpactDate.Format("2006-01-02")
	}

	if err := s.indexer.UploadDocument(ctx, indexReq); err != nil {
		s.compensate(undos)
		return nil, fmt.Errorf("index document: %w", err)
	}

	// Record
	doc := &models.Document{
		ID:             fileID,
		WorkspaceID:    workspace.ID,
		OrganizationID: principal.OrganizationID,
		Filepath:       storagePath,
		FileType:       req.FileType,
		ImpactDate:     req.ImpactDate,
		CreatedAt:      time.Now(),
	}
	if original != nil {
		doc.OriginalFileID = &original.ID
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		// Defensive symmetry: remove any partial row alongside the file
		if delErr := s.docRepo.Delete(ctx, fileID, principal.OrganizationID); delErr != nil && !isNotFound(delErr) {
			s.logger.Error("compensation failed: partial document row not deleted",
				"document_id", fileID,
				"error", delErr,
			)
		}
		s.compensate(undos)
		return nil, fmt.Errorf("record document: %w", err)
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"workspace_id", workspace.ID,
		"filepath", storagePath,
		"file_type", doc.FileType,
	)

	return doc, nil
}

// DeleteDocument removes a single document's file and row. The file delete
// is best-effort; the row delete is authoritative.
func (s *uploadService) DeleteDocument(ctx context.Context, principal models.Principal, documentID string) error {
	if err := RequireWorkspaceAdmin(principal); err != nil {
		return err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, principal.OrganizationID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(doc.Filepath); err != nil {
		s.logger.Warn("document file not deleted",
			"document_id", documentID,
			"filepath", doc.Filepath,
			"error", err,
		)
	}

	if err := s.docRepo.Delete(ctx, documentID, principal.OrganizationID); err != nil {
		return err
	}

	s.logger.Info("document deleted",
		"document_id", documentID,
		"filepath", doc.Filepath,
	)

	return nil
}

// compensate runs the undo stack in reverse
func (s *uploadService) compensate(undos []func()) {
	for i := len(undos) - 1; i >= 0; i-- {
		undos[i]()
	}
}

func (s *uploadService) validateUploadRequest(req *services.UploadFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required),
		validation.Field(&req.Filename, validation.Required, validation.By(validateExtension)),
		validation.Field(&req.FileType,
			validation.Required,
			validation.In(models.FileOriginal, models.FileRevision, models.FileAmendment),
		),
		validation.Field(&req.OriginalFileID,
			validation.Required.When(req.FileType != models.FileOriginal).
				Error("original file reference is required for revisions and amendments"),
		),
	)
}

func validateExtension(value interface{}) error {
	name, _ := value.(string)
	ext := strings.ToLower(path.Ext(name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("file type %q is not allowed", ext)
	}
	return nil
}

// resolveDestination computes the canonical storage path for an upload. The
// folder path may be a plain folder chain or a full caller-computed path
// carrying the "Workspaces/" prefix; both normalize to the same result.
func resolveDestination(slug, workspaceName, folderPath, fileName string) string {
	folder := strings.Trim(folderPath, "/")
	if strings.HasPrefix(folder, StoragePrefix) {
		return NormalizeStoragePath(slug, folder+"/"+fileName)
	}
	return BuildStoragePath(slug, workspaceName, SplitFolderPath(folder), fileName)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
