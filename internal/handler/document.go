package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nova/internal/domain/models"
	"nova/internal/domain/services"
	"nova/internal/httputil"
	"nova/internal/service"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger files spill to temp files.
const maxUploadMemory = 32 << 20

// DocumentHandler handles document upload and deletion requests
type DocumentHandler struct {
	uploadService services.UploadService
	resolver      *service.TenantResolver
	logger        *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(uploadService services.UploadService, resolver *service.TenantResolver, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		uploadService: uploadService,
		resolver:      resolver,
		logger:        logger,
	}
}

// UploadDocuments accepts one or more files as multipart form data and runs
// each through the store/index/record workflow. Shared form fields:
// fileType, originalFileID, impactDate (YYYY-MM-DD), folderPath.
// POST /api/workspaces/{id}/documents
func (h *DocumentHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	workspaceID := r.PathValue("id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace ID is required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	fileType := models.FileType(r.FormValue("fileType"))
	if fileType == "" {
		fileType = models.FileOriginal
	}

	var impactDate *time.Time
	if raw := r.FormValue("impactDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "impactDate must be YYYY-MM-DD")
			return
		}
		impactDate = &parsed
	}

	reqs := make([]*services.UploadFileRequest, 0, len(files))
	opened := make([]interface{ Close() error }, 0, len(files))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("cannot read file %q", header.Filename))
			return
		}
		opened = append(opened, file)

		reqs = append(reqs, &services.UploadFileRequest{
			WorkspaceID:    workspaceID,
			Filename:       header.Filename,
			FolderPath:     r.FormValue("folderPath"),
			FileType:       fileType,
			OriginalFileID: r.FormValue("originalFileID"),
			ImpactDate:     impactDate,
			Content:        file,
		})
	}

	if len(reqs) == 1 {
		doc, err := h.uploadService.UploadFile(r.Context(), principal, reqs[0])
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusCreated, doc)
		return
	}

	result := h.uploadService.UploadBatch(r.Context(), principal, reqs)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeleteDocument removes a single document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	principal, err := resolvePrincipal(r, h.resolver)
	if err != nil {
		handleError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if err := h.uploadService.DeleteDocument(r.Context(), principal, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
