package services

import (
	"context"
	"io"
	"time"

	"nova/internal/domain/models"
)

// UploadFileRequest describes one file to upload into a workspace
type UploadFileRequest struct {
	WorkspaceID    string
	Filename       string
	FolderPath     string // optional destination folder inside the workspace; may carry a "Workspaces/" prefix
	FileType       models.FileType
	OriginalFileID string     // required for revisions and amendments
	ImpactDate     *time.Time // revision/amendment date, date-only
	Content        io.Reader
}

// UploadFileResult is the per-file outcome of an upload
type UploadFileResult struct {
	Filename   string `json:"filename"`
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id,omitempty"`
	Filepath   string `json:"filepath,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchUploadResult aggregates per-file results; Results keeps input order
type BatchUploadResult struct {
	Results    []UploadFileResult `json:"results"`
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
}

// UploadService coordinates the store -> index -> record workflow with
// compensating cleanup on failure
type UploadService interface {
	// UploadFile runs the full per-file state machine
	UploadFile(ctx context.Context, principal models.Principal, req *UploadFileRequest) (*models.Document, error)

	// UploadBatch processes files concurrently and independently; one
	// file's failure does not abort the others
	UploadBatch(ctx context.Context, principal models.Principal, reqs []*UploadFileRequest) *BatchUploadResult

	// DeleteDocument removes a single document's stored file and row. The
	// external index only supports workspace-level purge, so the indexed
	// copy remains until the workspace is deleted.
	DeleteDocument(ctx context.Context, principal models.Principal, documentID string) error
}
