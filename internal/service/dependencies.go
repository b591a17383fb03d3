package service

import (
	"context"
	"io"

	"nova/internal/indexer"
)

// FileStore is the storage boundary the services write workspace files
// through. Implemented by storage.FileStore; faked in tests.
type FileStore interface {
	Save(relPath string, r io.Reader) error
	Delete(relPath string) error
	Exists(relPath string) bool
	RenameDir(oldRel, newRel string) error
	RemoveDir(relPath string) error
}

// Indexer is the external indexing-service boundary. Implemented by
// indexer.Client; faked in tests.
type Indexer interface {
	UploadDocument(ctx context.Context, req *indexer.UploadRequest) error
	PurgeWorkspace(ctx context.Context, workspaceID string) error
}
