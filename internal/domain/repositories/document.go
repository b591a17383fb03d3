package repositories

import (
	"context"

	"nova/internal/domain/models"
)

// DocumentRepository persists document records. Documents are created only by
// the upload coordinator and mutated only when a workspace rename rewrites
// their stored paths.
type DocumentRepository interface {
	// Create inserts a document with its caller-generated ID
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document within the organization
	GetByID(ctx context.Context, id, organizationID string) (*models.Document, error)

	// GetOriginal retrieves a document of type original within the workspace
	GetOriginal(ctx context.Context, id, workspaceID string) (*models.Document, error)

	// ListByWorkspace retrieves all documents of a workspace
	ListByWorkspace(ctx context.Context, workspaceID, organizationID string) ([]models.Document, error)

	// RewritePathPrefix replaces oldPrefix with newPrefix on every document
	// of the workspace whose filepath starts with oldPrefix. Returns the
	// number of rewritten rows.
	RewritePathPrefix(ctx context.Context, workspaceID, oldPrefix, newPrefix string) (int64, error)

	// Delete removes a document row
	Delete(ctx context.Context, id, organizationID string) error

	// DeleteAllByWorkspace removes every document row of a workspace
	DeleteAllByWorkspace(ctx context.Context, workspaceID string) error
}
