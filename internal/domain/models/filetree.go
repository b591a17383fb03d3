package models

import (
	"time"
)

// FileNodeType distinguishes folder nodes from file nodes
type FileNodeType string

const (
	NodeFolder FileNodeType = "folder"
	NodeFile   FileNodeType = "file"
)

// FileTreeNode is one entry of the reconstructed workspace file hierarchy.
// Folders are synthesized from path segments; only file nodes carry a
// document ID.
type FileTreeNode struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"` // cumulative path relative to the workspace root
	Type       FileNodeType    `json:"type"`
	DocumentID string          `json:"document_id,omitempty"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	Children   []*FileTreeNode `json:"children,omitempty"`
}
