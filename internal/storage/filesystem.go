package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nova/internal/domain"
)

// FileStore writes workspace files under a single public root. All paths it
// accepts are storage-relative (the "Workspaces/{slug}/..." form); the root
// is jailed so a crafted path cannot escape it.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at root
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// resolve joins a storage-relative path onto the root, rejecting escapes
func (s *FileStore) resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: invalid storage path %q", domain.ErrValidation, relPath)
	}
	return filepath.Join(s.root, cleaned), nil
}

// Save writes the file at relPath, creating parent directories as needed.
// An existing destination is a conflict: uploads never overwrite.
func (s *FileStore) Save(relPath string, r io.Reader) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a file already exists at '%s'", relPath),
				ResourceType: "file",
				ResourceID:   relPath,
			}
		}
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(fullPath)
		return fmt.Errorf("write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("close file: %w", err)
	}

	return nil
}

// Delete removes the file at relPath. A missing file is not an error.
func (s *FileStore) Delete(relPath string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}

	return nil
}

// Exists reports whether a file exists at relPath
func (s *FileStore) Exists(relPath string) bool {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return false
	}

	_, err = os.Stat(fullPath)
	return err == nil
}

// RenameDir renames the directory at oldRel to newRel. A missing source
// directory is not an error: a workspace without uploads has no folder yet.
func (s *FileStore) RenameDir(oldRel, newRel string) error {
	oldPath, err := s.resolve(oldRel)
	if err != nil {
		return err
	}
	newPath, err := s.resolve(newRel)
	if err != nil {
		return err
	}

	if _, err := os.Stat(oldPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename directory: %w", err)
	}

	return nil
}

// RemoveDir removes the directory at relPath and everything under it
func (s *FileStore) RemoveDir(relPath string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("remove directory: %w", err)
	}

	return nil
}
