package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nova/internal/domain"
)

func TestFileStore_SaveAndExists(t *testing.T) {
	store := NewFileStore(t.TempDir())

	relPath := "Workspaces/acme/Contracts/agreement.pdf"
	if err := store.Save(relPath, strings.NewReader("content")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !store.Exists(relPath) {
		t.Error("saved file does not exist")
	}
	if store.Exists("Workspaces/acme/Contracts/other.pdf") {
		t.Error("unsaved file reported as existing")
	}
}

func TestFileStore_SaveNeverOverwrites(t *testing.T) {
	store := NewFileStore(t.TempDir())
	relPath := "Workspaces/acme/Contracts/agreement.pdf"

	if err := store.Save(relPath, strings.NewReader("first")); err != nil {
		t.Fatalf("first save: %v", err)
	}

	err := store.Save(relPath, strings.NewReader("second"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate save, got %v", err)
	}

	var conflictErr *domain.ConflictError
	if !errors.As(err, &conflictErr) || conflictErr.ResourceID != relPath {
		t.Errorf("conflict does not identify the path: %v", err)
	}
}

func TestFileStore_RejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	for _, p := range []string{
		"../outside.txt",
		"Workspaces/../../outside.txt",
		"/etc/passwd",
	} {
		if err := store.Save(p, strings.NewReader("x")); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("path %q: expected validation error, got %v", p, err)
		}
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "outside.txt")); err == nil {
		t.Fatal("a file escaped the storage root")
	}
}

func TestFileStore_DeleteMissingIsNotAnError(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Delete("Workspaces/acme/Contracts/missing.pdf"); err != nil {
		t.Errorf("Delete of a missing file: %v", err)
	}
}

func TestFileStore_RenameDir(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Save("Workspaces/acme/Contracts/Leases/agreement.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.RenameDir("Workspaces/acme/Contracts", "Workspaces/acme/Agreements"); err != nil {
		t.Fatalf("RenameDir: %v", err)
	}

	if !store.Exists("Workspaces/acme/Agreements/Leases/agreement.pdf") {
		t.Error("file not found under the renamed directory")
	}
	if store.Exists("Workspaces/acme/Contracts/Leases/agreement.pdf") {
		t.Error("file still present under the old directory")
	}
}

func TestFileStore_RenameDirMissingSource(t *testing.T) {
	store := NewFileStore(t.TempDir())

	// A workspace without uploads has no folder yet
	if err := store.RenameDir("Workspaces/acme/Empty", "Workspaces/acme/Renamed"); err != nil {
		t.Errorf("RenameDir with missing source: %v", err)
	}
}

func TestFileStore_RemoveDir(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Save("Workspaces/acme/Contracts/a.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("Workspaces/acme/Contracts/sub/b.pdf", strings.NewReader("y")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.RemoveDir("Workspaces/acme/Contracts"); err != nil {
		t.Fatalf("RemoveDir: %v", err)
	}

	if store.Exists("Workspaces/acme/Contracts/a.pdf") || store.Exists("Workspaces/acme/Contracts/sub/b.pdf") {
		t.Error("files survived RemoveDir")
	}
}
