package service

import (
	"strings"
)

// StoragePrefix is the fixed first segment of every stored file path
const StoragePrefix = "Workspaces/"

// WorkspaceRoot returns the storage path of a workspace's folder:
// "Workspaces/{slug}/{workspaceName}".
func WorkspaceRoot(slug, workspaceName string) string {
	return StoragePrefix + slug + "/" + workspaceName
}

// NormalizeStoragePath canonicalizes a logical path into the stored form
// "Workspaces/{slug}/...". The logical path starts with the workspace name
// segment; a caller-supplied "Workspaces/" prefix is tolerated (the slug is
// spliced in right after it rather than prepended again), as is a path that
// already carries both, so normalization is idempotent. The slug segment is
// only stripped behind an explicit "Workspaces/" prefix: on a bare logical
// path the first segment is the workspace name, which may legitimately equal
// the slug.
func NormalizeStoragePath(slug, logicalPath string) string {
	p := strings.TrimLeft(logicalPath, "/")
	if rest, ok := strings.CutPrefix(p, StoragePrefix); ok {
		p = strings.TrimPrefix(rest, slug+"/")
	}
	return StoragePrefix + slug + "/" + p
}

// BuildStoragePath computes the canonical destination for an upload:
// "Workspaces/{slug}/{workspaceName}/{folders...}/{fileName}". Empty folder
// segments are dropped.
func BuildStoragePath(slug, workspaceName string, folders []string, fileName string) string {
	segments := make([]string, 0, len(folders)+2)
	segments = append(segments, workspaceName)
	for _, folder := range folders {
		folder = strings.Trim(folder, "/")
		if folder != "" {
			segments = append(segments, folder)
		}
	}
	segments = append(segments, fileName)
	return NormalizeStoragePath(slug, strings.Join(segments, "/"))
}

// SplitFolderPath breaks a caller-supplied folder path ("a/b/c", possibly
// with stray slashes) into its segments. Returns nil for an empty path.
func SplitFolderPath(folderPath string) []string {
	trimmed := strings.Trim(folderPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// relevantSegments strips the three fixed leading segments (the literal
// "Workspaces", the organization slug and the workspace name) from a stored
// path, leaving the folder chain and file name the tree is built from.
func relevantSegments(storedPath string) []string {
	segments := strings.Split(strings.Trim(storedPath, "/"), "/")
	if len(segments) <= 3 {
		// Malformed or bare workspace root; the last segment is the name
		if len(segments) == 0 {
			return nil
		}
		return segments[len(segments)-1:]
	}
	return segments[3:]
}
