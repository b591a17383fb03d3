package repositories

import (
	"context"
)

// ChatRepository covers the single chat operation this core owns: detaching
// chats from a workspace that is being deleted.
type ChatRepository interface {
	// DetachWorkspace nulls workspace_id on every chat referencing the
	// workspace, backfilling the workspace_name snapshot with fallbackName
	// where the chat has none. Returns the number of detached chats.
	DetachWorkspace(ctx context.Context, workspaceID, fallbackName string) (int64, error)
}
