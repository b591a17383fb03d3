package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain/repositories"
)

// PostgresChatRepository implements the ChatRepository interface
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChatRepository creates a new chat repository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// DetachWorkspace nulls workspace_id on every chat referencing the workspace,
// keeping the stored workspace_name snapshot and backfilling it with
// fallbackName where absent, so chat history stays readable after the
// workspace is gone.
func (r *PostgresChatRepository) DetachWorkspace(ctx context.Context, workspaceID, fallbackName string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET workspace_id = NULL,
		    workspace_name = COALESCE(NULLIF(workspace_name, ''), $2)
		WHERE workspace_id = $1
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, workspaceID, fallbackName)
	if err != nil {
		return 0, fmt.Errorf("detach chats from workspace: %w", err)
	}

	return result.RowsAffected(), nil
}
