package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Organizations   string
	Users           string
	Workspaces      string
	WorkspaceAccess string
	Documents       string
	Chats           string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Organizations:   fmt.Sprintf("%sorganizations", prefix),
		Users:           fmt.Sprintf("%susers", prefix),
		Workspaces:      fmt.Sprintf("%sworkspaces", prefix),
		WorkspaceAccess: fmt.Sprintf("%sworkspace_access", prefix),
		Documents:       fmt.Sprintf("%sdocuments", prefix),
		Chats:           fmt.Sprintf("%schats", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// The dynamic table prefixes (dev_, test_) are interpolated into SQL before
// it reaches the database, so each environment gets its own prepared
// statements and the prefix never rides along as a parameter.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
