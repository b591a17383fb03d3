package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupSchema creates the prefixed tables if they do not exist. The unique
// constraints here are the last line of defense for the tenancy invariants:
// globally unique slugs and emails, unique workspace names per organization,
// and one grant per (user, workspace).
func SetupSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				status TEXT NOT NULL DEFAULT 'pending',
				expires_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Organizations),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				firstname TEXT NOT NULL DEFAULT '',
				lastname TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL DEFAULT 'user',
				organization_id UUID REFERENCES %s(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Users, tables.Organizations),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				organization_id UUID NOT NULL REFERENCES %s(id),
				config JSONB,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (name, organization_id)
			)`, tables.Workspaces, tables.Organizations),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL REFERENCES %s(id),
				workspace_id UUID NOT NULL REFERENCES %s(id),
				access_level TEXT NOT NULL DEFAULT 'view',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (user_id, workspace_id)
			)`, tables.WorkspaceAccess, tables.Users, tables.Workspaces),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				workspace_id UUID NOT NULL REFERENCES %s(id),
				organization_id UUID NOT NULL REFERENCES %s(id),
				filepath TEXT NOT NULL,
				file_type TEXT NOT NULL DEFAULT 'original',
				original_file_id UUID REFERENCES %s(id),
				impact_date DATE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Documents, tables.Workspaces, tables.Organizations, tables.Documents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL REFERENCES %s(id),
				workspace_id UUID REFERENCES %s(id),
				workspace_name TEXT NOT NULL DEFAULT '',
				title TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Chats, tables.Users, tables.Workspaces),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("setup schema: %w", err)
		}
	}

	return nil
}

// DropSchema drops every prefixed table. Destructive; callers gate this
// behind the interactive confirmation flow.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmt := fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Chats, tables.Documents, tables.WorkspaceAccess, tables.Workspaces, tables.Users, tables.Organizations)

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}

	return nil
}
