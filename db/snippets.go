package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "modmail/db/tx"
	"modmail/models"
)

type PostgresSnippetsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for snippets table
var snippetsColumns = []string{
	"id",
	"guild_id",
	"name",
	"content",
	"created_at",
	"updated_at",
}

func NewPostgresSnippetsRepository(db *sqlx.DB, schema string) *PostgresSnippetsRepository {
	return &PostgresSnippetsRepository{db: db, schema: schema}
}

func (r *PostgresSnippetsRepository) ListSnippetsByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.Snippet, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(snippetsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.snippets
		WHERE guild_id = $1
		ORDER BY name ASC`, columnsStr, r.schema)

	var snippets []*models.Snippet
	err := db.SelectContext(ctx, &snippets, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	return snippets, nil
}

func (r *PostgresSnippetsRepository) GetSnippetByName(
	ctx context.Context,
	guildID, name string,
) (mo.Option[*models.Snippet], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(snippetsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.snippets
		WHERE guild_id = $1 AND name = $2`, columnsStr, r.schema)

	var snippet models.Snippet
	err := db.GetContext(ctx, &snippet, query, guildID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Snippet](), nil
		}
		return mo.None[*models.Snippet](), fmt.Errorf("failed to get snippet by name: %w", err)
	}

	return mo.Some(&snippet), nil
}

func (r *PostgresSnippetsRepository) UpsertSnippet(
	ctx context.Context,
	snippet *models.Snippet,
) (*models.Snippet, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(snippetsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.snippets (
			id, guild_id, name, content
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, name)
		DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = NOW()
		RETURNING %s
	`, r.schema, returningStr)

	var upserted models.Snippet
	err := db.QueryRowxContext(
		ctx,
		query,
		snippet.ID, snippet.GuildID, snippet.Name, snippet.Content,
	).StructScan(&upserted)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert snippet: %w", err)
	}

	return &upserted, nil
}

func (r *PostgresSnippetsRepository) DeleteSnippetByName(
	ctx context.Context,
	guildID, name string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.snippets
		WHERE guild_id = $1 AND name = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, guildID, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete snippet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
