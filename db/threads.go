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

type PostgresThreadsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for threads table
var threadsColumns = []string{
	"id",
	"guild_id",
	"channel_id",
	"user_id",
	"created_by_id",
	"closed_by_id",
	"created_at",
	"updated_at",
}

func NewPostgresThreadsRepository(db *sqlx.DB, schema string) *PostgresThreadsRepository {
	return &PostgresThreadsRepository{db: db, schema: schema}
}

func (r *PostgresThreadsRepository) CreateThread(ctx context.Context, thread *models.Thread) (*models.Thread, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(threadsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.threads (
			id, guild_id, channel_id, user_id, created_by_id
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, r.schema, returningStr)

	var created models.Thread
	err := db.QueryRowxContext(
		ctx,
		query,
		thread.ID, thread.GuildID, thread.ChannelID, thread.UserID, thread.CreatedByID,
	).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	return &created, nil
}

func (r *PostgresThreadsRepository) GetOpenThreadByUser(
	ctx context.Context,
	guildID, userID string,
) (mo.Option[*models.Thread], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(threadsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.threads
		WHERE guild_id = $1 AND user_id = $2 AND closed_by_id IS NULL`, columnsStr, r.schema)

	var thread models.Thread
	err := db.GetContext(ctx, &thread, query, guildID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Thread](), nil
		}
		return mo.None[*models.Thread](), fmt.Errorf("failed to get open thread: %w", err)
	}

	return mo.Some(&thread), nil
}

func (r *PostgresThreadsRepository) GetThreadByChannelID(
	ctx context.Context,
	guildID, channelID string,
) (mo.Option[*models.Thread], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(threadsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.threads
		WHERE guild_id = $1 AND channel_id = $2`, columnsStr, r.schema)

	var thread models.Thread
	err := db.GetContext(ctx, &thread, query, guildID, channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Thread](), nil
		}
		return mo.None[*models.Thread](), fmt.Errorf("failed to get thread by channel: %w", err)
	}

	return mo.Some(&thread), nil
}

func (r *PostgresThreadsRepository) ListThreadsByUser(
	ctx context.Context,
	guildID, userID string,
) ([]*models.Thread, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(threadsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.threads
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var threads []*models.Thread
	err := db.SelectContext(ctx, &threads, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads by user: %w", err)
	}

	return threads, nil
}

func (r *PostgresThreadsRepository) ListThreadsByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.Thread, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(threadsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.threads
		WHERE guild_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var threads []*models.Thread
	err := db.SelectContext(ctx, &threads, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads by guild: %w", err)
	}

	return threads, nil
}

func (r *PostgresThreadsRepository) DeleteThread(ctx context.Context, id string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.threads
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete thread: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// UpdateThreadClosedBy marks an open thread as closed by the given actor.
// Closing is idempotent per thread: a thread that is already closed is not
// updated again.
func (r *PostgresThreadsRepository) UpdateThreadClosedBy(
	ctx context.Context,
	id, closedByID string,
) (mo.Option[*models.Thread], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(threadsColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.threads
		SET closed_by_id = $2, updated_at = NOW()
		WHERE id = $1 AND closed_by_id IS NULL
		RETURNING %s
	`, r.schema, returningStr)

	var thread models.Thread
	err := db.QueryRowxContext(ctx, query, id, closedByID).StructScan(&thread)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Thread](), nil
		}
		return mo.None[*models.Thread](), fmt.Errorf("failed to close thread: %w", err)
	}

	return mo.Some(&thread), nil
}
