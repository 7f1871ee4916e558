package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtx "modmail/db/tx"
	"modmail/models"
)

type PostgresAlertsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for thread_open_alerts table
var alertsColumns = []string{
	"id",
	"guild_id",
	"user_id",
	"created_at",
	"updated_at",
}

func NewPostgresAlertsRepository(db *sqlx.DB, schema string) *PostgresAlertsRepository {
	return &PostgresAlertsRepository{db: db, schema: schema}
}

func (r *PostgresAlertsRepository) ListAlertSubscribersByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.ThreadOpenAlert, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(alertsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.thread_open_alerts
		WHERE guild_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var alerts []*models.ThreadOpenAlert
	err := db.SelectContext(ctx, &alerts, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert subscribers: %w", err)
	}

	return alerts, nil
}

func (r *PostgresAlertsRepository) UpsertAlertSubscription(
	ctx context.Context,
	alert *models.ThreadOpenAlert,
) (*models.ThreadOpenAlert, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(alertsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.thread_open_alerts (
			id, guild_id, user_id
		) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id)
		DO UPDATE SET
			updated_at = NOW()
		RETURNING %s
	`, r.schema, returningStr)

	var upserted models.ThreadOpenAlert
	err := db.QueryRowxContext(ctx, query, alert.ID, alert.GuildID, alert.UserID).StructScan(&upserted)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alert subscription: %w", err)
	}

	return &upserted, nil
}

func (r *PostgresAlertsRepository) DeleteAlertSubscription(
	ctx context.Context,
	guildID, userID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.thread_open_alerts
		WHERE guild_id = $1 AND user_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
