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

type PostgresGuildSettingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for guild_settings table
var guildSettingsColumns = []string{
	"guild_id",
	"modmail_channel_id",
	"alert_role_id",
	"created_at",
	"updated_at",
}

func NewPostgresGuildSettingsRepository(db *sqlx.DB, schema string) *PostgresGuildSettingsRepository {
	return &PostgresGuildSettingsRepository{db: db, schema: schema}
}

func (r *PostgresGuildSettingsRepository) GetGuildSettings(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildSettings], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(guildSettingsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.guild_settings
		WHERE guild_id = $1`, columnsStr, r.schema)

	var settings models.GuildSettings
	err := db.GetContext(ctx, &settings, query, guildID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.GuildSettings](), nil
		}
		return mo.None[*models.GuildSettings](), fmt.Errorf("failed to get guild settings: %w", err)
	}

	return mo.Some(&settings), nil
}

// UpsertGuildSettings inserts or updates the guild's settings row. A nil
// field leaves the stored value untouched.
func (r *PostgresGuildSettingsRepository) UpsertGuildSettings(
	ctx context.Context,
	guildID string,
	modmailChannelID, alertRoleID *string,
) (*models.GuildSettings, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(guildSettingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.guild_settings (
			guild_id, modmail_channel_id, alert_role_id
		) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id)
		DO UPDATE SET
			modmail_channel_id = COALESCE(EXCLUDED.modmail_channel_id, guild_settings.modmail_channel_id),
			alert_role_id = COALESCE(EXCLUDED.alert_role_id, guild_settings.alert_role_id),
			updated_at = NOW()
		RETURNING %s
	`, r.schema, returningStr)

	var settings models.GuildSettings
	err := db.QueryRowxContext(ctx, query, guildID, modmailChannelID, alertRoleID).StructScan(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guild settings: %w", err)
	}

	return &settings, nil
}
