package guildsettings

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"modmail/db"
	"modmail/models"
)

type GuildSettingsService struct {
	guildSettingsRepo *db.PostgresGuildSettingsRepository
}

func NewGuildSettingsService(repo *db.PostgresGuildSettingsRepository) *GuildSettingsService {
	return &GuildSettingsService{guildSettingsRepo: repo}
}

func (s *GuildSettingsService) GetGuildSettings(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildSettings], error) {
	log.Printf("📋 Starting to get guild settings for guild %s", guildID)

	if guildID == "" {
		return mo.None[*models.GuildSettings](), fmt.Errorf("guild_id cannot be empty")
	}

	maybeSettings, err := s.guildSettingsRepo.GetGuildSettings(ctx, guildID)
	if err != nil {
		return mo.None[*models.GuildSettings](), fmt.Errorf("failed to get guild settings: %w", err)
	}

	log.Printf("📋 Completed successfully - guild settings present: %v", maybeSettings.IsPresent())
	return maybeSettings, nil
}

func (s *GuildSettingsService) UpsertGuildSettings(
	ctx context.Context,
	guildID string,
	modmailChannelID, alertRoleID *string,
) (*models.GuildSettings, error) {
	log.Printf("📋 Starting to upsert guild settings for guild %s", guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if modmailChannelID != nil && *modmailChannelID == "" {
		return nil, fmt.Errorf("modmail_channel_id cannot be set to an empty value")
	}
	if alertRoleID != nil && *alertRoleID == "" {
		return nil, fmt.Errorf("alert_role_id cannot be set to an empty value")
	}

	settings, err := s.guildSettingsRepo.UpsertGuildSettings(ctx, guildID, modmailChannelID, alertRoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guild settings: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted guild settings for guild %s", guildID)
	return settings, nil
}
