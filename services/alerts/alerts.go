package alerts

import (
	"context"
	"fmt"
	"log"

	"modmail/core"
	"modmail/db"
	"modmail/models"
)

type AlertsService struct {
	alertsRepo *db.PostgresAlertsRepository
}

func NewAlertsService(repo *db.PostgresAlertsRepository) *AlertsService {
	return &AlertsService{alertsRepo: repo}
}

func (s *AlertsService) ListAlertSubscribersByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.ThreadOpenAlert, error) {
	log.Printf("📋 Starting to list alert subscribers for guild %s", guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}

	subscribers, err := s.alertsRepo.ListAlertSubscribersByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert subscribers: %w", err)
	}

	log.Printf("📋 Completed successfully - listed %d alert subscribers for guild %s", len(subscribers), guildID)
	return subscribers, nil
}

func (s *AlertsService) UpsertAlertSubscription(
	ctx context.Context,
	guildID, userID string,
) (*models.ThreadOpenAlert, error) {
	log.Printf("📋 Starting to upsert alert subscription for user %s in guild %s", userID, guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}

	upserted, err := s.alertsRepo.UpsertAlertSubscription(ctx, &models.ThreadOpenAlert{
		ID:      core.NewID("al"),
		GuildID: guildID,
		UserID:  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alert subscription: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted alert subscription for user %s in guild %s", userID, guildID)
	return upserted, nil
}

func (s *AlertsService) DeleteAlertSubscription(
	ctx context.Context,
	guildID, userID string,
) error {
	log.Printf("📋 Starting to delete alert subscription for user %s in guild %s", userID, guildID)

	if guildID == "" {
		return fmt.Errorf("guild_id cannot be empty")
	}
	if userID == "" {
		return fmt.Errorf("user_id cannot be empty")
	}

	deleted, err := s.alertsRepo.DeleteAlertSubscription(ctx, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert subscription: %w", err)
	}
	if !deleted {
		return core.ErrNotFound
	}

	log.Printf("📋 Completed successfully - deleted alert subscription for user %s in guild %s", userID, guildID)
	return nil
}
