package threads

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"modmail/core"
	"modmail/db"
	"modmail/models"
	"modmail/services"
)

type ThreadsService struct {
	threadsRepo *db.PostgresThreadsRepository
	txManager   services.TransactionManager
}

func NewThreadsService(repo *db.PostgresThreadsRepository, txManager services.TransactionManager) *ThreadsService {
	return &ThreadsService{threadsRepo: repo, txManager: txManager}
}

func (s *ThreadsService) CreateThread(
	ctx context.Context,
	guildID, channelID, userID, createdByID string,
) (*models.ThreadCreationResult, error) {
	log.Printf("📋 Starting to create thread for user %s in guild %s, channel %s", userID, guildID, channelID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel_id cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if createdByID == "" {
		return nil, fmt.Errorf("created_by_id cannot be empty")
	}

	var result *models.ThreadCreationResult
	if err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// Re-check inside the transaction so a concurrent open resolves to
		// the surviving record instead of a second open thread
		maybeExisting, err := s.threadsRepo.GetOpenThreadByUser(ctx, guildID, userID)
		if err != nil {
			return fmt.Errorf("failed to check for existing open thread: %w", err)
		}
		if maybeExisting.IsPresent() {
			result = &models.ThreadCreationResult{
				Thread: maybeExisting.MustGet(),
				Status: models.ThreadCreationStatusExisting,
			}
			return nil
		}

		created, err := s.threadsRepo.CreateThread(ctx, &models.Thread{
			ID:          core.NewID("th"),
			GuildID:     guildID,
			ChannelID:   channelID,
			UserID:      userID,
			CreatedByID: createdByID,
		})
		if err != nil {
			return fmt.Errorf("failed to create thread: %w", err)
		}

		result = &models.ThreadCreationResult{
			Thread: created,
			Status: models.ThreadCreationStatusCreated,
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to create thread in transaction: %w", err)
	}

	log.Printf("📋 Completed successfully - thread %s with status %s", result.Thread.ID, result.Status)
	return result, nil
}

func (s *ThreadsService) GetOpenThread(
	ctx context.Context,
	guildID, userID string,
) (mo.Option[*models.Thread], error) {
	log.Printf("📋 Starting to get open thread for user %s in guild %s", userID, guildID)

	if guildID == "" {
		return mo.None[*models.Thread](), fmt.Errorf("guild_id cannot be empty")
	}
	if userID == "" {
		return mo.None[*models.Thread](), fmt.Errorf("user_id cannot be empty")
	}

	maybeThread, err := s.threadsRepo.GetOpenThreadByUser(ctx, guildID, userID)
	if err != nil {
		return mo.None[*models.Thread](), fmt.Errorf("failed to get open thread: %w", err)
	}

	log.Printf("📋 Completed successfully - open thread present: %v", maybeThread.IsPresent())
	return maybeThread, nil
}

func (s *ThreadsService) GetThreadByChannelID(
	ctx context.Context,
	guildID, channelID string,
) (mo.Option[*models.Thread], error) {
	log.Printf("📋 Starting to get thread by channel %s in guild %s", channelID, guildID)

	if guildID == "" {
		return mo.None[*models.Thread](), fmt.Errorf("guild_id cannot be empty")
	}
	if channelID == "" {
		return mo.None[*models.Thread](), fmt.Errorf("channel_id cannot be empty")
	}

	maybeThread, err := s.threadsRepo.GetThreadByChannelID(ctx, guildID, channelID)
	if err != nil {
		return mo.None[*models.Thread](), fmt.Errorf("failed to get thread by channel: %w", err)
	}

	log.Printf("📋 Completed successfully - thread for channel %s present: %v", channelID, maybeThread.IsPresent())
	return maybeThread, nil
}

func (s *ThreadsService) ListThreadsByUser(
	ctx context.Context,
	guildID, userID string,
) ([]*models.Thread, error) {
	log.Printf("📋 Starting to list threads for user %s in guild %s", userID, guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}

	threads, err := s.threadsRepo.ListThreadsByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads by user: %w", err)
	}

	log.Printf("📋 Completed successfully - listed %d threads", len(threads))
	return threads, nil
}

func (s *ThreadsService) ListThreadsByGuild(ctx context.Context, guildID string) ([]*models.Thread, error) {
	log.Printf("📋 Starting to list threads for guild %s", guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}

	threads, err := s.threadsRepo.ListThreadsByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads by guild: %w", err)
	}

	log.Printf("📋 Completed successfully - listed %d threads", len(threads))
	return threads, nil
}

func (s *ThreadsService) DeleteThread(ctx context.Context, threadID string) error {
	log.Printf("📋 Starting to delete thread: %s", threadID)

	if !core.IsValidULID(threadID) {
		return fmt.Errorf("thread ID must be a valid ULID")
	}

	deleted, err := s.threadsRepo.DeleteThread(ctx, threadID)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	if !deleted {
		return fmt.Errorf("thread not found: %s", threadID)
	}

	log.Printf("📋 Completed successfully - deleted thread %s", threadID)
	return nil
}

func (s *ThreadsService) CloseThread(
	ctx context.Context,
	threadID, closedByID string,
) (mo.Option[*models.Thread], error) {
	log.Printf("📋 Starting to close thread %s by %s", threadID, closedByID)

	if !core.IsValidULID(threadID) {
		return mo.None[*models.Thread](), fmt.Errorf("thread ID must be a valid ULID")
	}
	if closedByID == "" {
		return mo.None[*models.Thread](), fmt.Errorf("closed_by_id cannot be empty")
	}

	maybeClosed, err := s.threadsRepo.UpdateThreadClosedBy(ctx, threadID, closedByID)
	if err != nil {
		return mo.None[*models.Thread](), fmt.Errorf("failed to close thread: %w", err)
	}

	log.Printf("📋 Completed successfully - thread %s closed: %v", threadID, maybeClosed.IsPresent())
	return maybeClosed, nil
}
