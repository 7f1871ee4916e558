package services

import (
	"context"

	"github.com/samber/mo"

	"modmail/models"
)

// ThreadsService defines the interface for thread record operations
type ThreadsService interface {
	// CreateThread creates a new open thread record for the user, unless an
	// open thread appeared concurrently, in which case the existing record is
	// returned with ThreadCreationStatusExisting.
	CreateThread(
		ctx context.Context,
		guildID, channelID, userID, createdByID string,
	) (*models.ThreadCreationResult, error)
	GetOpenThread(ctx context.Context, guildID, userID string) (mo.Option[*models.Thread], error)
	GetThreadByChannelID(ctx context.Context, guildID, channelID string) (mo.Option[*models.Thread], error)
	ListThreadsByUser(ctx context.Context, guildID, userID string) ([]*models.Thread, error)
	ListThreadsByGuild(ctx context.Context, guildID string) ([]*models.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	CloseThread(ctx context.Context, threadID, closedByID string) (mo.Option[*models.Thread], error)
}

// GuildSettingsService defines the interface for per-guild configuration
type GuildSettingsService interface {
	GetGuildSettings(ctx context.Context, guildID string) (mo.Option[*models.GuildSettings], error)
	UpsertGuildSettings(
		ctx context.Context,
		guildID string,
		modmailChannelID, alertRoleID *string,
	) (*models.GuildSettings, error)
}

// SnippetsService defines the interface for canned response operations
type SnippetsService interface {
	ListSnippetsByGuild(ctx context.Context, guildID string) ([]*models.Snippet, error)
	GetSnippetByName(ctx context.Context, guildID, name string) (mo.Option[*models.Snippet], error)
	UpsertSnippet(ctx context.Context, guildID, name, content string) (*models.Snippet, error)
	DeleteSnippetByName(ctx context.Context, guildID, name string) error
}

// AlertsService defines the interface for thread-open alert subscriptions
type AlertsService interface {
	ListAlertSubscribersByGuild(ctx context.Context, guildID string) ([]*models.ThreadOpenAlert, error)
	UpsertAlertSubscription(ctx context.Context, guildID, userID string) (*models.ThreadOpenAlert, error)
	DeleteAlertSubscription(ctx context.Context, guildID, userID string) error
}

// TransactionManager defines the interface for database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
