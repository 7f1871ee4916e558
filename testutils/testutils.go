package testutils

import (
	"time"

	"github.com/google/uuid"

	"modmail/clients"
	"modmail/core"
	"modmail/models"
)

// NewTestID returns a unique opaque platform id for tests.
func NewTestID() string {
	return uuid.New().String()
}

// NewTestThread builds an open thread record with unique ids.
func NewTestThread(guildID, userID string) *models.Thread {
	now := time.Now()
	return &models.Thread{
		ID:          core.NewID("th"),
		GuildID:     guildID,
		ChannelID:   NewTestID(),
		UserID:      userID,
		CreatedByID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestGuildSettings builds settings pointing at the given destination channel.
func NewTestGuildSettings(guildID, modmailChannelID string) *models.GuildSettings {
	now := time.Now()
	return &models.GuildSettings{
		GuildID:          guildID,
		ModmailChannelID: &modmailChannelID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewTestSnippet builds a snippet record.
func NewTestSnippet(guildID, name, content string) *models.Snippet {
	now := time.Now()
	return &models.Snippet{
		ID:        core.NewID("sn"),
		GuildID:   guildID,
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestMember builds a guild member that joined a month ago.
func NewTestMember(userID string) *clients.GuildMember {
	return &clients.GuildMember{
		UserID:           userID,
		Username:         "testuser",
		DisplayName:      "Test User",
		JoinedAt:         time.Now().Add(-30 * 24 * time.Hour),
		AccountCreatedAt: time.Now().Add(-365 * 24 * time.Hour),
	}
}

// NewTestForumChannel builds a tag-capable destination channel.
func NewTestForumChannel(guildID string, tags ...models.RoutingTag) *clients.GatewayChannel {
	return &clients.GatewayChannel{
		ID:            NewTestID(),
		GuildID:       guildID,
		Name:          "support",
		Kind:          clients.ChannelKindForum,
		AvailableTags: tags,
	}
}

// NewTestTextChannel builds a plain text destination channel.
func NewTestTextChannel(guildID string) *clients.GatewayChannel {
	return &clients.GatewayChannel{
		ID:      NewTestID(),
		GuildID: guildID,
		Name:    "modmail",
		Kind:    clients.ChannelKindText,
	}
}
