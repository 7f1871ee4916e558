package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modmail/clients"
	"modmail/models"
)

func TestMapChannelKind(t *testing.T) {
	assert.Equal(t, clients.ChannelKindForum, mapChannelKind(discordgo.ChannelTypeGuildForum))
	assert.Equal(t, clients.ChannelKindDM, mapChannelKind(discordgo.ChannelTypeDM))
	assert.Equal(t, clients.ChannelKindThread, mapChannelKind(discordgo.ChannelTypeGuildPublicThread))
	assert.Equal(t, clients.ChannelKindThread, mapChannelKind(discordgo.ChannelTypeGuildPrivateThread))
	assert.Equal(t, clients.ChannelKindText, mapChannelKind(discordgo.ChannelTypeGuildText))
}

func TestMapChannel(t *testing.T) {
	channel := mapChannel(&discordgo.Channel{
		ID:      "c1",
		GuildID: "g1",
		Name:    "support",
		Type:    discordgo.ChannelTypeGuildForum,
		AvailableTags: []discordgo.ForumTag{
			{ID: "t1", Name: "General", EmojiName: "📬", Moderated: false},
			{ID: "t2", Name: "Internal", Moderated: true},
		},
	})

	assert.Equal(t, "c1", channel.ID)
	assert.True(t, channel.TagCapable())
	assert.Equal(t, []models.RoutingTag{
		{ID: "t1", Name: "General", Emoji: "📬", Moderated: false},
		{ID: "t2", Name: "Internal", Moderated: true},
	}, channel.AvailableTags)
}

func TestMapEmbed(t *testing.T) {
	t.Run("nil embed maps to nil", func(t *testing.T) {
		assert.Nil(t, mapEmbed(nil))
	})

	t.Run("fields are carried over", func(t *testing.T) {
		embed := mapEmbed(&clients.Embed{
			Title:       "Test User",
			Description: "desc",
			Color:       0x5865F2,
			Fields: []clients.EmbedField{
				{Name: "Past threads", Value: "2", Inline: true},
			},
		})

		require.NotNil(t, embed)
		assert.Equal(t, "Test User", embed.Title)
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "Past threads", embed.Fields[0].Name)
		assert.True(t, embed.Fields[0].Inline)
	})
}

func TestIsUnknownChannelError(t *testing.T) {
	unknownChannel := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel},
	}
	assert.True(t, isUnknownChannelError(unknownChannel))

	otherCode := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingAccess},
	}
	assert.False(t, isUnknownChannelError(otherCode))
	assert.False(t, isUnknownChannelError(errors.New("plain error")))
}

func TestIsUnknownMemberError(t *testing.T) {
	unknownMember := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
	}
	unknownUser := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownUser},
	}
	assert.True(t, isUnknownMemberError(unknownMember))
	assert.True(t, isUnknownMemberError(unknownUser))
	assert.False(t, isUnknownMemberError(errors.New("plain error")))
}

func TestAwaitSelection(t *testing.T) {
	newGateway := func() *DiscordGateway {
		return &DiscordGateway{pendingSelections: make(map[string]chan string)}
	}

	t.Run("returns a delivered value", func(t *testing.T) {
		gateway := newGateway()
		ch := make(chan string, 1)
		gateway.pendingSelections["sel_1"] = ch
		ch <- "tag-1"

		prompt := &clients.SelectPrompt{MessageID: "m1", ChannelID: "c1", CustomID: "sel_1", PostedAt: time.Now()}
		maybeValue, err := gateway.AwaitSelection(context.Background(), prompt, time.Now().Add(time.Second))

		require.NoError(t, err)
		require.True(t, maybeValue.IsPresent())
		assert.Equal(t, "tag-1", maybeValue.MustGet())
	})

	t.Run("deadline elapses to none", func(t *testing.T) {
		gateway := newGateway()
		gateway.pendingSelections["sel_1"] = make(chan string, 1)

		prompt := &clients.SelectPrompt{MessageID: "m1", ChannelID: "c1", CustomID: "sel_1", PostedAt: time.Now()}
		maybeValue, err := gateway.AwaitSelection(context.Background(), prompt, time.Now().Add(10*time.Millisecond))

		require.NoError(t, err)
		assert.False(t, maybeValue.IsPresent())
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		gateway := newGateway()
		gateway.pendingSelections["sel_1"] = make(chan string, 1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		prompt := &clients.SelectPrompt{MessageID: "m1", ChannelID: "c1", CustomID: "sel_1", PostedAt: time.Now()}
		_, err := gateway.AwaitSelection(ctx, prompt, time.Now().Add(time.Second))

		assert.Error(t, err)
	})

	t.Run("unknown prompt is an error", func(t *testing.T) {
		gateway := newGateway()

		prompt := &clients.SelectPrompt{MessageID: "m1", ChannelID: "c1", CustomID: "sel_x", PostedAt: time.Now()}
		_, err := gateway.AwaitSelection(context.Background(), prompt, time.Now().Add(time.Second))

		assert.Error(t, err)
	})

	t.Run("resolved prompt is deregistered", func(t *testing.T) {
		gateway := newGateway()
		ch := make(chan string, 1)
		gateway.pendingSelections["sel_1"] = ch
		ch <- "tag-1"

		prompt := &clients.SelectPrompt{MessageID: "m1", ChannelID: "c1", CustomID: "sel_1", PostedAt: time.Now()}
		_, err := gateway.AwaitSelection(context.Background(), prompt, time.Now().Add(time.Second))
		require.NoError(t, err)

		gateway.mu.Lock()
		defer gateway.mu.Unlock()
		assert.Empty(t, gateway.pendingSelections)
	})
}
