package modmail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modmail/clients"
	discordclient "modmail/clients/discord"
	"modmail/i18n"
	"modmail/models"
)

func TestTagSelector(t *testing.T) {
	translator := i18n.NewCatalogTranslator()
	tags := []models.RoutingTag{
		{ID: "1", Name: "General"},
		{ID: "2", Name: "Billing"},
	}

	newPrompt := func() *clients.SelectPrompt {
		return &clients.SelectPrompt{
			MessageID: "msg-1",
			ChannelID: "chan-1",
			CustomID:  "sel_1",
			PostedAt:  time.Now(),
		}
	}

	t.Run("returns the selected tag and removes the prompt", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		selector := NewTagSelector(mockGateway, translator)
		prompt := newPrompt()

		mockGateway.On("SendSelectPrompt", mock.Anything, "chan-1", mock.Anything, []clients.SelectOption{
			{Value: "1", Label: "General"},
			{Value: "2", Label: "Billing"},
		}).Return(prompt, nil)
		mockGateway.On("AwaitSelection", mock.Anything, prompt, prompt.PostedAt.Add(30*time.Second)).
			Return(mo.Some("2"), nil)
		mockGateway.On("DeleteMessage", mock.Anything, "chan-1", "msg-1").Return(nil)

		maybeTag, err := selector.SelectTag(context.Background(), "chan-1", "", tags)

		require.NoError(t, err)
		require.True(t, maybeTag.IsPresent())
		assert.Equal(t, "Billing", maybeTag.MustGet().Name)
		mockGateway.AssertExpectations(t)
	})

	t.Run("timeout disables the prompt and returns none", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		selector := NewTagSelector(mockGateway, translator)
		prompt := newPrompt()

		mockGateway.On("SendSelectPrompt", mock.Anything, "chan-1", mock.Anything, mock.Anything).
			Return(prompt, nil)
		mockGateway.On("AwaitSelection", mock.Anything, prompt, mock.Anything).
			Return(mo.None[string](), nil)
		mockGateway.On("DisableSelectPrompt", mock.Anything, prompt,
			"Category selection timed out. Please send your message again.").Return(nil)

		maybeTag, err := selector.SelectTag(context.Background(), "chan-1", "", tags)

		require.NoError(t, err)
		assert.False(t, maybeTag.IsPresent())
		mockGateway.AssertExpectations(t)
	})

	t.Run("failure to delete the answered prompt is swallowed", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		selector := NewTagSelector(mockGateway, translator)
		prompt := newPrompt()

		mockGateway.On("SendSelectPrompt", mock.Anything, "chan-1", mock.Anything, mock.Anything).
			Return(prompt, nil)
		mockGateway.On("AwaitSelection", mock.Anything, prompt, mock.Anything).
			Return(mo.Some("1"), nil)
		mockGateway.On("DeleteMessage", mock.Anything, "chan-1", "msg-1").
			Return(errors.New("permission denied"))

		maybeTag, err := selector.SelectTag(context.Background(), "chan-1", "", tags)

		require.NoError(t, err)
		require.True(t, maybeTag.IsPresent())
		assert.Equal(t, "General", maybeTag.MustGet().Name)
	})

	t.Run("unknown selection value yields none", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		selector := NewTagSelector(mockGateway, translator)
		prompt := newPrompt()

		mockGateway.On("SendSelectPrompt", mock.Anything, "chan-1", mock.Anything, mock.Anything).
			Return(prompt, nil)
		mockGateway.On("AwaitSelection", mock.Anything, prompt, mock.Anything).
			Return(mo.Some("unknown"), nil)
		mockGateway.On("DeleteMessage", mock.Anything, "chan-1", "msg-1").Return(nil)

		maybeTag, err := selector.SelectTag(context.Background(), "chan-1", "", tags)

		require.NoError(t, err)
		assert.False(t, maybeTag.IsPresent())
	})

	t.Run("prompt send failure is an error", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		selector := NewTagSelector(mockGateway, translator)

		mockGateway.On("SendSelectPrompt", mock.Anything, "chan-1", mock.Anything, mock.Anything).
			Return(nil, errors.New("api unavailable"))

		_, err := selector.SelectTag(context.Background(), "chan-1", "", tags)

		assert.Error(t, err)
	})
}
