package modmail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modmail/clients"
	discordclient "modmail/clients/discord"
	"modmail/i18n"
	"modmail/models"
	"modmail/services/snippets"
	"modmail/testutils"
)

func TestDeflector(t *testing.T) {
	translator := i18n.NewCatalogTranslator()
	billingTag := models.RoutingTag{ID: "1", Name: "Billing Issue"}

	newRequester := func(gateway clients.MessagingGateway) *commandRequester {
		return &commandRequester{
			req: &models.CommandOpenRequest{
				GuildID:      "g1",
				ActorID:      "actor-1",
				TargetUserID: "user-1",
				ChannelID:    "cmd-chan",
			},
			gateway: gateway,
		}
	}

	t.Run("matching snippet deflects and logs", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		mockSnippets := new(snippets.MockSnippetsService)
		deflector := NewDeflector(mockSnippets, mockGateway, translator, "log-chan")

		snippet := testutils.NewTestSnippet("g1", "billing-issue", "Please check the billing FAQ first.")
		mockSnippets.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{snippet}, nil)
		mockGateway.On("SendEmbed", mock.Anything, "cmd-chan", "",
			&clients.Embed{Description: "Please check the billing FAQ first."}).
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)
		mockGateway.On("SendEmbed", mock.Anything, "log-chan", "", mock.Anything).
			Return(&clients.SentMessage{ID: "m2", ChannelID: "log-chan"}, nil)

		deflected, err := deflector.Deflect(context.Background(), newRequester(mockGateway), billingTag)

		require.NoError(t, err)
		assert.True(t, deflected)
		mockGateway.AssertExpectations(t)
	})

	t.Run("log post failure does not undo the deflection", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		mockSnippets := new(snippets.MockSnippetsService)
		deflector := NewDeflector(mockSnippets, mockGateway, translator, "log-chan")

		snippet := testutils.NewTestSnippet("g1", "billing-issue", "FAQ link")
		mockSnippets.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{snippet}, nil)
		mockGateway.On("SendEmbed", mock.Anything, "cmd-chan", "", mock.Anything).
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)
		mockGateway.On("SendEmbed", mock.Anything, "log-chan", "", mock.Anything).
			Return(nil, errors.New("channel gone"))

		deflected, err := deflector.Deflect(context.Background(), newRequester(mockGateway), billingTag)

		require.NoError(t, err)
		assert.True(t, deflected)
	})

	t.Run("without a log channel only the reply is sent", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		mockSnippets := new(snippets.MockSnippetsService)
		deflector := NewDeflector(mockSnippets, mockGateway, translator, "")

		snippet := testutils.NewTestSnippet("g1", "billing-issue", "FAQ link")
		mockSnippets.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{snippet}, nil)
		mockGateway.On("SendEmbed", mock.Anything, "cmd-chan", "", mock.Anything).
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		deflected, err := deflector.Deflect(context.Background(), newRequester(mockGateway), billingTag)

		require.NoError(t, err)
		assert.True(t, deflected)
		mockGateway.AssertNumberOfCalls(t, "SendEmbed", 1)
	})

	t.Run("no matching snippet does not deflect", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		mockSnippets := new(snippets.MockSnippetsService)
		deflector := NewDeflector(mockSnippets, mockGateway, translator, "log-chan")

		snippet := testutils.NewTestSnippet("g1", "refund", "Refund policy")
		mockSnippets.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{snippet}, nil)

		deflected, err := deflector.Deflect(context.Background(), newRequester(mockGateway), billingTag)

		require.NoError(t, err)
		assert.False(t, deflected)
		mockGateway.AssertNotCalled(t, "SendEmbed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero snippets never deflects", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		mockSnippets := new(snippets.MockSnippetsService)
		deflector := NewDeflector(mockSnippets, mockGateway, translator, "log-chan")

		mockSnippets.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{}, nil)

		deflected, err := deflector.Deflect(context.Background(), newRequester(mockGateway), billingTag)

		require.NoError(t, err)
		assert.False(t, deflected)
	})

	t.Run("snippet list failure is an error", func(t *testing.T) {
		mockGateway := new(discordclient.MockMessagingGateway)
		mockSnippets := new(snippets.MockSnippetsService)
		deflector := NewDeflector(mockSnippets, mockGateway, translator, "log-chan")

		mockSnippets.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return(nil, errors.New("db down"))

		_, err := deflector.Deflect(context.Background(), newRequester(mockGateway), billingTag)

		assert.Error(t, err)
	})
}
