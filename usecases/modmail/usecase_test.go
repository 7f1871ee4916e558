package modmail

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modmail/clients"
	discordclient "modmail/clients/discord"
	"modmail/core"
	"modmail/i18n"
	"modmail/models"
	"modmail/services/alerts"
	"modmail/services/guildsettings"
	"modmail/services/snippets"
	"modmail/services/threads"
	"modmail/testutils"
)

type openerFixture struct {
	gateway     *discordclient.MockMessagingGateway
	threadsSvc  *threads.MockThreadsService
	settingsSvc *guildsettings.MockGuildSettingsService
	alertsSvc   *alerts.MockAlertsService
	snippetsSvc *snippets.MockSnippetsService
	opener      *ThreadOpenerUseCase
}

func newOpenerFixture() *openerFixture {
	translator := i18n.NewCatalogTranslator()
	gateway := new(discordclient.MockMessagingGateway)
	threadsSvc := new(threads.MockThreadsService)
	settingsSvc := new(guildsettings.MockGuildSettingsService)
	alertsSvc := new(alerts.MockAlertsService)
	snippetsSvc := new(snippets.MockSnippetsService)

	opener := NewThreadOpenerUseCase(
		gateway,
		threadsSvc,
		settingsSvc,
		alertsSvc,
		translator,
		NewTagSelector(gateway, translator),
		NewDeflector(snippetsSvc, gateway, translator, ""),
	)

	return &openerFixture{
		gateway:     gateway,
		threadsSvc:  threadsSvc,
		settingsSvc: settingsSvc,
		alertsSvc:   alertsSvc,
		snippetsSvc: snippetsSvc,
		opener:      opener,
	}
}

func commandRequest() *models.CommandOpenRequest {
	return &models.CommandOpenRequest{
		GuildID:      "g1",
		ActorID:      "actor-1",
		TargetUserID: "user-1",
		ChannelID:    "cmd-chan",
	}
}

func messageRequest(content string) *models.MessageOpenRequest {
	return &models.MessageOpenRequest{
		GuildID:     "g1",
		UserID:      "user-1",
		DMChannelID: "dm-chan",
		MessageID:   "dm-msg-1",
		Content:     content,
	}
}

const failedReply = "Something went wrong while opening your thread. Please try again later."

func TestThreadOpenerUseCase_OpenFromCommand(t *testing.T) {
	t.Run("no destination configured creates nothing", func(t *testing.T) {
		f := newOpenerFixture()
		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.None[*models.GuildSettings](), nil)
		f.gateway.On("SendMessage", mock.Anything, "cmd-chan", failedReply).
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		_, err := f.opener.OpenFromCommand(context.Background(), commandRequest())

		assert.ErrorIs(t, err, ErrNoDestination)
		f.threadsSvc.AssertNotCalled(t, "CreateThread",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("vanished destination channel creates nothing", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.None[*clients.GatewayChannel](), nil)
		f.gateway.On("SendMessage", mock.Anything, "cmd-chan", failedReply).
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		_, err := f.opener.OpenFromCommand(context.Background(), commandRequest())

		assert.ErrorIs(t, err, ErrNoDestination)
	})

	t.Run("target outside the guild is rejected", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestTextChannel("g1")
		channel.ID = "dest-chan"
		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(nil, fmt.Errorf("member lookup: %w", core.ErrNotFound))
		f.gateway.On("SendMessage", mock.Anything, "cmd-chan",
			"You need to be a member of the server to contact the staff team.").
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		_, err := f.opener.OpenFromCommand(context.Background(), commandRequest())

		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("existing open thread with a live channel is reused", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestTextChannel("g1")
		channel.ID = "dest-chan"
		existing := testutils.NewTestThread("g1", "user-1")

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(testutils.NewTestMember("user-1"), nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.Some(existing), nil)
		f.gateway.On("GetChannel", mock.Anything, existing.ChannelID).
			Return(mo.Some(&clients.GatewayChannel{ID: existing.ChannelID, Kind: clients.ChannelKindThread}), nil)
		f.gateway.On("SendMessage", mock.Anything, "cmd-chan", "A thread for <@user-1> is already open.").
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		result, err := f.opener.OpenFromCommand(context.Background(), commandRequest())

		require.NoError(t, err)
		assert.Equal(t, models.CommandOpenOutcomeAlreadyExists, result.Outcome)
		assert.Equal(t, existing.ID, result.Thread.ID)
		f.threadsSvc.AssertNotCalled(t, "CreateThread",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("text destination opens a message thread", func(t *testing.T) {
		f := newOpenerFixture()
		alertRole := "role-1"
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		settings.AlertRoleID = &alertRole
		channel := testutils.NewTestTextChannel("g1")
		channel.ID = "dest-chan"
		member := testutils.NewTestMember("user-1")
		created := &models.ThreadCreationResult{
			Thread: testutils.NewTestThread("g1", "user-1"),
			Status: models.ThreadCreationStatusCreated,
		}

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(member, nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.None[*models.Thread](), nil)
		f.threadsSvc.On("ListThreadsByUser", mock.Anything, "g1", "user-1").
			Return([]*models.Thread{}, nil)
		f.gateway.On("GetGuildRoles", mock.Anything, "g1").
			Return([]clients.GuildRole{}, nil)
		f.gateway.On("SendEmbed", mock.Anything, "dest-chan", "<@&role-1>", mock.Anything).
			Return(&clients.SentMessage{ID: "anchor-1", ChannelID: "dest-chan"}, nil)
		f.gateway.On("CreateMessageThread", mock.Anything, "dest-chan", "anchor-1", member.Handle()).
			Return(&clients.CreatedThread{ThreadID: "tc-1", ParentChannelID: "dest-chan"}, nil)
		f.threadsSvc.On("CreateThread", mock.Anything, "g1", "tc-1", "user-1", "actor-1").
			Return(created, nil)
		f.gateway.On("SendMessage", mock.Anything, "cmd-chan", "Opened a thread for <@user-1>.").
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		result, err := f.opener.OpenFromCommand(context.Background(), commandRequest())

		require.NoError(t, err)
		assert.Equal(t, models.CommandOpenOutcomeCreated, result.Outcome)
		// The alert role short-circuits individual subscribers
		f.alertsSvc.AssertNotCalled(t, "ListAlertSubscribersByGuild", mock.Anything, mock.Anything)
		f.gateway.AssertExpectations(t)
	})

	t.Run("lost insert race resolves to the surviving record", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestTextChannel("g1")
		channel.ID = "dest-chan"
		survivor := testutils.NewTestThread("g1", "user-1")

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(testutils.NewTestMember("user-1"), nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.None[*models.Thread](), nil)
		f.threadsSvc.On("ListThreadsByUser", mock.Anything, "g1", "user-1").
			Return([]*models.Thread{}, nil)
		f.gateway.On("GetGuildRoles", mock.Anything, "g1").
			Return([]clients.GuildRole{}, nil)
		f.alertsSvc.On("ListAlertSubscribersByGuild", mock.Anything, "g1").
			Return([]*models.ThreadOpenAlert{}, nil)
		f.gateway.On("SendEmbed", mock.Anything, "dest-chan", "", mock.Anything).
			Return(&clients.SentMessage{ID: "anchor-1", ChannelID: "dest-chan"}, nil)
		f.gateway.On("CreateMessageThread", mock.Anything, "dest-chan", "anchor-1", mock.Anything).
			Return(&clients.CreatedThread{ThreadID: "tc-1", ParentChannelID: "dest-chan"}, nil)
		f.threadsSvc.On("CreateThread", mock.Anything, "g1", "tc-1", "user-1", "actor-1").
			Return(&models.ThreadCreationResult{
				Thread: survivor,
				Status: models.ThreadCreationStatusExisting,
			}, nil)
		f.gateway.On("SendMessage", mock.Anything, "cmd-chan", "A thread for <@user-1> is already open.").
			Return(&clients.SentMessage{ID: "m1", ChannelID: "cmd-chan"}, nil)

		result, err := f.opener.OpenFromCommand(context.Background(), commandRequest())

		require.NoError(t, err)
		assert.Equal(t, models.CommandOpenOutcomeAlreadyExists, result.Outcome)
		assert.Equal(t, survivor.ID, result.Thread.ID)
	})

	t.Run("rejects an empty guild id", func(t *testing.T) {
		f := newOpenerFixture()
		req := commandRequest()
		req.GuildID = ""

		_, err := f.opener.OpenFromCommand(context.Background(), req)

		assert.Error(t, err)
	})
}

func TestThreadOpenerUseCase_OpenFromMessage(t *testing.T) {
	forumTags := []models.RoutingTag{
		{ID: "tag-gen", Name: "General", Moderated: false},
		{ID: "tag-int", Name: "Internal", Moderated: true},
	}

	t.Run("existing open thread is reused without a prompt", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestForumChannel("g1", forumTags...)
		channel.ID = "dest-chan"
		existing := testutils.NewTestThread("g1", "user-1")

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(testutils.NewTestMember("user-1"), nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.Some(existing), nil)
		f.gateway.On("GetChannel", mock.Anything, existing.ChannelID).
			Return(mo.Some(&clients.GatewayChannel{ID: existing.ChannelID, Kind: clients.ChannelKindThread}), nil)

		result, err := f.opener.OpenFromMessage(context.Background(), messageRequest("hello again"))

		require.NoError(t, err)
		assert.Equal(t, models.MessageOpenOutcomeReused, result.Outcome)
		assert.Equal(t, existing.ID, result.Thread.ID)
		f.gateway.AssertNotCalled(t, "SendSelectPrompt",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale record is repaired then a fresh thread is created", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestForumChannel("g1", forumTags...)
		channel.ID = "dest-chan"
		member := testutils.NewTestMember("user-1")
		stale := testutils.NewTestThread("g1", "user-1")
		prompt := &clients.SelectPrompt{MessageID: "p1", ChannelID: "dm-chan", CustomID: "sel_1"}
		created := &models.ThreadCreationResult{
			Thread: testutils.NewTestThread("g1", "user-1"),
			Status: models.ThreadCreationStatusCreated,
		}

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(member, nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.Some(stale), nil)
		f.gateway.On("GetChannel", mock.Anything, stale.ChannelID).
			Return(mo.None[*clients.GatewayChannel](), nil)
		f.threadsSvc.On("DeleteThread", mock.Anything, stale.ID).Return(nil)
		f.threadsSvc.On("ListThreadsByUser", mock.Anything, "g1", "user-1").
			Return([]*models.Thread{}, nil)

		// Only the non-moderated tag is offered
		f.gateway.On("SendSelectPrompt", mock.Anything, "dm-chan", mock.Anything,
			[]clients.SelectOption{{Value: "tag-gen", Label: "General"}}).
			Return(prompt, nil)
		f.gateway.On("AwaitSelection", mock.Anything, prompt, mock.Anything).
			Return(mo.Some("tag-gen"), nil)
		f.gateway.On("DeleteMessage", mock.Anything, "dm-chan", "p1").Return(nil)

		f.snippetsSvc.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{}, nil)
		f.gateway.On("GetGuildRoles", mock.Anything, "g1").
			Return([]clients.GuildRole{}, nil)
		f.alertsSvc.On("ListAlertSubscribersByGuild", mock.Anything, "g1").
			Return([]*models.ThreadOpenAlert{{ID: "al_1", GuildID: "g1", UserID: "staff-1"}}, nil)

		f.gateway.On("CreateForumThread", mock.Anything, "dest-chan", "Hi I need help", "<@staff-1>",
			mock.MatchedBy(func(embed *clients.Embed) bool {
				return embed.Fields[3].Value == "0"
			}),
			[]string{"tag-gen"}).
			Return(&clients.CreatedThread{ThreadID: "tc-1", ParentChannelID: "dest-chan"}, nil)
		f.threadsSvc.On("CreateThread", mock.Anything, "g1", "tc-1", "user-1", "user-1").
			Return(created, nil)

		result, err := f.opener.OpenFromMessage(context.Background(), messageRequest("Hi I need help"))

		require.NoError(t, err)
		assert.Equal(t, models.MessageOpenOutcomeCreated, result.Outcome)
		f.threadsSvc.AssertCalled(t, "DeleteThread", mock.Anything, stale.ID)
		f.gateway.AssertExpectations(t)
	})

	t.Run("lapsed tag prompt aborts the open", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestForumChannel("g1", forumTags...)
		channel.ID = "dest-chan"
		prompt := &clients.SelectPrompt{MessageID: "p1", ChannelID: "dm-chan", CustomID: "sel_1"}

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(testutils.NewTestMember("user-1"), nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.None[*models.Thread](), nil)
		f.threadsSvc.On("ListThreadsByUser", mock.Anything, "g1", "user-1").
			Return([]*models.Thread{}, nil)
		f.gateway.On("SendSelectPrompt", mock.Anything, "dm-chan", mock.Anything, mock.Anything).
			Return(prompt, nil)
		f.gateway.On("AwaitSelection", mock.Anything, prompt, mock.Anything).
			Return(mo.None[string](), nil)
		f.gateway.On("DisableSelectPrompt", mock.Anything, prompt, mock.Anything).Return(nil)
		f.gateway.On("SendMessage", mock.Anything, "dm-chan",
			"No category was chosen, so your message was not sent. Please send it again.").
			Return(&clients.SentMessage{ID: "m1", ChannelID: "dm-chan"}, nil)

		_, err := f.opener.OpenFromMessage(context.Background(), messageRequest("help"))

		assert.ErrorIs(t, err, ErrNoTagSelected)
		f.threadsSvc.AssertNotCalled(t, "CreateThread",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("matching snippet deflects without a record", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestForumChannel("g1",
			models.RoutingTag{ID: "tag-bil", Name: "Billing Issue", Moderated: false})
		channel.ID = "dest-chan"
		prompt := &clients.SelectPrompt{MessageID: "p1", ChannelID: "dm-chan", CustomID: "sel_1"}

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(testutils.NewTestMember("user-1"), nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.None[*models.Thread](), nil)
		f.threadsSvc.On("ListThreadsByUser", mock.Anything, "g1", "user-1").
			Return([]*models.Thread{}, nil)
		f.gateway.On("SendSelectPrompt", mock.Anything, "dm-chan", mock.Anything, mock.Anything).
			Return(prompt, nil)
		f.gateway.On("AwaitSelection", mock.Anything, prompt, mock.Anything).
			Return(mo.Some("tag-bil"), nil)
		f.gateway.On("DeleteMessage", mock.Anything, "dm-chan", "p1").Return(nil)
		f.snippetsSvc.On("ListSnippetsByGuild", mock.Anything, "g1").
			Return([]*models.Snippet{
				testutils.NewTestSnippet("g1", "billing-issue", "See the billing FAQ."),
			}, nil)
		f.gateway.On("SendEmbed", mock.Anything, "dm-chan", "",
			&clients.Embed{Description: "See the billing FAQ."}).
			Return(&clients.SentMessage{ID: "m1", ChannelID: "dm-chan"}, nil)

		result, err := f.opener.OpenFromMessage(context.Background(), messageRequest("billing question"))

		require.NoError(t, err)
		assert.Equal(t, models.MessageOpenOutcomeDeflected, result.Outcome)
		assert.Nil(t, result.Thread)
		f.threadsSvc.AssertNotCalled(t, "CreateThread",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forum destination without eligible tags skips the prompt", func(t *testing.T) {
		f := newOpenerFixture()
		settings := testutils.NewTestGuildSettings("g1", "dest-chan")
		channel := testutils.NewTestForumChannel("g1",
			models.RoutingTag{ID: "tag-int", Name: "Internal", Moderated: true})
		channel.ID = "dest-chan"
		created := &models.ThreadCreationResult{
			Thread: testutils.NewTestThread("g1", "user-1"),
			Status: models.ThreadCreationStatusCreated,
		}

		f.settingsSvc.On("GetGuildSettings", mock.Anything, "g1").
			Return(mo.Some(settings), nil)
		f.gateway.On("GetChannel", mock.Anything, "dest-chan").
			Return(mo.Some(channel), nil)
		f.gateway.On("GetGuildMember", mock.Anything, "g1", "user-1").
			Return(testutils.NewTestMember("user-1"), nil)
		f.threadsSvc.On("GetOpenThread", mock.Anything, "g1", "user-1").
			Return(mo.None[*models.Thread](), nil)
		f.threadsSvc.On("ListThreadsByUser", mock.Anything, "g1", "user-1").
			Return([]*models.Thread{}, nil)
		f.gateway.On("GetGuildRoles", mock.Anything, "g1").
			Return([]clients.GuildRole{}, nil)
		f.alertsSvc.On("ListAlertSubscribersByGuild", mock.Anything, "g1").
			Return([]*models.ThreadOpenAlert{}, nil)
		f.gateway.On("CreateForumThread", mock.Anything, "dest-chan", "help please", "",
			mock.Anything, []string(nil)).
			Return(&clients.CreatedThread{ThreadID: "tc-1", ParentChannelID: "dest-chan"}, nil)
		f.threadsSvc.On("CreateThread", mock.Anything, "g1", "tc-1", "user-1", "user-1").
			Return(created, nil)

		result, err := f.opener.OpenFromMessage(context.Background(), messageRequest("help please"))

		require.NoError(t, err)
		assert.Equal(t, models.MessageOpenOutcomeCreated, result.Outcome)
		f.gateway.AssertNotCalled(t, "SendSelectPrompt",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
