package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modmail/clients"
	"modmail/core"
	"modmail/i18n"
	"modmail/models"
	"modmail/services"
	"modmail/usecases/modmail"
)

type DiscordEventsHandler struct {
	discordSDKClient     *discordgo.Session
	gateway              clients.MessagingGateway
	threadOpener         *modmail.ThreadOpenerUseCase
	threadsService       services.ThreadsService
	snippetsService      services.SnippetsService
	alertsService        services.AlertsService
	guildSettingsService services.GuildSettingsService
	translator           i18n.Translator
	guildID              string
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	gateway clients.MessagingGateway,
	threadOpener *modmail.ThreadOpenerUseCase,
	threadsService services.ThreadsService,
	snippetsService services.SnippetsService,
	alertsService services.AlertsService,
	guildSettingsService services.GuildSettingsService,
	translator i18n.Translator,
	guildID string,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient:     session,
		gateway:              gateway,
		threadOpener:         threadOpener,
		threadsService:       threadsService,
		snippetsService:      snippetsService,
		alertsService:        alertsService,
		guildSettingsService: guildSettingsService,
		translator:           translator,
		guildID:              guildID,
	}

	// Register event handlers
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleInteractionCreatedEvent)

	// Set intents to receive guild messages, direct messages and their content
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return handler
}

// StartBot opens the Discord connection and registers the slash commands
func (h *DiscordEventsHandler) StartBot() error {
	// Open a websocket connection to Discord and begin listening
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	_, err := h.discordSDKClient.ApplicationCommandBulkOverwrite(
		h.discordSDKClient.State.User.ID, h.guildID, applicationCommands)
	if err != nil {
		return fmt.Errorf("failed to register application commands: %w", err)
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
}

var applicationCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "thread",
		Description: "Manage support threads",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "open",
				Description: "Open a thread for a user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "User to open the thread for",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "close",
				Description: "Close the thread in this channel",
			},
		},
	},
	{
		Name:        "snippet",
		Description: "Manage canned responses",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Create or update a snippet",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Snippet name",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "Snippet content",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Delete a snippet",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Snippet name",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List the guild's snippets",
			},
		},
	},
	{
		Name:        "alerts",
		Description: "Manage thread-open alert subscriptions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "subscribe",
				Description: "Get mentioned when a new thread opens",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unsubscribe",
				Description: "Stop getting mentioned when a new thread opens",
			},
		},
	},
	{
		Name:        "settings",
		Description: "Configure the modmail destination",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "channel",
				Description: "Set the channel new threads are created under",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "channel",
						Description: "Destination channel",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "alertrole",
				Description: "Set the role mentioned when a new thread opens",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Alert role",
						Required:    true,
					},
				},
			},
		},
	},
}

// handleMessageCreatedEvent handles incoming Discord messages. Direct messages
// to the bot feed the thread-opening flow; everything else is ignored.
func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Guild messages are not modmail input
	if m.GuildID != "" {
		return
	}
	if strings.TrimSpace(m.Content) == "" {
		return
	}

	log.Printf("📨 Direct message received from %s in channel %s", m.Author.Username, m.ChannelID)

	ctx := context.Background()
	result, err := h.threadOpener.OpenFromMessage(ctx, &models.MessageOpenRequest{
		GuildID:     h.guildID,
		UserID:      m.Author.ID,
		DMChannelID: m.ChannelID,
		MessageID:   m.ID,
		Content:     m.Content,
	})
	if err != nil {
		if errors.Is(err, modmail.ErrNoTagSelected) || errors.Is(err, modmail.ErrNotAMember) {
			// The requester was already told what happened
			log.Printf("⚠️ Message open ended without a thread: %v", err)
			return
		}
		log.Printf("❌ Failed to open thread from message by %s: %v", m.Author.ID, err)
		return
	}
	if result.Outcome == models.MessageOpenOutcomeDeflected {
		return
	}

	// Relay the triggering message into the thread and confirm delivery
	relay := fmt.Sprintf("**%s**: %s", m.Author.Username, m.Content)
	if _, err := h.gateway.SendMessage(ctx, result.Thread.ChannelID, relay); err != nil {
		log.Printf("❌ Failed to relay message into thread %s: %v", result.Thread.ID, err)
		return
	}

	delivered := h.translator.T(i18n.KeyMessageDelivered, i18n.Args{})
	if _, err := h.gateway.SendMessage(ctx, m.ChannelID, delivered); err != nil {
		log.Printf("⚠️ Failed to confirm delivery to user %s: %v", m.Author.ID, err)
	}
}

// handleInteractionCreatedEvent dispatches slash commands. Component
// interactions are handled by the gateway's own handler.
func (h *DiscordEventsHandler) handleInteractionCreatedEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	ctx := context.Background()
	data := i.ApplicationCommandData()
	log.Printf("📨 Slash command /%s from %s in guild %s", data.Name, i.Member.User.ID, i.GuildID)

	switch data.Name {
	case "thread":
		h.handleThreadCommand(ctx, s, i, data)
	case "snippet":
		h.handleSnippetCommand(ctx, s, i, data)
	case "alerts":
		h.handleAlertsCommand(ctx, s, i, data)
	case "settings":
		h.handleSettingsCommand(ctx, s, i, data)
	default:
		log.Printf("⚠️ Unknown application command: %s", data.Name)
	}
}

func (h *DiscordEventsHandler) handleThreadCommand(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData,
) {
	switch data.Options[0].Name {
	case "open":
		target := data.Options[0].Options[0].UserValue(s)
		if target == nil {
			h.respondEphemeral(s, i, "Could not resolve the target user.")
			return
		}

		h.respondEphemeral(s, i, fmt.Sprintf("Opening a thread for <@%s>…", target.ID))

		result, err := h.threadOpener.OpenFromCommand(ctx, &models.CommandOpenRequest{
			GuildID:      i.GuildID,
			ActorID:      i.Member.User.ID,
			TargetUserID: target.ID,
			ChannelID:    i.ChannelID,
			Locale:       string(i.Locale),
		})
		if err != nil {
			// The flow already reported specific failures in-channel
			log.Printf("❌ Failed to open thread via command for user %s: %v", target.ID, err)
			return
		}
		log.Printf("📋 Command open for user %s resolved to %s", target.ID, result.Outcome)

	case "close":
		h.handleThreadClose(ctx, s, i)
	}
}

func (h *DiscordEventsHandler) handleThreadClose(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	maybeThread, err := h.threadsService.GetThreadByChannelID(ctx, i.GuildID, i.ChannelID)
	if err != nil {
		log.Printf("❌ Failed to look up thread for channel %s: %v", i.ChannelID, err)
		h.respondEphemeral(s, i, "Something went wrong while closing the thread.")
		return
	}
	if !maybeThread.IsPresent() {
		h.respondEphemeral(s, i, "This channel is not a tracked support thread.")
		return
	}
	thread := maybeThread.MustGet()

	maybeClosed, err := h.threadsService.CloseThread(ctx, thread.ID, i.Member.User.ID)
	if err != nil {
		log.Printf("❌ Failed to close thread %s: %v", thread.ID, err)
		h.respondEphemeral(s, i, "Something went wrong while closing the thread.")
		return
	}
	if !maybeClosed.IsPresent() {
		h.respondEphemeral(s, i, "This thread is already closed.")
		return
	}

	h.respondEphemeral(s, i, "Thread closed.")

	// Closure notice to the requester is best effort
	dm, err := h.gateway.CreateDMChannel(ctx, thread.UserID)
	if err != nil {
		log.Printf("⚠️ Failed to open DM channel for close notice to %s: %v", thread.UserID, err)
		return
	}
	notice := h.translator.T(i18n.KeyThreadClosed, i18n.Args{})
	if _, err := h.gateway.SendMessage(ctx, dm.ID, notice); err != nil {
		log.Printf("⚠️ Failed to send close notice to %s: %v", thread.UserID, err)
	}
}

func (h *DiscordEventsHandler) handleSnippetCommand(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData,
) {
	sub := data.Options[0]
	switch sub.Name {
	case "set":
		name := sub.Options[0].StringValue()
		content := sub.Options[1].StringValue()
		snippet, err := h.snippetsService.UpsertSnippet(ctx, i.GuildID, name, content)
		if err != nil {
			log.Printf("❌ Failed to upsert snippet %q: %v", name, err)
			h.respondEphemeral(s, i, "Something went wrong while saving the snippet.")
			return
		}
		h.respondEphemeral(s, i, fmt.Sprintf("Saved snippet `%s`.", snippet.Name))

	case "remove":
		name := sub.Options[0].StringValue()
		if err := h.snippetsService.DeleteSnippetByName(ctx, i.GuildID, name); err != nil {
			if core.IsNotFoundError(err) {
				h.respondEphemeral(s, i, fmt.Sprintf("No snippet named `%s` exists.", name))
				return
			}
			log.Printf("❌ Failed to delete snippet %q: %v", name, err)
			h.respondEphemeral(s, i, "Something went wrong while deleting the snippet.")
			return
		}
		h.respondEphemeral(s, i, fmt.Sprintf("Deleted snippet `%s`.", name))

	case "list":
		snippets, err := h.snippetsService.ListSnippetsByGuild(ctx, i.GuildID)
		if err != nil {
			log.Printf("❌ Failed to list snippets: %v", err)
			h.respondEphemeral(s, i, "Something went wrong while listing snippets.")
			return
		}
		if len(snippets) == 0 {
			h.respondEphemeral(s, i, "No snippets configured.")
			return
		}
		names := make([]string, 0, len(snippets))
		for _, snippet := range snippets {
			names = append(names, fmt.Sprintf("`%s`", snippet.Name))
		}
		h.respondEphemeral(s, i, "Snippets: "+strings.Join(names, ", "))
	}
}

func (h *DiscordEventsHandler) handleAlertsCommand(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData,
) {
	userID := i.Member.User.ID
	switch data.Options[0].Name {
	case "subscribe":
		if _, err := h.alertsService.UpsertAlertSubscription(ctx, i.GuildID, userID); err != nil {
			log.Printf("❌ Failed to subscribe %s to alerts: %v", userID, err)
			h.respondEphemeral(s, i, "Something went wrong while subscribing.")
			return
		}
		h.respondEphemeral(s, i, "You will be mentioned when a new thread opens.")

	case "unsubscribe":
		if err := h.alertsService.DeleteAlertSubscription(ctx, i.GuildID, userID); err != nil {
			if core.IsNotFoundError(err) {
				h.respondEphemeral(s, i, "You were not subscribed to alerts.")
				return
			}
			log.Printf("❌ Failed to unsubscribe %s from alerts: %v", userID, err)
			h.respondEphemeral(s, i, "Something went wrong while unsubscribing.")
			return
		}
		h.respondEphemeral(s, i, "You will no longer be mentioned when a new thread opens.")
	}
}

func (h *DiscordEventsHandler) handleSettingsCommand(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData,
) {
	sub := data.Options[0]
	switch sub.Name {
	case "channel":
		channel := sub.Options[0].ChannelValue(s)
		if channel == nil {
			h.respondEphemeral(s, i, "Could not resolve the channel.")
			return
		}
		if _, err := h.guildSettingsService.UpsertGuildSettings(ctx, i.GuildID, &channel.ID, nil); err != nil {
			log.Printf("❌ Failed to set modmail channel: %v", err)
			h.respondEphemeral(s, i, "Something went wrong while saving the settings.")
			return
		}
		h.respondEphemeral(s, i, fmt.Sprintf("New threads will be created under <#%s>.", channel.ID))

	case "alertrole":
		role := sub.Options[0].RoleValue(s, i.GuildID)
		if role == nil {
			h.respondEphemeral(s, i, "Could not resolve the role.")
			return
		}
		if _, err := h.guildSettingsService.UpsertGuildSettings(ctx, i.GuildID, nil, &role.ID); err != nil {
			log.Printf("❌ Failed to set alert role: %v", err)
			h.respondEphemeral(s, i, "Something went wrong while saving the settings.")
			return
		}
		h.respondEphemeral(s, i, fmt.Sprintf("New threads will mention <@&%s>.", role.ID))
	}
}

func (h *DiscordEventsHandler) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("⚠️ Failed to respond to interaction: %v", err)
	}
}
