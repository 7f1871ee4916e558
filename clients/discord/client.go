package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"modmail/clients"
	"modmail/core"
	"modmail/models"
)

// DiscordGateway implements the clients.MessagingGateway interface on top of a
// persistent discordgo session.
type DiscordGateway struct {
	session *discordgo.Session

	// pendingSelections routes component interactions back to AwaitSelection,
	// keyed by the prompt's custom id. Exactly one value is delivered per prompt.
	mu                sync.Mutex
	pendingSelections map[string]chan string
}

// NewDiscordGateway creates a gateway around an existing session and registers
// the component-interaction handler it needs for select prompts.
func NewDiscordGateway(session *discordgo.Session) *DiscordGateway {
	gateway := &DiscordGateway{
		session:           session,
		pendingSelections: make(map[string]chan string),
	}
	session.AddHandler(gateway.handleComponentInteraction)
	return gateway
}

func (g *DiscordGateway) GetGuildMember(ctx context.Context, guildID, userID string) (*clients.GuildMember, error) {
	member, err := g.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownMemberError(err) {
			return nil, fmt.Errorf("user %s is not a member of guild %s: %w", userID, guildID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch guild member: %w", err)
	}
	if member == nil || member.User == nil {
		return nil, fmt.Errorf("guild member not found: %w", core.ErrNotFound)
	}

	// The account creation time is encoded in the user id snowflake
	accountCreatedAt, err := discordgo.SnowflakeTimestamp(member.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account creation time: %w", err)
	}

	return &clients.GuildMember{
		UserID:           member.User.ID,
		Username:         member.User.Username,
		DisplayName:      member.Nick,
		JoinedAt:         member.JoinedAt,
		AccountCreatedAt: accountCreatedAt,
		RoleIDs:          member.Roles,
	}, nil
}

func (g *DiscordGateway) GetGuildRoles(ctx context.Context, guildID string) ([]clients.GuildRole, error) {
	discordRoles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}

	roles := make([]clients.GuildRole, 0, len(discordRoles))
	for _, role := range discordRoles {
		roles = append(roles, clients.GuildRole{ID: role.ID, Name: role.Name})
	}
	return roles, nil
}

func (g *DiscordGateway) GetChannel(ctx context.Context, channelID string) (mo.Option[*clients.GatewayChannel], error) {
	channel, err := g.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownChannelError(err) {
			return mo.None[*clients.GatewayChannel](), nil
		}
		return mo.None[*clients.GatewayChannel](), fmt.Errorf("failed to fetch channel: %w", err)
	}

	return mo.Some(mapChannel(channel)), nil
}

func (g *DiscordGateway) CreateDMChannel(ctx context.Context, userID string) (*clients.GatewayChannel, error) {
	channel, err := g.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create DM channel: %w", err)
	}
	return mapChannel(channel), nil
}

func (g *DiscordGateway) SendMessage(ctx context.Context, channelID, content string) (*clients.SentMessage, error) {
	message, err := g.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &clients.SentMessage{ID: message.ID, ChannelID: message.ChannelID}, nil
}

func (g *DiscordGateway) SendEmbed(
	ctx context.Context,
	channelID, content string,
	embed *clients.Embed,
) (*clients.SentMessage, error) {
	message, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embed:   mapEmbed(embed),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send embed: %w", err)
	}
	return &clients.SentMessage{ID: message.ID, ChannelID: message.ChannelID}, nil
}

func (g *DiscordGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := g.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (g *DiscordGateway) CreateForumThread(
	ctx context.Context,
	channelID, name, content string,
	embed *clients.Embed,
	appliedTagIDs []string,
) (*clients.CreatedThread, error) {
	thread, err := g.session.ForumThreadStartComplex(
		channelID,
		&discordgo.ThreadStart{
			Name:        name,
			AppliedTags: appliedTagIDs,
		},
		&discordgo.MessageSend{
			Content: content,
			Embed:   mapEmbed(embed),
		},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create forum thread: %w", err)
	}

	return &clients.CreatedThread{
		ThreadID:        thread.ID,
		ParentChannelID: channelID,
		Name:            thread.Name,
	}, nil
}

func (g *DiscordGateway) CreateMessageThread(
	ctx context.Context,
	channelID, messageID, name string,
) (*clients.CreatedThread, error) {
	thread, err := g.session.MessageThreadStartComplex(
		channelID,
		messageID,
		&discordgo.ThreadStart{Name: name},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message thread: %w", err)
	}

	return &clients.CreatedThread{
		ThreadID:        thread.ID,
		ParentChannelID: channelID,
		Name:            thread.Name,
	}, nil
}

func (g *DiscordGateway) SendSelectPrompt(
	ctx context.Context,
	channelID, content string,
	options []clients.SelectOption,
) (*clients.SelectPrompt, error) {
	customID := core.NewID("sel")

	menuOptions := make([]discordgo.SelectMenuOption, 0, len(options))
	for _, option := range options {
		menuOption := discordgo.SelectMenuOption{
			Label: option.Label,
			Value: option.Value,
		}
		if option.Emoji != "" {
			menuOption.Emoji = &discordgo.ComponentEmoji{Name: option.Emoji}
		}
		menuOptions = append(menuOptions, menuOption)
	}

	// Register the routing channel before the prompt is visible so a fast
	// selection can never be dropped
	selectionCh := make(chan string, 1)
	g.mu.Lock()
	g.pendingSelections[customID] = selectionCh
	g.mu.Unlock()

	message, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType: discordgo.StringSelectMenu,
						CustomID: customID,
						Options:  menuOptions,
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		g.removePendingSelection(customID)
		return nil, fmt.Errorf("failed to send select prompt: %w", err)
	}

	return &clients.SelectPrompt{
		MessageID: message.ID,
		ChannelID: message.ChannelID,
		CustomID:  customID,
		PostedAt:  time.Now(),
	}, nil
}

func (g *DiscordGateway) AwaitSelection(
	ctx context.Context,
	prompt *clients.SelectPrompt,
	deadline time.Time,
) (mo.Option[string], error) {
	defer g.removePendingSelection(prompt.CustomID)

	g.mu.Lock()
	selectionCh, ok := g.pendingSelections[prompt.CustomID]
	g.mu.Unlock()
	if !ok {
		return mo.None[string](), fmt.Errorf("no pending selection for prompt %s", prompt.MessageID)
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case value := <-selectionCh:
		return mo.Some(value), nil
	case <-timer.C:
		return mo.None[string](), nil
	case <-ctx.Done():
		return mo.None[string](), ctx.Err()
	}
}

func (g *DiscordGateway) DisableSelectPrompt(ctx context.Context, prompt *clients.SelectPrompt, content string) error {
	emptyComponents := []discordgo.MessageComponent{}
	_, err := g.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    prompt.ChannelID,
		ID:         prompt.MessageID,
		Content:    &content,
		Components: &emptyComponents,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to disable select prompt: %w", err)
	}
	return nil
}

// handleComponentInteraction delivers select-menu choices to the goroutine
// blocked in AwaitSelection. Interactions for prompts that already resolved
// are acknowledged and dropped.
func (g *DiscordGateway) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	data := i.MessageComponentData()
	if len(data.Values) != 1 {
		log.Printf("⚠️ Ignoring component interaction %s with %d values", data.CustomID, len(data.Values))
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Printf("⚠️ Failed to acknowledge component interaction %s: %v", data.CustomID, err)
	}

	g.mu.Lock()
	selectionCh, ok := g.pendingSelections[data.CustomID]
	g.mu.Unlock()
	if !ok {
		log.Printf("⚠️ No pending selection for component interaction %s - ignoring", data.CustomID)
		return
	}

	select {
	case selectionCh <- data.Values[0]:
	default:
		// A value was already delivered for this prompt
	}
}

func (g *DiscordGateway) removePendingSelection(customID string) {
	g.mu.Lock()
	delete(g.pendingSelections, customID)
	g.mu.Unlock()
}

// mapChannel converts a discordgo channel to the gateway channel DTO
func mapChannel(channel *discordgo.Channel) *clients.GatewayChannel {
	return &clients.GatewayChannel{
		ID:            channel.ID,
		GuildID:       channel.GuildID,
		Name:          channel.Name,
		Kind:          mapChannelKind(channel.Type),
		AvailableTags: mapForumTags(channel.AvailableTags),
	}
}

func mapChannelKind(channelType discordgo.ChannelType) clients.ChannelKind {
	switch channelType {
	case discordgo.ChannelTypeGuildForum:
		return clients.ChannelKindForum
	case discordgo.ChannelTypeDM:
		return clients.ChannelKindDM
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread:
		return clients.ChannelKindThread
	default:
		return clients.ChannelKindText
	}
}

func mapForumTags(forumTags []discordgo.ForumTag) []models.RoutingTag {
	tags := make([]models.RoutingTag, 0, len(forumTags))
	for _, forumTag := range forumTags {
		tags = append(tags, models.RoutingTag{
			ID:        forumTag.ID,
			Name:      forumTag.Name,
			Emoji:     forumTag.EmojiName,
			Moderated: forumTag.Moderated,
		})
	}
	return tags
}

func mapEmbed(embed *clients.Embed) *discordgo.MessageEmbed {
	if embed == nil {
		return nil
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, field := range embed.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Fields:      fields,
	}
}

func isUnknownChannelError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownChannel
	}
	return false
}

func isUnknownMemberError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMember ||
			restErr.Message.Code == discordgo.ErrCodeUnknownUser
	}
	return false
}
