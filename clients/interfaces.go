package clients

import (
	"context"
	"time"

	"github.com/samber/mo"

	"modmail/models"
)

// GuildMember is the gateway's view of a guild member.
type GuildMember struct {
	UserID           string
	Username         string
	DisplayName      string
	JoinedAt         time.Time
	AccountCreatedAt time.Time
	RoleIDs          []string
}

// Handle returns the member's display name when set, falling back to the
// platform username.
func (m *GuildMember) Handle() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Username
}

// GuildRole is a named role within a guild.
type GuildRole struct {
	ID   string
	Name string
}

type ChannelKind string

const (
	ChannelKindText   ChannelKind = "text"
	ChannelKindForum  ChannelKind = "forum"
	ChannelKindThread ChannelKind = "thread"
	ChannelKindDM     ChannelKind = "dm"
)

// GatewayChannel is the gateway's view of a channel. AvailableTags is only
// populated for tag-capable (forum) channels.
type GatewayChannel struct {
	ID            string
	GuildID       string
	Name          string
	Kind          ChannelKind
	AvailableTags []models.RoutingTag
}

// TagCapable reports whether the channel organizes threads under selectable tags.
func (c *GatewayChannel) TagCapable() bool {
	return c.Kind == ChannelKindForum
}

// Embed is a platform-agnostic rich message card.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// SentMessage identifies a message the gateway posted.
type SentMessage struct {
	ID        string
	ChannelID string
}

// CreatedThread identifies a platform thread channel created under a destination.
type CreatedThread struct {
	ThreadID        string
	ParentChannelID string
	Name            string
}

// SelectOption is one entry of a single-choice select prompt.
type SelectOption struct {
	Value string
	Label string
	Emoji string
}

// SelectPrompt identifies a posted single-choice prompt awaiting a selection.
type SelectPrompt struct {
	MessageID string
	ChannelID string
	CustomID  string
	PostedAt  time.Time
}

// MessagingGateway abstracts the chat platform: channel and thread creation,
// message I/O and interactive component prompts.
type MessagingGateway interface {
	GetGuildMember(ctx context.Context, guildID, userID string) (*GuildMember, error)
	GetGuildRoles(ctx context.Context, guildID string) ([]GuildRole, error)
	// GetChannel resolves a channel by id. A channel that no longer exists
	// yields None rather than an error.
	GetChannel(ctx context.Context, channelID string) (mo.Option[*GatewayChannel], error)
	CreateDMChannel(ctx context.Context, userID string) (*GatewayChannel, error)

	SendMessage(ctx context.Context, channelID, content string) (*SentMessage, error)
	SendEmbed(ctx context.Context, channelID, content string, embed *Embed) (*SentMessage, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// CreateForumThread starts a thread in a tag-capable channel with an
	// initiating message and the given applied tag ids.
	CreateForumThread(
		ctx context.Context,
		channelID, name, content string,
		embed *Embed,
		appliedTagIDs []string,
	) (*CreatedThread, error)
	// CreateMessageThread starts a plain thread hanging off an already sent message.
	CreateMessageThread(ctx context.Context, channelID, messageID, name string) (*CreatedThread, error)

	// SendSelectPrompt posts a single-choice select prompt and returns its handle.
	SendSelectPrompt(
		ctx context.Context,
		channelID, content string,
		options []SelectOption,
	) (*SelectPrompt, error)
	// AwaitSelection blocks until exactly one selection arrives for the prompt,
	// the deadline passes (None) or the context is cancelled.
	AwaitSelection(ctx context.Context, prompt *SelectPrompt, deadline time.Time) (mo.Option[string], error)
	// DisableSelectPrompt edits the prompt into a terminal state with its
	// selectable options cleared.
	DisableSelectPrompt(ctx context.Context, prompt *SelectPrompt, content string) error
}
