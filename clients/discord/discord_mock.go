package discord

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"modmail/clients"
)

// MockMessagingGateway is a mock implementation of the clients.MessagingGateway interface
type MockMessagingGateway struct {
	mock.Mock
}

func (m *MockMessagingGateway) GetGuildMember(
	ctx context.Context,
	guildID, userID string,
) (*clients.GuildMember, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.GuildMember), args.Error(1)
}

func (m *MockMessagingGateway) GetGuildRoles(ctx context.Context, guildID string) ([]clients.GuildRole, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.GuildRole), args.Error(1)
}

func (m *MockMessagingGateway) GetChannel(
	ctx context.Context,
	channelID string,
) (mo.Option[*clients.GatewayChannel], error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return mo.None[*clients.GatewayChannel](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*clients.GatewayChannel]), args.Error(1)
}

func (m *MockMessagingGateway) CreateDMChannel(ctx context.Context, userID string) (*clients.GatewayChannel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.GatewayChannel), args.Error(1)
}

func (m *MockMessagingGateway) SendMessage(ctx context.Context, channelID, content string) (*clients.SentMessage, error) {
	args := m.Called(ctx, channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SentMessage), args.Error(1)
}

func (m *MockMessagingGateway) SendEmbed(
	ctx context.Context,
	channelID, content string,
	embed *clients.Embed,
) (*clients.SentMessage, error) {
	args := m.Called(ctx, channelID, content, embed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SentMessage), args.Error(1)
}

func (m *MockMessagingGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockMessagingGateway) CreateForumThread(
	ctx context.Context,
	channelID, name, content string,
	embed *clients.Embed,
	appliedTagIDs []string,
) (*clients.CreatedThread, error) {
	args := m.Called(ctx, channelID, name, content, embed, appliedTagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.CreatedThread), args.Error(1)
}

func (m *MockMessagingGateway) CreateMessageThread(
	ctx context.Context,
	channelID, messageID, name string,
) (*clients.CreatedThread, error) {
	args := m.Called(ctx, channelID, messageID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.CreatedThread), args.Error(1)
}

func (m *MockMessagingGateway) SendSelectPrompt(
	ctx context.Context,
	channelID, content string,
	options []clients.SelectOption,
) (*clients.SelectPrompt, error) {
	args := m.Called(ctx, channelID, content, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SelectPrompt), args.Error(1)
}

func (m *MockMessagingGateway) AwaitSelection(
	ctx context.Context,
	prompt *clients.SelectPrompt,
	deadline time.Time,
) (mo.Option[string], error) {
	args := m.Called(ctx, prompt, deadline)
	if args.Get(0) == nil {
		return mo.None[string](), args.Error(1)
	}
	return args.Get(0).(mo.Option[string]), args.Error(1)
}

func (m *MockMessagingGateway) DisableSelectPrompt(
	ctx context.Context,
	prompt *clients.SelectPrompt,
	content string,
) error {
	args := m.Called(ctx, prompt, content)
	return args.Error(0)
}
