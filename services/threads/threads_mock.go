package threads

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"modmail/models"
)

// MockThreadsService is a mock implementation of the ThreadsService interface
type MockThreadsService struct {
	mock.Mock
}

func (m *MockThreadsService) CreateThread(
	ctx context.Context,
	guildID, channelID, userID, createdByID string,
) (*models.ThreadCreationResult, error) {
	args := m.Called(ctx, guildID, channelID, userID, createdByID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ThreadCreationResult), args.Error(1)
}

func (m *MockThreadsService) GetOpenThread(
	ctx context.Context,
	guildID, userID string,
) (mo.Option[*models.Thread], error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return mo.None[*models.Thread](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Thread]), args.Error(1)
}

func (m *MockThreadsService) GetThreadByChannelID(
	ctx context.Context,
	guildID, channelID string,
) (mo.Option[*models.Thread], error) {
	args := m.Called(ctx, guildID, channelID)
	if args.Get(0) == nil {
		return mo.None[*models.Thread](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Thread]), args.Error(1)
}

func (m *MockThreadsService) ListThreadsByUser(
	ctx context.Context,
	guildID, userID string,
) ([]*models.Thread, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Thread), args.Error(1)
}

func (m *MockThreadsService) ListThreadsByGuild(ctx context.Context, guildID string) ([]*models.Thread, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Thread), args.Error(1)
}

func (m *MockThreadsService) DeleteThread(ctx context.Context, threadID string) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}

func (m *MockThreadsService) CloseThread(
	ctx context.Context,
	threadID, closedByID string,
) (mo.Option[*models.Thread], error) {
	args := m.Called(ctx, threadID, closedByID)
	if args.Get(0) == nil {
		return mo.None[*models.Thread](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Thread]), args.Error(1)
}
