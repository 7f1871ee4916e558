package alerts

import (
	"context"

	"github.com/stretchr/testify/mock"

	"modmail/models"
)

type MockAlertsService struct {
	mock.Mock
}

func (m *MockAlertsService) ListAlertSubscribersByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.ThreadOpenAlert, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ThreadOpenAlert), args.Error(1)
}

func (m *MockAlertsService) UpsertAlertSubscription(
	ctx context.Context,
	guildID, userID string,
) (*models.ThreadOpenAlert, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ThreadOpenAlert), args.Error(1)
}

func (m *MockAlertsService) DeleteAlertSubscription(
	ctx context.Context,
	guildID, userID string,
) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}
