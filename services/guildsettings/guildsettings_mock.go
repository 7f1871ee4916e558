package guildsettings

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"modmail/models"
)

type MockGuildSettingsService struct {
	mock.Mock
}

func (m *MockGuildSettingsService) GetGuildSettings(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildSettings], error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(mo.Option[*models.GuildSettings]), args.Error(1)
}

func (m *MockGuildSettingsService) UpsertGuildSettings(
	ctx context.Context,
	guildID string,
	modmailChannelID, alertRoleID *string,
) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID, modmailChannelID, alertRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}
