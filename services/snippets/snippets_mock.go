package snippets

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"modmail/models"
)

type MockSnippetsService struct {
	mock.Mock
}

func (m *MockSnippetsService) ListSnippetsByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.Snippet, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Snippet), args.Error(1)
}

func (m *MockSnippetsService) GetSnippetByName(
	ctx context.Context,
	guildID, name string,
) (mo.Option[*models.Snippet], error) {
	args := m.Called(ctx, guildID, name)
	return args.Get(0).(mo.Option[*models.Snippet]), args.Error(1)
}

func (m *MockSnippetsService) UpsertSnippet(
	ctx context.Context,
	guildID, name, content string,
) (*models.Snippet, error) {
	args := m.Called(ctx, guildID, name, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snippet), args.Error(1)
}

func (m *MockSnippetsService) DeleteSnippetByName(
	ctx context.Context,
	guildID, name string,
) error {
	args := m.Called(ctx, guildID, name)
	return args.Error(0)
}
