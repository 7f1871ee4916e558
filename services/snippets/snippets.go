package snippets

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"modmail/core"
	"modmail/db"
	"modmail/models"
	"modmail/utils"
)

type SnippetsService struct {
	snippetsRepo *db.PostgresSnippetsRepository
}

func NewSnippetsService(repo *db.PostgresSnippetsRepository) *SnippetsService {
	return &SnippetsService{snippetsRepo: repo}
}

func (s *SnippetsService) ListSnippetsByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.Snippet, error) {
	log.Printf("📋 Starting to list snippets for guild %s", guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}

	snippets, err := s.snippetsRepo.ListSnippetsByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	log.Printf("📋 Completed successfully - listed %d snippets for guild %s", len(snippets), guildID)
	return snippets, nil
}

func (s *SnippetsService) GetSnippetByName(
	ctx context.Context,
	guildID, name string,
) (mo.Option[*models.Snippet], error) {
	log.Printf("📋 Starting to get snippet %q for guild %s", name, guildID)

	if guildID == "" {
		return mo.None[*models.Snippet](), fmt.Errorf("guild_id cannot be empty")
	}
	if name == "" {
		return mo.None[*models.Snippet](), fmt.Errorf("snippet name cannot be empty")
	}

	maybeSnippet, err := s.snippetsRepo.GetSnippetByName(ctx, guildID, utils.NormalizeSnippetName(name))
	if err != nil {
		return mo.None[*models.Snippet](), fmt.Errorf("failed to get snippet: %w", err)
	}

	log.Printf("📋 Completed successfully - snippet %q present: %v", name, maybeSnippet.IsPresent())
	return maybeSnippet, nil
}

func (s *SnippetsService) UpsertSnippet(
	ctx context.Context,
	guildID, name, content string,
) (*models.Snippet, error) {
	log.Printf("📋 Starting to upsert snippet %q for guild %s", name, guildID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("snippet name cannot be empty")
	}
	if content == "" {
		return nil, fmt.Errorf("snippet content cannot be empty")
	}

	upserted, err := s.snippetsRepo.UpsertSnippet(ctx, &models.Snippet{
		ID:      core.NewID("sn"),
		GuildID: guildID,
		Name:    utils.NormalizeSnippetName(name),
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert snippet: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted snippet %q for guild %s", upserted.Name, guildID)
	return upserted, nil
}

func (s *SnippetsService) DeleteSnippetByName(
	ctx context.Context,
	guildID, name string,
) error {
	log.Printf("📋 Starting to delete snippet %q for guild %s", name, guildID)

	if guildID == "" {
		return fmt.Errorf("guild_id cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("snippet name cannot be empty")
	}

	deleted, err := s.snippetsRepo.DeleteSnippetByName(ctx, guildID, utils.NormalizeSnippetName(name))
	if err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}
	if !deleted {
		return core.ErrNotFound
	}

	log.Printf("📋 Completed successfully - deleted snippet %q for guild %s", name, guildID)
	return nil
}
