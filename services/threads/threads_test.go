package threads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"modmail/core"
)

// Validation runs before any repository access, so a nil repository is fine here.
func TestThreadsServiceValidation(t *testing.T) {
	service := NewThreadsService(nil, nil)
	ctx := context.Background()

	t.Run("create rejects empty identifiers", func(t *testing.T) {
		_, err := service.CreateThread(ctx, "", "channel-1", "user-1", "user-1")
		assert.ErrorContains(t, err, "guild_id cannot be empty")

		_, err = service.CreateThread(ctx, "guild-1", "", "user-1", "user-1")
		assert.ErrorContains(t, err, "channel_id cannot be empty")

		_, err = service.CreateThread(ctx, "guild-1", "channel-1", "", "user-1")
		assert.ErrorContains(t, err, "user_id cannot be empty")

		_, err = service.CreateThread(ctx, "guild-1", "channel-1", "user-1", "")
		assert.ErrorContains(t, err, "created_by_id cannot be empty")
	})

	t.Run("get open thread rejects empty identifiers", func(t *testing.T) {
		_, err := service.GetOpenThread(ctx, "", "user-1")
		assert.ErrorContains(t, err, "guild_id cannot be empty")

		_, err = service.GetOpenThread(ctx, "guild-1", "")
		assert.ErrorContains(t, err, "user_id cannot be empty")
	})

	t.Run("get by channel rejects empty identifiers", func(t *testing.T) {
		_, err := service.GetThreadByChannelID(ctx, "", "channel-1")
		assert.ErrorContains(t, err, "guild_id cannot be empty")

		_, err = service.GetThreadByChannelID(ctx, "guild-1", "")
		assert.ErrorContains(t, err, "channel_id cannot be empty")
	})

	t.Run("delete requires a valid id", func(t *testing.T) {
		err := service.DeleteThread(ctx, "not-a-ulid")
		assert.ErrorContains(t, err, "thread ID must be a valid ULID")
	})

	t.Run("close requires a valid id and closer", func(t *testing.T) {
		_, err := service.CloseThread(ctx, "not-a-ulid", "user-1")
		assert.ErrorContains(t, err, "thread ID must be a valid ULID")

		_, err = service.CloseThread(ctx, core.NewID("th"), "")
		assert.ErrorContains(t, err, "closed_by_id cannot be empty")
	})
}
