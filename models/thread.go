package models

import (
	"time"
)

// Thread is one support conversation: the persisted link between a guild, a
// requester and the underlying platform channel the conversation lives in.
type Thread struct {
	ID          string    `json:"id"                     db:"id"`
	GuildID     string    `json:"guild_id"               db:"guild_id"`
	ChannelID   string    `json:"channel_id"             db:"channel_id"`
	UserID      string    `json:"user_id"                db:"user_id"`
	CreatedByID string    `json:"created_by_id"          db:"created_by_id"`
	ClosedByID  *string   `json:"closed_by_id,omitempty" db:"closed_by_id"`
	CreatedAt   time.Time `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"             db:"updated_at"`
}

// IsOpen reports whether the thread has not been closed yet.
func (t *Thread) IsOpen() bool {
	return t.ClosedByID == nil
}

type ThreadCreationStatus string

const (
	ThreadCreationStatusCreated  ThreadCreationStatus = "CREATED"
	ThreadCreationStatusExisting ThreadCreationStatus = "EXISTING"
)

// ThreadCreationResult reports whether a create call actually inserted a new
// record or surfaced an open thread that appeared concurrently.
type ThreadCreationResult struct {
	Thread *Thread              `json:"thread"`
	Status ThreadCreationStatus `json:"status"`
}
