package models

import (
	"time"
)

// ThreadOpenAlert subscribes a user to a ping whenever a new thread opens in
// the guild. A configured alert role on GuildSettings takes precedence over
// these per-user subscriptions.
type ThreadOpenAlert struct {
	ID        string    `json:"id"         db:"id"`
	GuildID   string    `json:"guild_id"   db:"guild_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
