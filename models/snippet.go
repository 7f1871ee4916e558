package models

import (
	"time"
)

// Snippet is a named canned response. When a requester picks a routing tag
// whose normalized name matches a snippet name, the snippet content is sent
// back instead of opening a thread.
type Snippet struct {
	ID        string    `json:"id"         db:"id"`
	GuildID   string    `json:"guild_id"   db:"guild_id"`
	Name      string    `json:"name"       db:"name"`
	Content   string    `json:"content"    db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
