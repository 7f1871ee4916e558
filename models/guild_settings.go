package models

import (
	"time"
)

// GuildSettings is the per-guild configuration consumed by the thread opener.
// ModmailChannelID points at the destination channel for new threads; it may be
// a tag-capable forum channel or a plain text channel.
type GuildSettings struct {
	GuildID          string    `json:"guild_id"                     db:"guild_id"`
	ModmailChannelID *string   `json:"modmail_channel_id,omitempty" db:"modmail_channel_id"`
	AlertRoleID      *string   `json:"alert_role_id,omitempty"      db:"alert_role_id"`
	CreatedAt        time.Time `json:"created_at"                   db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"                   db:"updated_at"`
}

// HasModmailChannel reports whether a destination channel is configured.
func (s *GuildSettings) HasModmailChannel() bool {
	return s.ModmailChannelID != nil && *s.ModmailChannelID != ""
}
