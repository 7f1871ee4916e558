package modmail

import (
	"fmt"
	"strings"

	"modmail/clients"
	"modmail/models"
)

// threadTitleMaxRunes caps message-derived thread titles below the platform's
// 100 character channel name limit.
const threadTitleMaxRunes = 97

const summaryEmbedColor = 0x5865F2

// buildSummaryEmbed assembles the staff-facing card posted at the top of a
// new thread: who the requester is, how long they have been around and how
// often they have contacted the team before.
func buildSummaryEmbed(
	member *clients.GuildMember,
	roleNames []string,
	pastThreads int,
	openerID string,
) *clients.Embed {
	roles := "None"
	if len(roleNames) > 0 {
		roles = strings.Join(roleNames, ", ")
	}

	return &clients.Embed{
		Title: member.Handle(),
		Color: summaryEmbedColor,
		Fields: []clients.EmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", member.UserID), Inline: true},
			{Name: "Account created", Value: fmt.Sprintf("<t:%d:R>", member.AccountCreatedAt.Unix()), Inline: true},
			{Name: "Joined server", Value: fmt.Sprintf("<t:%d:R>", member.JoinedAt.Unix()), Inline: true},
			{Name: "Past threads", Value: fmt.Sprintf("%d", pastThreads), Inline: true},
			{Name: "Opened by", Value: fmt.Sprintf("<@%s>", openerID), Inline: true},
			{Name: "Roles", Value: roles, Inline: false},
		},
	}
}

// resolveRoleNames maps the member's role ids to names using the guild's role
// list. Unknown ids are skipped.
func resolveRoleNames(member *clients.GuildMember, guildRoles []clients.GuildRole) []string {
	byID := make(map[string]string, len(guildRoles))
	for _, role := range guildRoles {
		byID[role.ID] = role.Name
	}

	names := make([]string, 0, len(member.RoleIDs))
	for _, roleID := range member.RoleIDs {
		if name, ok := byID[roleID]; ok {
			names = append(names, name)
		}
	}
	return names
}

// buildAlertMention renders the mention string prepended to a new thread's
// first message. A configured alert role takes precedence over individual
// subscribers.
func buildAlertMention(settings *models.GuildSettings, subscribers []*models.ThreadOpenAlert) string {
	if settings.AlertRoleID != nil {
		return fmt.Sprintf("<@&%s>", *settings.AlertRoleID)
	}

	mentions := make([]string, 0, len(subscribers))
	for _, subscriber := range subscribers {
		mentions = append(mentions, fmt.Sprintf("<@%s>", subscriber.UserID))
	}
	return strings.Join(mentions, " ")
}
