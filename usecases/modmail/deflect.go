package modmail

import (
	"context"
	"fmt"
	"log"

	"modmail/clients"
	"modmail/i18n"
	"modmail/models"
	"modmail/services"
	"modmail/utils"
)

// Deflector answers requests whose routing tag has a matching canned response,
// short-circuiting thread creation entirely.
type Deflector struct {
	snippetsService services.SnippetsService
	gateway         clients.MessagingGateway
	translator      i18n.Translator
	logChannelID    string
}

func NewDeflector(
	snippetsService services.SnippetsService,
	gateway clients.MessagingGateway,
	translator i18n.Translator,
	logChannelID string,
) *Deflector {
	return &Deflector{
		snippetsService: snippetsService,
		gateway:         gateway,
		translator:      translator,
		logChannelID:    logChannelID,
	}
}

// Deflect checks the guild's snippets for one named after the selected tag.
// On a match the snippet is sent back to the requester and true is returned;
// the caller must not open a thread in that case. With no snippets, or no
// name match, deflection never triggers.
func (d *Deflector) Deflect(
	ctx context.Context,
	r requester,
	tag models.RoutingTag,
) (bool, error) {
	snippets, err := d.snippetsService.ListSnippetsByGuild(ctx, r.GuildID())
	if err != nil {
		return false, fmt.Errorf("failed to list snippets for deflection: %w", err)
	}

	normalizedTag := utils.NormalizeTagName(tag.Name)
	var matched *models.Snippet
	for _, snippet := range snippets {
		if utils.NormalizeSnippetName(snippet.Name) == normalizedTag {
			matched = snippet
			break
		}
	}
	if matched == nil {
		return false, nil
	}

	log.Printf("📋 Deflecting request from user %s with snippet %q", r.TargetUserID(), matched.Name)

	embed := &clients.Embed{Description: matched.Content}
	if err := r.ReplyEmbed(ctx, "", embed); err != nil {
		return false, fmt.Errorf("failed to send deflection reply: %w", err)
	}

	// The audit trail is best effort: a failed log post must not undo an
	// already delivered auto-reply.
	if d.logChannelID != "" {
		logText := d.translator.T(i18n.KeyDeflectionLog, i18n.Args{
			Locale: r.Locale(),
			Params: map[string]string{
				"user": fmt.Sprintf("<@%s>", r.TargetUserID()),
				"tag":  tag.Name,
			},
		})
		if _, err := d.gateway.SendEmbed(ctx, d.logChannelID, "", &clients.Embed{Description: logText}); err != nil {
			log.Printf("⚠️ Failed to post deflection log for user %s: %v", r.TargetUserID(), err)
		}
	}

	return true, nil
}
