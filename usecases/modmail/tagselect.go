package modmail

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"modmail/clients"
	"modmail/i18n"
	"modmail/models"
	"modmail/utils"
)

// tagSelectTimeout bounds how long a requester gets to pick a routing tag
// before the prompt is withdrawn.
const tagSelectTimeout = 30 * time.Second

// TagSelector prompts a requester with a single-choice menu of routing tags
// and resolves the pick within a bounded window.
type TagSelector struct {
	gateway    clients.MessagingGateway
	translator i18n.Translator
}

func NewTagSelector(gateway clients.MessagingGateway, translator i18n.Translator) *TagSelector {
	return &TagSelector{gateway: gateway, translator: translator}
}

// SelectTag posts the prompt into channelID and waits for a selection. It
// returns None when the window elapses without a pick; the prompt is then
// edited into a terminal timed-out state so the stale menu cannot be used.
func (s *TagSelector) SelectTag(
	ctx context.Context,
	channelID, locale string,
	tags []models.RoutingTag,
) (mo.Option[models.RoutingTag], error) {
	utils.AssertInvariant(len(tags) > 0, "tag selection requires at least one tag")

	options := make([]clients.SelectOption, 0, len(tags))
	for _, tag := range tags {
		options = append(options, clients.SelectOption{
			Value: tag.ID,
			Label: tag.Name,
			Emoji: tag.Emoji,
		})
	}

	promptText := s.translator.T(i18n.KeyTagPrompt, i18n.Args{Locale: locale})
	prompt, err := s.gateway.SendSelectPrompt(ctx, channelID, promptText, options)
	if err != nil {
		return mo.None[models.RoutingTag](), fmt.Errorf("failed to send tag prompt: %w", err)
	}

	deadline := prompt.PostedAt.Add(tagSelectTimeout)
	maybeValue, err := s.gateway.AwaitSelection(ctx, prompt, deadline)
	if err != nil {
		return mo.None[models.RoutingTag](), fmt.Errorf("failed to await tag selection: %w", err)
	}

	if !maybeValue.IsPresent() {
		timedOutText := s.translator.T(i18n.KeyTagPromptTimedOut, i18n.Args{Locale: locale})
		if err := s.gateway.DisableSelectPrompt(ctx, prompt, timedOutText); err != nil {
			log.Printf("⚠️ Failed to disable timed-out tag prompt %s: %v", prompt.MessageID, err)
		}
		return mo.None[models.RoutingTag](), nil
	}

	// A pick arrived, so the prompt has served its purpose either way.
	if err := s.gateway.DeleteMessage(ctx, prompt.ChannelID, prompt.MessageID); err != nil {
		log.Printf("⚠️ Failed to delete answered tag prompt %s: %v", prompt.MessageID, err)
	}

	selectedID := maybeValue.MustGet()
	for _, tag := range tags {
		if tag.ID == selectedID {
			return mo.Some(tag), nil
		}
	}

	log.Printf("⚠️ Tag selection returned unknown tag id %s, treating as no selection", selectedID)
	return mo.None[models.RoutingTag](), nil
}
