package modmail

import (
	"context"
	"fmt"

	"modmail/clients"
	"modmail/models"
)

// requester abstracts the two origins of an open request: a staff command and
// a raw requester message. It exposes who the thread is for, where feedback
// replies go and which locale to answer in.
type requester interface {
	GuildID() string
	ActorID() string
	TargetUserID() string
	PromptChannelID() string
	Locale() string
	Reply(ctx context.Context, text string) error
	ReplyEmbed(ctx context.Context, text string, embed *clients.Embed) error
}

type commandRequester struct {
	req     *models.CommandOpenRequest
	gateway clients.MessagingGateway
}

func (r *commandRequester) GuildID() string         { return r.req.GuildID }
func (r *commandRequester) ActorID() string         { return r.req.ActorID }
func (r *commandRequester) TargetUserID() string    { return r.req.TargetUserID }
func (r *commandRequester) PromptChannelID() string { return r.req.ChannelID }
func (r *commandRequester) Locale() string          { return r.req.Locale }

func (r *commandRequester) Reply(ctx context.Context, text string) error {
	if _, err := r.gateway.SendMessage(ctx, r.req.ChannelID, text); err != nil {
		return fmt.Errorf("failed to send command reply: %w", err)
	}
	return nil
}

func (r *commandRequester) ReplyEmbed(ctx context.Context, text string, embed *clients.Embed) error {
	if _, err := r.gateway.SendEmbed(ctx, r.req.ChannelID, text, embed); err != nil {
		return fmt.Errorf("failed to send command reply: %w", err)
	}
	return nil
}

type messageRequester struct {
	req     *models.MessageOpenRequest
	gateway clients.MessagingGateway
}

func (r *messageRequester) GuildID() string         { return r.req.GuildID }
func (r *messageRequester) ActorID() string         { return r.req.UserID }
func (r *messageRequester) TargetUserID() string    { return r.req.UserID }
func (r *messageRequester) PromptChannelID() string { return r.req.DMChannelID }
func (r *messageRequester) Locale() string          { return r.req.Locale }

func (r *messageRequester) Reply(ctx context.Context, text string) error {
	if _, err := r.gateway.SendMessage(ctx, r.req.DMChannelID, text); err != nil {
		return fmt.Errorf("failed to send requester reply: %w", err)
	}
	return nil
}

func (r *messageRequester) ReplyEmbed(ctx context.Context, text string, embed *clients.Embed) error {
	if _, err := r.gateway.SendEmbed(ctx, r.req.DMChannelID, text, embed); err != nil {
		return fmt.Errorf("failed to send requester reply: %w", err)
	}
	return nil
}
