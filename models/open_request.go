package models

// CommandOpenRequest is a staff-initiated open: an interactive command
// targeting a user. The actor and the target user may differ.
type CommandOpenRequest struct {
	GuildID      string `json:"guild_id"`
	ActorID      string `json:"actor_id"`
	TargetUserID string `json:"target_user_id"`
	ChannelID    string `json:"channel_id"` // channel the command was invoked in; prompts go here
	Locale       string `json:"locale"`
}

// MessageOpenRequest is a requester-initiated open: a raw message sent to the
// staff team, typically through a direct-message channel.
type MessageOpenRequest struct {
	GuildID     string `json:"guild_id"`
	UserID      string `json:"user_id"`
	DMChannelID string `json:"dm_channel_id"` // channel the message arrived in; prompts and replies go here
	MessageID   string `json:"message_id"`
	Content     string `json:"content"`
	Locale      string `json:"locale"`
}

type CommandOpenOutcome string

const (
	CommandOpenOutcomeCreated       CommandOpenOutcome = "CREATED"
	CommandOpenOutcomeAlreadyExists CommandOpenOutcome = "ALREADY_EXISTS"
	CommandOpenOutcomeDeflected     CommandOpenOutcome = "DEFLECTED"
)

// CommandOpenResult is what a command-originated open produces: a confirmation
// outcome, plus the thread when one was created.
type CommandOpenResult struct {
	Outcome CommandOpenOutcome `json:"outcome"`
	Thread  *Thread            `json:"thread,omitempty"`
}

type MessageOpenOutcome string

const (
	MessageOpenOutcomeCreated   MessageOpenOutcome = "CREATED"
	MessageOpenOutcomeReused    MessageOpenOutcome = "REUSED"
	MessageOpenOutcomeDeflected MessageOpenOutcome = "DEFLECTED"
)

// MessageOpenResult is what a message-originated open produces: the thread
// context the caller relays the triggering message into, unless the request
// was deflected.
type MessageOpenResult struct {
	Outcome MessageOpenOutcome `json:"outcome"`
	Thread  *Thread            `json:"thread,omitempty"`
}
