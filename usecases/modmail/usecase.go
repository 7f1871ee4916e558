package modmail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/samber/mo"

	"modmail/clients"
	"modmail/core"
	"modmail/i18n"
	"modmail/models"
	"modmail/opsnotif"
	"modmail/services"
	"modmail/utils"
)

var (
	// ErrNoDestination means the guild has no usable modmail channel configured.
	ErrNoDestination = errors.New("no modmail destination channel is configured")
	// ErrNotAMember means the target user does not belong to the guild.
	ErrNotAMember = errors.New("user is not a member of the guild")
	// ErrNoTagSelected means the requester let the tag prompt lapse.
	ErrNoTagSelected = errors.New("no routing tag was selected")
)

// ThreadOpenerUseCase orchestrates the full thread-opening flow: destination
// resolution, membership check, open-thread reuse, tag selection, deflection,
// platform thread creation and record persistence.
type ThreadOpenerUseCase struct {
	gateway              clients.MessagingGateway
	threadsService       services.ThreadsService
	guildSettingsService services.GuildSettingsService
	alertsService        services.AlertsService
	translator           i18n.Translator
	tagSelector          *TagSelector
	deflector            *Deflector
	openLocks            *openLockSet
}

func NewThreadOpenerUseCase(
	gateway clients.MessagingGateway,
	threadsService services.ThreadsService,
	guildSettingsService services.GuildSettingsService,
	alertsService services.AlertsService,
	translator i18n.Translator,
	tagSelector *TagSelector,
	deflector *Deflector,
) *ThreadOpenerUseCase {
	return &ThreadOpenerUseCase{
		gateway:              gateway,
		threadsService:       threadsService,
		guildSettingsService: guildSettingsService,
		alertsService:        alertsService,
		translator:           translator,
		tagSelector:          tagSelector,
		deflector:            deflector,
		openLocks:            newOpenLockSet(),
	}
}

// OpenFromCommand handles a staff-initiated open targeting a user. The actor
// receives a confirmation reply in the invoking channel for every outcome.
func (u *ThreadOpenerUseCase) OpenFromCommand(
	ctx context.Context,
	req *models.CommandOpenRequest,
) (*models.CommandOpenResult, error) {
	log.Printf("📋 Starting to open thread for user %s in guild %s (command by %s)",
		req.TargetUserID, req.GuildID, req.ActorID)

	if req.GuildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if req.ActorID == "" {
		return nil, fmt.Errorf("actor_id cannot be empty")
	}
	if req.TargetUserID == "" {
		return nil, fmt.Errorf("target_user_id cannot be empty")
	}
	if req.ChannelID == "" {
		return nil, fmt.Errorf("channel_id cannot be empty")
	}

	r := &commandRequester{req: req, gateway: u.gateway}
	res, err := u.open(ctx, r, mo.None[string]())
	if err != nil {
		return nil, err
	}

	targetMention := fmt.Sprintf("<@%s>", req.TargetUserID)

	if res.deflected {
		log.Printf("📋 Completed successfully - deflected open for user %s in guild %s",
			req.TargetUserID, req.GuildID)
		return &models.CommandOpenResult{Outcome: models.CommandOpenOutcomeDeflected}, nil
	}

	if res.reused {
		u.replyBestEffort(ctx, r, i18n.KeyThreadOpenAlreadyExists, map[string]string{"user": targetMention})
		log.Printf("📋 Completed successfully - thread %s already open for user %s in guild %s",
			res.thread.ID, req.TargetUserID, req.GuildID)
		return &models.CommandOpenResult{
			Outcome: models.CommandOpenOutcomeAlreadyExists,
			Thread:  res.thread,
		}, nil
	}

	u.replyBestEffort(ctx, r, i18n.KeyThreadOpenSuccess, map[string]string{"user": targetMention})
	log.Printf("📋 Completed successfully - opened thread %s for user %s in guild %s",
		res.thread.ID, req.TargetUserID, req.GuildID)
	return &models.CommandOpenResult{
		Outcome: models.CommandOpenOutcomeCreated,
		Thread:  res.thread,
	}, nil
}

// OpenFromMessage handles a requester-initiated open triggered by a direct
// message. On CREATED and REUSED the caller relays the triggering message into
// the returned thread; on DEFLECTED the request was fully answered already.
func (u *ThreadOpenerUseCase) OpenFromMessage(
	ctx context.Context,
	req *models.MessageOpenRequest,
) (*models.MessageOpenResult, error) {
	log.Printf("📋 Starting to open thread from message by user %s in guild %s", req.UserID, req.GuildID)

	if req.GuildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if req.DMChannelID == "" {
		return nil, fmt.Errorf("dm_channel_id cannot be empty")
	}
	if req.Content == "" {
		return nil, fmt.Errorf("content cannot be empty")
	}

	r := &messageRequester{req: req, gateway: u.gateway}
	res, err := u.open(ctx, r, mo.Some(req.Content))
	if err != nil {
		return nil, err
	}

	if res.deflected {
		log.Printf("📋 Completed successfully - deflected message open for user %s in guild %s",
			req.UserID, req.GuildID)
		return &models.MessageOpenResult{Outcome: models.MessageOpenOutcomeDeflected}, nil
	}

	outcome := models.MessageOpenOutcomeCreated
	if res.reused {
		outcome = models.MessageOpenOutcomeReused
	}
	log.Printf("📋 Completed successfully - message open resolved to thread %s for user %s (%s)",
		res.thread.ID, req.UserID, outcome)
	return &models.MessageOpenResult{Outcome: outcome, Thread: res.thread}, nil
}

// openResult is the shared flow's terminal state before origin-specific
// result mapping.
type openResult struct {
	thread    *models.Thread
	reused    bool
	deflected bool
}

func (u *ThreadOpenerUseCase) open(
	ctx context.Context,
	r requester,
	rawContent mo.Option[string],
) (*openResult, error) {
	// 1. Resolve the guild's destination channel
	maybeSettings, err := u.guildSettingsService.GetGuildSettings(ctx, r.GuildID())
	if err != nil {
		return nil, u.failOpen(ctx, r, fmt.Errorf("failed to get guild settings: %w", err))
	}
	if !maybeSettings.IsPresent() || !maybeSettings.MustGet().HasModmailChannel() {
		return nil, u.failOpen(ctx, r, ErrNoDestination)
	}
	settings := maybeSettings.MustGet()

	maybeChannel, err := u.gateway.GetChannel(ctx, *settings.ModmailChannelID)
	if err != nil {
		return nil, u.failOpen(ctx, r, fmt.Errorf("failed to resolve destination channel: %w", err))
	}
	if !maybeChannel.IsPresent() {
		return nil, u.failOpen(ctx, r, ErrNoDestination)
	}
	channel := maybeChannel.MustGet()

	// 2. The target must be a current guild member
	member, err := u.gateway.GetGuildMember(ctx, r.GuildID(), r.TargetUserID())
	if err != nil {
		if core.IsNotFoundError(err) {
			u.replyBestEffort(ctx, r, i18n.KeyThreadOpenNotMember, nil)
			return nil, ErrNotAMember
		}
		return nil, u.failOpen(ctx, r, fmt.Errorf("failed to fetch guild member: %w", err))
	}

	// 3. Serialize the remainder per guild+user so concurrent opens for the
	// same requester cannot race past the reuse check
	unlock := u.openLocks.lock(r.GuildID(), r.TargetUserID())
	defer unlock()

	// 4. Reuse an open thread when its platform channel still exists; repair
	// the record when the channel was deleted out from under us
	maybeOpen, err := u.threadsService.GetOpenThread(ctx, r.GuildID(), r.TargetUserID())
	if err != nil {
		return nil, u.failOpen(ctx, r, fmt.Errorf("failed to check for open thread: %w", err))
	}
	if maybeOpen.IsPresent() {
		existing := maybeOpen.MustGet()
		maybeThreadChannel, err := u.gateway.GetChannel(ctx, existing.ChannelID)
		if err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to resolve open thread channel: %w", err))
		}
		if maybeThreadChannel.IsPresent() {
			return &openResult{thread: existing, reused: true}, nil
		}

		log.Printf("⚠️ Thread %s points at vanished channel %s, deleting stale record",
			existing.ID, existing.ChannelID)
		if err := u.threadsService.DeleteThread(ctx, existing.ID); err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to delete stale thread record: %w", err))
		}
	}

	// 5. Count prior contact before the new record exists
	pastThreads, err := u.threadsService.ListThreadsByUser(ctx, r.GuildID(), r.TargetUserID())
	if err != nil {
		return nil, u.failOpen(ctx, r, fmt.Errorf("failed to list past threads: %w", err))
	}

	// 6. Tag selection applies only to tag-capable destinations that actually
	// offer eligible tags
	maybeTag := mo.None[models.RoutingTag]()
	if channel.TagCapable() {
		eligible := models.EligibleRoutingTags(channel.AvailableTags)
		if len(eligible) > 0 {
			maybeTag, err = u.tagSelector.SelectTag(ctx, r.PromptChannelID(), r.Locale(), eligible)
			if err != nil {
				return nil, u.failOpen(ctx, r, fmt.Errorf("failed to select tag: %w", err))
			}
			if !maybeTag.IsPresent() {
				u.replyBestEffort(ctx, r, i18n.KeyThreadOpenNoTagSelected, nil)
				return nil, ErrNoTagSelected
			}
		}
	}

	// 7. A tag with a matching snippet answers the request without a thread
	if maybeTag.IsPresent() {
		deflected, err := u.deflector.Deflect(ctx, r, maybeTag.MustGet())
		if err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to run deflection: %w", err))
		}
		if deflected {
			return &openResult{deflected: true}, nil
		}
	}

	// 8. Assemble the staff-facing summary; role resolution is cosmetic and
	// must not block the open
	var roleNames []string
	guildRoles, err := u.gateway.GetGuildRoles(ctx, r.GuildID())
	if err != nil {
		log.Printf("⚠️ Failed to fetch guild roles for summary: %v", err)
	} else {
		roleNames = resolveRoleNames(member, guildRoles)
	}
	embed := buildSummaryEmbed(member, roleNames, len(pastThreads), r.ActorID())

	title := member.Handle()
	if channel.TagCapable() && rawContent.IsPresent() && strings.TrimSpace(rawContent.MustGet()) != "" {
		title = utils.TruncateThreadTitle(rawContent.MustGet(), threadTitleMaxRunes)
	}

	// 9. Alert staff in the first message. Subscriber reads matter only when
	// no alert role takes precedence
	var subscribers []*models.ThreadOpenAlert
	if settings.AlertRoleID == nil {
		subscribers, err = u.alertsService.ListAlertSubscribersByGuild(ctx, r.GuildID())
		if err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to list alert subscribers: %w", err))
		}
	}
	mention := buildAlertMention(settings, subscribers)

	// 10. Create the platform thread
	var created *clients.CreatedThread
	if channel.TagCapable() {
		var appliedTagIDs []string
		if maybeTag.IsPresent() {
			appliedTagIDs = []string{maybeTag.MustGet().ID}
		}
		created, err = u.gateway.CreateForumThread(ctx, channel.ID, title, mention, embed, appliedTagIDs)
		if err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to create forum thread: %w", err))
		}
	} else {
		sent, err := u.gateway.SendEmbed(ctx, channel.ID, mention, embed)
		if err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to send thread anchor message: %w", err))
		}
		created, err = u.gateway.CreateMessageThread(ctx, channel.ID, sent.ID, title)
		if err != nil {
			return nil, u.failOpen(ctx, r, fmt.Errorf("failed to create message thread: %w", err))
		}
	}

	// 11. Persist the record. The platform thread already exists, so a persist
	// failure leaves an orphaned channel that needs operator attention
	result, err := u.threadsService.CreateThread(ctx, r.GuildID(), created.ThreadID, r.TargetUserID(), r.ActorID())
	if err != nil {
		opsnotif.New(r.GuildID(), fmt.Sprintf(
			"Orphaned thread channel %s for user %s: record persistence failed: %v",
			created.ThreadID, r.TargetUserID(), err))
		return nil, u.failOpen(ctx, r, fmt.Errorf("failed to persist thread record: %w", err))
	}
	if result.Status == models.ThreadCreationStatusExisting {
		// Another writer won the insert race. Reuse its record and flag the
		// channel we just created as orphaned
		opsnotif.New(r.GuildID(), fmt.Sprintf(
			"Orphaned thread channel %s for user %s: concurrent open won, reusing thread %s",
			created.ThreadID, r.TargetUserID(), result.Thread.ID))
		return &openResult{thread: result.Thread, reused: true}, nil
	}

	return &openResult{thread: result.Thread}, nil
}

// failOpen tells the requester the open failed and passes the cause through.
// The reply itself is best effort.
func (u *ThreadOpenerUseCase) failOpen(ctx context.Context, r requester, err error) error {
	u.replyBestEffort(ctx, r, i18n.KeyThreadOpenFailed, nil)
	return err
}

func (u *ThreadOpenerUseCase) replyBestEffort(
	ctx context.Context,
	r requester,
	key string,
	params map[string]string,
) {
	text := u.translator.T(key, i18n.Args{Locale: r.Locale(), Params: params})
	if err := r.Reply(ctx, text); err != nil {
		log.Printf("⚠️ Failed to send reply to requester %s: %v", r.TargetUserID(), err)
	}
}
