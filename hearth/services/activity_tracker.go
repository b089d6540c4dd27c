package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/achievements"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/ellavondegurechaff/hearth/hearth/database/repositories"
)

// ActivityTracker provides a simple interface for recording user activity.
// Every Track method is fire-and-forget from the caller's point of view:
// failures are logged and swallowed so a database hiccup never reaches the
// gateway handlers.
type ActivityTracker struct {
	stats  repositories.StatsRepository
	engine *achievements.Engine
	buffer *ActivityBuffer
}

func NewActivityTracker(stats repositories.StatsRepository, engine *achievements.Engine, buffer *ActivityBuffer) *ActivityTracker {
	return &ActivityTracker{
		stats:  stats,
		engine: engine,
		buffer: buffer,
	}
}

// TrackMessage records one sent message with its attachment and link counts.
func (t *ActivityTracker) TrackMessage(ctx context.Context, guildID, channelID, userID string, length, attachments, links int, at time.Time) {
	if t.stats == nil {
		slog.Error("Stats repository is nil in TrackMessage")
		return
	}

	stats, err := t.stats.GetOrCreateStats(ctx, userID, guildID)
	if err != nil {
		slog.Warn("Failed to load stats for message event",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	t.bumpActivity(stats, at, 1, 0, 0)
	stats.Messages.TotalMessages++
	if attachments > 0 {
		stats.Messages.AttachmentMessages++
		stats.Messages.AttachmentsSent += int64(attachments)
	}
	stats.Messages.LinksSent += int64(links)

	if err := t.stats.SaveStats(ctx, stats); err != nil {
		slog.Warn("Failed to save stats for message event",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	if t.buffer != nil {
		t.buffer.Record(guildID, userID, models.EventMessage, at)
	}

	t.runEngine(ctx, userID, guildID, achievements.ActivityEvent{
		Type:            achievements.EventMessage,
		ChannelID:       channelID,
		MessageLength:   length,
		AttachmentCount: attachments,
		LinkCount:       links,
		Timestamp:       at,
	})
}

// TrackReaction records a reaction for both sides: the reactor's given count
// and the message author's received count. Both users get an achievement
// pass; only the reactor counts as active for streaks and rollups.
func (t *ActivityTracker) TrackReaction(ctx context.Context, guildID, channelID, reactorID, authorID, emoji string, at time.Time) {
	if t.stats == nil {
		slog.Error("Stats repository is nil in TrackReaction")
		return
	}

	stats, err := t.stats.GetOrCreateStats(ctx, reactorID, guildID)
	if err != nil {
		slog.Warn("Failed to load stats for reaction event",
			slog.String("user_id", reactorID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	t.bumpActivity(stats, at, 0, 0, 1)
	stats.Reactions.ReactionsGiven++
	if reactorID == authorID {
		stats.Reactions.GotReactions++
	}

	if err := t.stats.SaveStats(ctx, stats); err != nil {
		slog.Warn("Failed to save stats for reaction event",
			slog.String("user_id", reactorID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	if t.buffer != nil {
		t.buffer.Record(guildID, reactorID, models.EventReaction, at)
	}

	event := achievements.ActivityEvent{
		Type:      achievements.EventReaction,
		ChannelID: channelID,
		Emoji:     emoji,
		Timestamp: at,
	}
	t.runEngine(ctx, reactorID, guildID, event)

	if authorID == "" || authorID == reactorID {
		return
	}
	t.trackReceivedReaction(ctx, guildID, authorID, event)
}

// trackReceivedReaction bumps the author's received counter without touching
// their activity calendar; being reacted to is not the author's own activity.
func (t *ActivityTracker) trackReceivedReaction(ctx context.Context, guildID, authorID string, event achievements.ActivityEvent) {
	stats, err := t.stats.GetOrCreateStats(ctx, authorID, guildID)
	if err != nil {
		slog.Debug("Failed to load stats for reaction author",
			slog.String("user_id", authorID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	stats.Reactions.GotReactions++
	if err := t.stats.SaveStats(ctx, stats); err != nil {
		slog.Debug("Failed to save stats for reaction author",
			slog.String("user_id", authorID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	t.runEngine(ctx, authorID, guildID, event)
}

// TrackVoiceJoin records the start of a voice session. Session durations are
// accumulated separately through TrackVoiceTime by whoever measures them.
func (t *ActivityTracker) TrackVoiceJoin(ctx context.Context, guildID, channelID, userID string, at time.Time) {
	if t.stats == nil {
		slog.Error("Stats repository is nil in TrackVoiceJoin")
		return
	}

	stats, err := t.stats.GetOrCreateStats(ctx, userID, guildID)
	if err != nil {
		slog.Warn("Failed to load stats for voice event",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	t.bumpActivity(stats, at, 0, 1, 0)
	stats.Voice.VoiceSessions++

	if err := t.stats.SaveStats(ctx, stats); err != nil {
		slog.Warn("Failed to save stats for voice event",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	if t.buffer != nil {
		t.buffer.Record(guildID, userID, models.EventVoice, at)
	}

	t.runEngine(ctx, userID, guildID, achievements.ActivityEvent{
		Type:      achievements.EventVoice,
		ChannelID: channelID,
		Timestamp: at,
	})
}

// TrackVoiceTime adds measured voice seconds to the user's total.
func (t *ActivityTracker) TrackVoiceTime(ctx context.Context, guildID, userID string, seconds float64, at time.Time) {
	if t.stats == nil || seconds <= 0 {
		return
	}

	stats, err := t.stats.GetOrCreateStats(ctx, userID, guildID)
	if err != nil {
		slog.Warn("Failed to load stats for voice time",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	stats.Voice.VoiceSeconds += seconds
	if err := t.stats.SaveStats(ctx, stats); err != nil {
		slog.Warn("Failed to save stats for voice time",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return
	}

	t.runEngine(ctx, userID, guildID, achievements.ActivityEvent{
		Type:         achievements.EventVoice,
		VoiceSeconds: seconds,
		Timestamp:    at,
	})
}

// bumpActivity rolls the daily streak and bumps the calendar buckets for one
// event. The streak roll must happen before the day bump so "first activity
// today" is still observable.
func (t *ActivityTracker) bumpActivity(stats *models.UserStats, at time.Time, messages, voice, reactions int64) {
	rollDailyStreak(stats, at)
	stats.BumpDay(dateKey(at), messages, voice, reactions)
	stats.BumpHour(at.UTC().Hour())
}

func (t *ActivityTracker) runEngine(ctx context.Context, userID, guildID string, event achievements.ActivityEvent) {
	if t.engine == nil {
		return
	}
	if _, err := t.engine.ProcessEvent(ctx, userID, guildID, event); err != nil {
		slog.Debug("Achievement pass failed",
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
	}
}

// rollDailyStreak updates the consecutive-day streak on the first activity of
// a day: active yesterday extends the streak, a gap resets it to 1.
func rollDailyStreak(stats *models.UserStats, at time.Time) {
	today := dateKey(at)
	if stats.Day(today).Total() > 0 {
		return
	}

	yesterday := dateKey(at.UTC().AddDate(0, 0, -1))
	if stats.Day(yesterday).Total() > 0 {
		stats.Streaks.DailyStreak++
	} else {
		stats.Streaks.DailyStreak = 1
	}
}

// dateKey formats the UTC day bucket key used across stats and rollups.
func dateKey(at time.Time) string {
	return at.UTC().Format("2006-01-02")
}
