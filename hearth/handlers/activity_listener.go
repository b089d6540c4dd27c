package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/services"
)

// Gateway listeners that feed user activity into the tracker. Each event is
// handed off on its own goroutine with a bounded context so a slow database
// never stalls the gateway read loop. Bots and DMs are ignored throughout.

// MessageHandler tracks sent messages.
func MessageHandler(tracker *services.ActivityTracker) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.GuildID == nil || e.Message.Author.Bot {
			return
		}

		guildID := e.GuildID.String()
		channelID := e.ChannelID.String()
		userID := e.Message.Author.ID.String()
		length := len(e.Message.Content)
		attachments := len(e.Message.Attachments)
		links := countLinks(e.Message.Content)
		at := e.Message.CreatedAt

		dispatch(func(ctx context.Context) {
			tracker.TrackMessage(ctx, guildID, channelID, userID, length, attachments, links, at)
		})
	})
}

// ReactionHandler tracks added reactions, crediting both the reactor and the
// message author when the gateway names one.
func ReactionHandler(tracker *services.ActivityTracker) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageReactionAdd) {
		if e.Member.User.Bot {
			return
		}

		guildID := e.GuildID.String()
		channelID := e.ChannelID.String()
		reactorID := e.UserID.String()

		var authorID string
		if e.MessageAuthorID != nil {
			authorID = e.MessageAuthorID.String()
		}

		var emoji string
		if e.Emoji.Name != nil {
			emoji = *e.Emoji.Name
		}

		dispatch(func(ctx context.Context) {
			tracker.TrackReaction(ctx, guildID, channelID, reactorID, authorID, emoji, time.Now())
		})
	})
}

// VoiceStateHandler tracks channel joins. Leaving or moving between channels
// is not an activity signal, and session timing stays out of scope here.
func VoiceStateHandler(tracker *services.ActivityTracker) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildVoiceStateUpdate) {
		if e.Member.User.Bot {
			return
		}
		// A join is the transition from no channel to a channel
		if e.OldVoiceState.ChannelID != nil || e.VoiceState.ChannelID == nil {
			return
		}

		guildID := e.VoiceState.GuildID.String()
		channelID := e.VoiceState.ChannelID.String()
		userID := e.VoiceState.UserID.String()

		dispatch(func(ctx context.Context) {
			tracker.TrackVoiceJoin(ctx, guildID, channelID, userID, time.Now())
		})
	})
}

func dispatch(fn func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic in activity listener",
					slog.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func countLinks(content string) int {
	return strings.Count(content, "http://") + strings.Count(content, "https://")
}
