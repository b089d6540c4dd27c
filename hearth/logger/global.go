package logger

import (
	"log/slog"
	"time"
)

// LogEvent logs a gateway activity event being tracked
func LogEvent(eventType string, userID string, guildID string) {
	slog.Debug("Activity event",
		slog.String("type", "event"),
		slog.String("event_type", eventType),
		slog.String("user_id", userID),
		slog.String("guild_id", guildID),
	)
}

// LogUnlock logs a successful achievement unlock
func LogUnlock(userID string, achievementID string, rarity string) {
	slog.Info("Achievement unlocked",
		slog.String("type", "achievement"),
		slog.String("user_id", userID),
		slog.String("achievement_id", achievementID),
		slog.String("rarity", rarity),
	)
}

// LogQuery logs database operations
func LogQuery(query string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Query failed", append(attrs,
			slog.String("query", query),
			slog.Any("error", err),
		)...)
	} else {
		slog.Info("Query executed", append(attrs,
			slog.String("query", query),
		)...)
	}
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
