package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserStats is the per-user, per-guild activity ledger the evaluator reads
// from. The nested jsonb columns mirror the shape condition fields address
// with dotted paths (message_stats.total_messages, voice_stats.voice_seconds,
// streaks.daily_streak and so on).
type UserStats struct {
	bun.BaseModel `bun:"table:user_stats,alias:us"`

	ID            int64                  `bun:"id,pk,autoincrement"`
	UserID        string                 `bun:"user_id,notnull"`
	GuildID       string                 `bun:"guild_id,notnull"`
	Level         int64                  `bun:"level,notnull,default:1"`
	XP            int64                  `bun:"xp,notnull,default:0"`
	Embers        int64                  `bun:"embers,notnull,default:0"`
	PrestigeLevel int64                  `bun:"prestige_level,notnull,default:0"`
	Messages      MessageStats           `bun:"message_stats,type:jsonb"`
	Voice         VoiceStats             `bun:"voice_stats,type:jsonb"`
	Reactions     ReactionStats          `bun:"reaction_stats,type:jsonb"`
	Streaks       StreakStats            `bun:"streaks,type:jsonb"`
	Profile       map[string]interface{} `bun:"profile,type:jsonb"`
	Guild         GuildStats             `bun:"guild_stats,type:jsonb"`
	DailyActivity map[string]DayActivity `bun:"daily_activity,type:jsonb"`
	HourCounts    []int64                `bun:"hour_counts,array"`
	CreatedAt     time.Time              `bun:"created_at,notnull"`
	UpdatedAt     time.Time              `bun:"updated_at,notnull"`
}

type MessageStats struct {
	TotalMessages      int64 `json:"total_messages"`
	AttachmentMessages int64 `json:"attachment_messages"`
	LinksSent          int64 `json:"links_sent"`
	AttachmentsSent    int64 `json:"attachments_sent"`
}

type VoiceStats struct {
	VoiceSeconds  float64 `json:"voice_seconds"`
	VoiceSessions int64   `json:"voice_sessions"`
}

type ReactionStats struct {
	ReactionsGiven int64 `json:"reactions_given"`
	GotReactions   int64 `json:"got_reactions"`
}

type StreakStats struct {
	DailyStreak   int64 `json:"daily_streak"`
	QualityStreak int64 `json:"quality_streak"`
}

// GuildStats carries the guild-scoped facts guild_specific conditions check:
// role membership, permissions, boost state, channel activity and any custom
// metrics an admin tracks.
type GuildStats struct {
	Roles                []string           `json:"roles,omitempty"`
	RoleLevels           map[string]float64 `json:"role_levels,omitempty"`
	Permissions          []string           `json:"permissions,omitempty"`
	Boost                bool               `json:"boost"`
	BoostSince           int64              `json:"boost_since,omitempty"`
	VoiceChannelActivity float64            `json:"voice_channel_activity,omitempty"`
	TextChannelActivity  float64            `json:"text_channel_activity,omitempty"`
	CustomMetrics        map[string]float64 `json:"custom_metrics,omitempty"`
}

// DayActivity is one calendar day's activity inside the daily_activity map,
// keyed by YYYY-MM-DD.
type DayActivity struct {
	MessageCount  int64 `json:"message_count"`
	VoiceCount    int64 `json:"voice_count"`
	ReactionCount int64 `json:"reaction_count"`
}

// Total sums all activity kinds for the day.
func (d DayActivity) Total() int64 {
	return d.MessageCount + d.VoiceCount + d.ReactionCount
}

// NewUserStats returns a zeroed stats row for (userID, guildID) with level 1
// and timestamps set to now.
func NewUserStats(userID, guildID string) *UserStats {
	now := time.Now()
	return &UserStats{
		UserID:        userID,
		GuildID:       guildID,
		Level:         1,
		Profile:       make(map[string]interface{}),
		DailyActivity: make(map[string]DayActivity),
		HourCounts:    make([]int64, 24),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Day returns the activity bucket for a YYYY-MM-DD key, zero if absent.
func (s *UserStats) Day(date string) DayActivity {
	if s.DailyActivity == nil {
		return DayActivity{}
	}
	return s.DailyActivity[date]
}

// BumpDay adds counts to the bucket for date, creating it if needed.
func (s *UserStats) BumpDay(date string, messages, voice, reactions int64) {
	if s.DailyActivity == nil {
		s.DailyActivity = make(map[string]DayActivity)
	}
	day := s.DailyActivity[date]
	day.MessageCount += messages
	day.VoiceCount += voice
	day.ReactionCount += reactions
	s.DailyActivity[date] = day
}

// BumpHour increments the histogram bucket for hour (0-23). Out of range
// hours are ignored.
func (s *UserStats) BumpHour(hour int) {
	if hour < 0 || hour > 23 {
		return
	}
	if len(s.HourCounts) != 24 {
		counts := make([]int64, 24)
		copy(counts, s.HourCounts)
		s.HourCounts = counts
	}
	s.HourCounts[hour]++
}

// HourCount returns the histogram value for hour, zero when the histogram is
// missing or the hour is out of range.
func (s *UserStats) HourCount(hour int) int64 {
	if hour < 0 || hour >= len(s.HourCounts) {
		return 0
	}
	return s.HourCounts[hour]
}

// View materializes the stats as a nested map so condition fields can be
// resolved with dotted paths. Top-level aliases (messages, level) are kept
// alongside the nested groups because older definitions address both shapes.
func (s *UserStats) View() map[string]interface{} {
	view := map[string]interface{}{
		"level":          s.Level,
		"xp":             s.XP,
		"embers":         s.Embers,
		"prestige_level": s.PrestigeLevel,
		"messages":       s.Messages.TotalMessages,
		"created_at":     s.CreatedAt.Unix(),
		"message_stats": map[string]interface{}{
			"total_messages":      s.Messages.TotalMessages,
			"attachment_messages": s.Messages.AttachmentMessages,
			"links_sent":          s.Messages.LinksSent,
			"attachments_sent":    s.Messages.AttachmentsSent,
		},
		"voice_stats": map[string]interface{}{
			"voice_seconds":  s.Voice.VoiceSeconds,
			"voice_sessions": s.Voice.VoiceSessions,
		},
		"reaction_stats": map[string]interface{}{
			"reactions_given": s.Reactions.ReactionsGiven,
			"got_reactions":   s.Reactions.GotReactions,
		},
		"streaks": map[string]interface{}{
			"daily_streak":   s.Streaks.DailyStreak,
			"quality_streak": s.Streaks.QualityStreak,
		},
	}
	if s.Profile != nil {
		view["profile"] = s.Profile
	}
	guild := map[string]interface{}{
		"boost": s.Guild.Boost,
	}
	if s.Guild.BoostSince != 0 {
		guild["boost_since"] = s.Guild.BoostSince
	}
	if s.Guild.CustomMetrics != nil {
		metrics := make(map[string]interface{}, len(s.Guild.CustomMetrics))
		for name, value := range s.Guild.CustomMetrics {
			metrics[name] = value
		}
		guild["custom_metrics"] = metrics
	}
	view["guild_stats"] = guild
	return view
}
