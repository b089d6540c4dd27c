// converters.go
package migration

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

func (m *Migrator) convertMember(mm MongoMember) *models.UserStats {
	now := time.Now()

	level := int64(mm.Level)
	if level < 1 {
		level = 1
	}

	stats := &models.UserStats{
		UserID:        mm.DiscordID,
		GuildID:       mm.GuildID,
		Level:         level,
		XP:            int64(mm.Exp),
		Embers:        int64(mm.Embers),
		PrestigeLevel: int64(mm.Prestige),
		Messages:      convertMessageStats(mm.Messages),
		Voice:         convertVoiceStats(mm.Voice),
		Reactions:     convertReactionStats(mm.Reactions),
		Streaks:       convertStreaks(mm.Streaks),
		Profile:       convertProfile(mm.Profile),
		DailyActivity: make(map[string]models.DayActivity),
		HourCounts:    convertHours(mm.Hours),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The legacy activity map only counted messages per day
	for date, count := range mm.Activity {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}
		stats.BumpDay(date, int64(count), 0, 0)
	}

	if !mm.Joined.IsZero() {
		stats.CreatedAt = mm.Joined
	}

	return stats
}

func convertMessageStats(ms MongoMessageStats) models.MessageStats {
	return models.MessageStats{
		TotalMessages:      int64(ms.Total),
		AttachmentMessages: int64(ms.WithFiles),
		LinksSent:          int64(ms.Links),
		AttachmentsSent:    int64(ms.Attachments),
	}
}

func convertVoiceStats(vs MongoVoiceStats) models.VoiceStats {
	return models.VoiceStats{
		VoiceSeconds:  vs.Seconds,
		VoiceSessions: int64(vs.Sessions),
	}
}

func convertReactionStats(rs MongoReactionStats) models.ReactionStats {
	return models.ReactionStats{
		ReactionsGiven: int64(rs.Given),
		GotReactions:   int64(rs.Received),
	}
}

func convertStreaks(st MongoStreaks) models.StreakStats {
	return models.StreakStats{
		DailyStreak:   int64(st.Daily),
		QualityStreak: int64(st.Quality),
	}
}

func convertProfile(p MongoProfile) map[string]interface{} {
	profile := make(map[string]interface{})
	if bio := cleanseString(p.Bio); bio != "" {
		profile["bio"] = bio
	}
	if title := cleanseString(p.Title); title != "" {
		profile["title"] = title
	}
	if color := cleanseString(p.Color); color != "" {
		profile["color"] = color
	}
	return profile
}

func convertHours(hours []float64) []int64 {
	counts := make([]int64, 24)
	for hour, count := range hours {
		if hour >= 24 {
			break
		}
		counts[hour] = int64(count)
	}
	return counts
}

func (m *Migrator) convertAchievements(ma MongoMemberAchievements) *models.UserAchievementRecord {
	now := time.Now()

	record := &models.UserAchievementRecord{
		UserID:    ma.UserID,
		GuildID:   ma.GuildID,
		Unlocked:  []string{},
		Progress:  make(map[string]models.ProgressEntry),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !ma.UpdatedAt.IsZero() {
		record.UpdatedAt = ma.UpdatedAt
	}

	seen := make(map[string]bool)
	for _, id := range ma.Completed {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		record.Unlocked = append(record.Unlocked, id)
	}

	lastUpdated := record.UpdatedAt.Unix()
	for id, prog := range ma.Progress {
		id = strings.TrimSpace(id)
		// Unlocked achievements never carry progress entries
		if id == "" || seen[id] {
			continue
		}
		percent := prog.Percent
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		record.Progress[id] = models.ProgressEntry{
			CurrentValue:       prog.Current,
			TargetValue:        prog.Target,
			ProgressPercentage: percent,
			ConditionType:      cleanseString(prog.Type),
			LastUpdated:        lastUpdated,
		}
	}

	return record
}

// cleanseString removes null bytes, invalid UTF-8 sequences, and control
// characters that postgres rejects in text columns
func cleanseString(s string) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		// Remove null runes and most control characters (keep tab, newline, carriage return)
		if r == 0 || (r < 32 && r != 9 && r != 10 && r != 13) {
			continue
		}
		result.WriteRune(r)
	}

	return strings.TrimSpace(result.String())
}
