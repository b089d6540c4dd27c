package achievements

import (
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// voiceTracker covers voice achievements: total time in seconds
// (voice_hours_X ids carry their target in hours and convert), session
// counts, and field conditions over voice stats.
type voiceTracker struct {
	now func() time.Time
}

func newVoiceTracker() *voiceTracker {
	return &voiceTracker{now: time.Now}
}

func (t *voiceTracker) Category() string { return models.CategoryVoice }

func (t *voiceTracker) Owns(def *models.AchievementDefinition) bool {
	switch def.ConditionType {
	case models.ConditionVoiceTime, models.ConditionVoiceSessions:
		return true
	case models.ConditionField:
		field := strings.ToLower(dataString(def.ConditionData, "field", ""))
		if strings.Contains(field, "voice") {
			return true
		}
	}
	id := strings.ToLower(def.AchievementID)
	if strings.HasPrefix(id, "voice_") || strings.Contains(id, "voice") {
		return true
	}
	return strings.EqualFold(def.Category, models.CategoryVoice)
}

func (t *voiceTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	var current, target float64
	var targetOK bool
	conditionType := def.ConditionType
	var field string

	switch def.ConditionType {
	case models.ConditionVoiceTime:
		current = stats.Voice.VoiceSeconds
		target, targetOK = t.target(def)
		field = conditionField(def, "voice_stats.voice_seconds")
	case models.ConditionVoiceSessions:
		current = float64(stats.Voice.VoiceSessions)
		target, targetOK = t.target(def)
		field = conditionField(def, "voice_stats.voice_sessions")
	case models.ConditionField:
		field = dataString(def.ConditionData, "field", "")
		current = fieldValue(stats.View(), field)
		target, targetOK = t.target(def)
	default:
		// Owned by id pattern only. Both sides track seconds so the
		// hours-derived target and the current value stay comparable.
		target, targetOK = t.target(def)
		id := strings.ToLower(def.AchievementID)
		if strings.Contains(id, "sessions") {
			current = float64(stats.Voice.VoiceSessions)
			conditionType = models.ConditionVoiceSessions
			field = "voice_stats.voice_sessions"
		} else {
			current = stats.Voice.VoiceSeconds
			conditionType = models.ConditionVoiceTime
			field = "voice_stats.voice_seconds"
		}
	}

	if !targetOK || target <= 0 {
		warnInvalidTarget(def.AchievementID)
		return models.ProgressEntry{}, false
	}
	return newEntry(current, target, conditionType, field, t.now())
}

func (t *voiceTracker) target(def *models.AchievementDefinition) (float64, bool) {
	if n, ok := conditionThreshold(def); ok {
		return n, true
	}
	if hours, ok := idSuffixNumber(def.AchievementID, "voice_hours_"); ok {
		return hours * 3600, true
	}
	if n, ok := idSuffixNumber(def.AchievementID, "voice_sessions_"); ok {
		return n, true
	}
	return metadataTarget(def, "target", "required", "count", "threshold")
}
