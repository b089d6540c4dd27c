package achievements

import (
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// messageTracker covers message-count achievements: messages_10 through
// messages_10000, first_message, and any field condition over message stats.
type messageTracker struct {
	now func() time.Time
}

func newMessageTracker() *messageTracker {
	return &messageTracker{now: time.Now}
}

func (t *messageTracker) Category() string { return models.CategoryMessage }

func (t *messageTracker) Owns(def *models.AchievementDefinition) bool {
	if def.ConditionType == models.ConditionMessages {
		return true
	}
	if def.ConditionType == models.ConditionField {
		field := strings.ToLower(dataString(def.ConditionData, "field", ""))
		if strings.Contains(field, "message") {
			return true
		}
	}
	return strings.HasPrefix(def.AchievementID, "messages_") || def.AchievementID == "first_message"
}

func (t *messageTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	target, ok := t.target(def)
	if !ok || target <= 0 {
		warnInvalidTarget(def.AchievementID)
		return models.ProgressEntry{}, false
	}
	current := float64(stats.Messages.TotalMessages)
	field := conditionField(def, "message_stats.total_messages")
	return newEntry(current, target, models.ConditionMessages, field, t.now())
}

func (t *messageTracker) target(def *models.AchievementDefinition) (float64, bool) {
	if n, ok := conditionThreshold(def); ok {
		return n, true
	}
	if n, ok := idSuffixNumber(def.AchievementID, "messages_"); ok {
		return n, true
	}
	if def.AchievementID == "first_message" {
		return 1, true
	}
	return metadataTarget(def, "target", "required", "count", "threshold")
}
