package achievements

import (
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// levelTracker covers level and XP milestones. An achievement counts as
// XP-based when its field or id mentions xp; everything else tracks level.
type levelTracker struct {
	now func() time.Time
}

func newLevelTracker() *levelTracker {
	return &levelTracker{now: time.Now}
}

func (t *levelTracker) Category() string { return models.CategoryLevel }

func (t *levelTracker) Owns(def *models.AchievementDefinition) bool {
	if def.ConditionType == models.ConditionLevel {
		return true
	}
	if def.ConditionType == models.ConditionField {
		field := strings.ToLower(dataString(def.ConditionData, "field", ""))
		if strings.Contains(field, "level") || strings.Contains(field, "xp") {
			return true
		}
	}
	if strings.HasPrefix(def.AchievementID, "level_") || strings.HasPrefix(def.AchievementID, "xp_") {
		return true
	}
	switch strings.ToLower(def.Category) {
	case "level", "leveling", "xp", "experience":
		return true
	}
	return false
}

func (t *levelTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	xpBased := t.isXPBased(def)

	var current, target float64
	var targetOK bool
	var conditionType, field string

	if xpBased {
		current = float64(stats.XP)
		target, targetOK = t.targetXP(def)
		conditionType = "xp"
		field = conditionField(def, "xp")
	} else {
		current = float64(stats.Level)
		target, targetOK = t.targetLevel(def)
		conditionType = models.ConditionLevel
		field = conditionField(def, "level")
	}

	if !targetOK || target <= 0 {
		warnInvalidTarget(def.AchievementID)
		return models.ProgressEntry{}, false
	}
	return newEntry(current, target, conditionType, field, t.now())
}

func (t *levelTracker) isXPBased(def *models.AchievementDefinition) bool {
	field := strings.ToLower(dataString(def.ConditionData, "field", ""))
	for _, keyword := range []string{"xp", "experience", "exp"} {
		if strings.Contains(field, keyword) {
			return true
		}
	}
	id := strings.ToLower(def.AchievementID)
	return strings.HasPrefix(id, "xp_") || strings.Contains(id, "xp")
}

func (t *levelTracker) targetLevel(def *models.AchievementDefinition) (float64, bool) {
	if n, ok := conditionThreshold(def); ok {
		return n, true
	}
	if n, ok := idSuffixNumber(def.AchievementID, "level_"); ok {
		return n, true
	}
	return metadataTarget(def, "target_level", "required_level", "level", "threshold")
}

func (t *levelTracker) targetXP(def *models.AchievementDefinition) (float64, bool) {
	if n, ok := conditionThreshold(def); ok {
		return n, true
	}
	if n, ok := idSuffixNumber(def.AchievementID, "xp_"); ok {
		return n, true
	}
	return metadataTarget(def, "target_xp", "required_xp", "xp", "experience", "threshold")
}
