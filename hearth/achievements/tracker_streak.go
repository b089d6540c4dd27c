package achievements

import (
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// streakTracker covers daily streak achievements. Streaks are driven by
// messaging so their definitions live in the message category, alongside the
// plain count achievements the messageTracker owns.
type streakTracker struct {
	now func() time.Time
}

func newStreakTracker() *streakTracker {
	return &streakTracker{now: time.Now}
}

func (t *streakTracker) Category() string { return models.CategoryMessage }

func (t *streakTracker) Owns(def *models.AchievementDefinition) bool {
	return def.ConditionType == models.ConditionDailyStreak ||
		strings.HasPrefix(def.AchievementID, "streak_")
}

func (t *streakTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	target, ok := t.target(def)
	if !ok || target <= 0 {
		warnInvalidTarget(def.AchievementID)
		return models.ProgressEntry{}, false
	}
	current := float64(stats.Streaks.DailyStreak)
	field := conditionField(def, "streaks.daily_streak")
	return newEntry(current, target, models.ConditionDailyStreak, field, t.now())
}

func (t *streakTracker) target(def *models.AchievementDefinition) (float64, bool) {
	if n, ok := conditionThreshold(def); ok {
		return n, true
	}
	return idSuffixNumber(def.AchievementID, "streak_")
}
