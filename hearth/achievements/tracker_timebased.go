package achievements

import (
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// timeBasedTracker covers account-age achievements. Progress is elapsed time
// since the user was first seen, expressed in the condition's unit.
type timeBasedTracker struct {
	now func() time.Time
}

func newTimeBasedTracker() *timeBasedTracker {
	return &timeBasedTracker{now: time.Now}
}

func (t *timeBasedTracker) Category() string { return models.CategoryTimeBased }

func (t *timeBasedTracker) Owns(def *models.AchievementDefinition) bool {
	return def.ConditionType == models.ConditionTimeBased
}

func (t *timeBasedTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	if stats.CreatedAt.IsZero() {
		return models.ProgressEntry{}, false
	}
	target := dataFloat(def.ConditionData, "threshold", 1)
	if target <= 0 {
		return models.ProgressEntry{}, false
	}

	elapsed := t.now().Sub(stats.CreatedAt).Seconds()
	switch dataString(def.ConditionData, "unit", "days") {
	case "days":
		elapsed /= 86400
	case "hours":
		elapsed /= 3600
	case "minutes":
		elapsed /= 60
	}
	return newEntry(elapsed, target, models.ConditionTimeBased, "created_at", t.now())
}
