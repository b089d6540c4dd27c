package achievements

import (
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// reactionsTracker covers reactions_given and got_reactions achievements.
type reactionsTracker struct {
	now func() time.Time
}

func newReactionsTracker() *reactionsTracker {
	return &reactionsTracker{now: time.Now}
}

func (t *reactionsTracker) Category() string { return models.CategoryReactions }

func (t *reactionsTracker) Owns(def *models.AchievementDefinition) bool {
	return def.ConditionType == models.ConditionReactionsGiven ||
		def.ConditionType == models.ConditionGotReactions
}

func (t *reactionsTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	var current float64
	var field string
	switch def.ConditionType {
	case models.ConditionReactionsGiven:
		current = float64(stats.Reactions.ReactionsGiven)
		field = conditionField(def, "reaction_stats.reactions_given")
	case models.ConditionGotReactions:
		current = float64(stats.Reactions.GotReactions)
		field = conditionField(def, "reaction_stats.got_reactions")
	default:
		return models.ProgressEntry{}, false
	}

	target := dataFloat(def.ConditionData, "threshold", 1)
	if target <= 0 {
		return models.ProgressEntry{}, false
	}
	return newEntry(current, target, def.ConditionType, field, t.now())
}
