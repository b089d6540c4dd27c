package achievements

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// ProgressTracker computes progress entries for one category of
// achievements. Owns refines ownership within the category bucket, because
// hand-authored definitions sometimes land in a neighboring category.
type ProgressTracker interface {
	Category() string
	Owns(def *models.AchievementDefinition) bool

	// Entry computes the progress snapshot for one unearned achievement.
	// ok is false when the tracker has nothing meaningful to record, in
	// particular when the target resolves to zero or less.
	Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool)
}

// ProgressRegistry routes unearned achievements to the tracker of their
// category and merges the per-category results.
type ProgressRegistry struct {
	trackers []ProgressTracker
}

func NewProgressRegistry() *ProgressRegistry {
	return &ProgressRegistry{
		trackers: []ProgressTracker{
			newMessageTracker(),
			newStreakTracker(),
			newLevelTracker(),
			newVoiceTracker(),
			newReactionsTracker(),
			newTimeBasedTracker(),
			newCalendarTracker(),
		},
	}
}

// UpdateProgress recomputes progress entries for every unearned, enabled
// achievement in the categories the registry tracks. Categories without a
// tracker (special, social, prestige) produce no entries: their conditions
// are binary and carry no meaningful partial metric.
func (r *ProgressRegistry) UpdateProgress(stats *models.UserStats, event ActivityEvent, gen *Generation, record *models.UserAchievementRecord) map[string]models.ProgressEntry {
	updates := make(map[string]models.ProgressEntry)
	if gen == nil || stats == nil {
		return updates
	}

	for _, tracker := range r.trackers {
		for _, def := range gen.Category(tracker.Category()) {
			if def.AchievementID == "" || !def.Enabled {
				continue
			}
			if record != nil && record.IsUnlocked(def.AchievementID) {
				continue
			}
			if !tracker.Owns(def) {
				continue
			}
			entry, ok := tracker.Entry(def, stats, event)
			if !ok {
				continue
			}
			updates[def.AchievementID] = entry
			slog.Debug("Updated achievement progress",
				slog.String("achievement_id", def.AchievementID),
				slog.Float64("progress_percentage", entry.ProgressPercentage),
			)
		}
	}
	return updates
}

// newEntry builds a progress entry with the percentage capped at 100. A
// target of zero or less yields no entry: that is a misconfiguration, not 0%
// or 100% progress.
func newEntry(current, target float64, conditionType, field string, now time.Time) (models.ProgressEntry, bool) {
	if target <= 0 {
		return models.ProgressEntry{}, false
	}
	pct := math.Min(current/target*100, config.MaxProgressPercent)
	return models.ProgressEntry{
		CurrentValue:       current,
		TargetValue:        target,
		ProgressPercentage: pct,
		ConditionType:      conditionType,
		Field:              field,
		LastUpdated:        now.Unix(),
	}, true
}

// conditionThreshold reads the condition's numeric threshold when present.
func conditionThreshold(def *models.AchievementDefinition) (float64, bool) {
	if !hasKey(def.ConditionData, "threshold") {
		return 0, false
	}
	return toFloat(def.ConditionData["threshold"])
}

// conditionField reads the condition's field path, falling back to the
// category's canonical path.
func conditionField(def *models.AchievementDefinition, fallback string) string {
	if f := dataString(def.ConditionData, "field", ""); f != "" {
		return f
	}
	return fallback
}

// idSuffixNumber parses the numeric suffix of ids following the
// <prefix><number> naming convention, like messages_1000 or streak_30.
func idSuffixNumber(id, prefix string) (float64, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimPrefix(id, prefix), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// metadataTarget scans definition metadata for the first numeric value under
// the given keys.
func metadataTarget(def *models.AchievementDefinition, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := def.Metadata[key]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func warnInvalidTarget(achievementID string) {
	slog.Warn("Invalid target value for achievement",
		slog.String("type", "error"),
		slog.String("achievement_id", achievementID),
	)
}
