package achievements

import (
	"math"
	"sort"

	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// CategorySummary aggregates one category's completion state for a user.
type CategorySummary struct {
	Category             string
	Total                int
	Completed            int
	InProgress           int
	CompletionPercentage float64
}

// Summarize computes per-category completion from a user's record, ordered
// the same way the generation orders categories.
func Summarize(gen *Generation, record *models.UserAchievementRecord) []CategorySummary {
	if gen == nil {
		return nil
	}

	categories := make([]string, 0, len(gen.ByCategory))
	for name := range gen.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	summaries := make([]CategorySummary, 0, len(categories))
	for _, category := range categories {
		summary := CategorySummary{Category: category}
		for _, def := range gen.ByCategory[category] {
			summary.Total++
			switch {
			case record != nil && record.IsUnlocked(def.AchievementID):
				summary.Completed++
			case record != nil && hasProgress(record, def.AchievementID):
				summary.InProgress++
			}
		}
		if summary.Total > 0 {
			pct := float64(summary.Completed) / float64(summary.Total) * 100
			summary.CompletionPercentage = math.Round(pct*10) / 10
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// NextAchievement pairs an unearned definition with its progress entry.
type NextAchievement struct {
	Definition *models.AchievementDefinition
	Progress   models.ProgressEntry
}

// NextAchievements returns the closest unearned achievements, highest
// progress first, rarity as the tie break so cheaper unlocks surface ahead
// of legendary ones. n <= 0 uses the default of five.
func NextAchievements(gen *Generation, record *models.UserAchievementRecord, n int) []NextAchievement {
	if gen == nil || record == nil {
		return nil
	}
	if n <= 0 {
		n = config.NextAchievementTop
	}

	next := make([]NextAchievement, 0, len(record.Progress))
	for id, entry := range record.Progress {
		if record.IsUnlocked(id) {
			continue
		}
		def, ok := gen.Get(id)
		if !ok || !def.Enabled {
			continue
		}
		next = append(next, NextAchievement{Definition: def, Progress: entry})
	}

	sort.Slice(next, func(i, j int) bool {
		if next[i].Progress.ProgressPercentage != next[j].Progress.ProgressPercentage {
			return next[i].Progress.ProgressPercentage > next[j].Progress.ProgressPercentage
		}
		ri := models.RarityRank(next[i].Definition.Rarity)
		rj := models.RarityRank(next[j].Definition.Rarity)
		if ri != rj {
			return ri < rj
		}
		return next[i].Definition.AchievementID < next[j].Definition.AchievementID
	})

	if len(next) > n {
		next = next[:n]
	}
	return next
}

func hasProgress(record *models.UserAchievementRecord, id string) bool {
	if record.Progress == nil {
		return false
	}
	_, ok := record.Progress[id]
	return ok
}
