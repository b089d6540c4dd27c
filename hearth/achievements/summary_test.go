package achievements

import (
	"reflect"
	"testing"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

func summaryDef(id, category, rarity string, enabled bool) *models.AchievementDefinition {
	return &models.AchievementDefinition{
		AchievementID: id,
		Name:          id,
		Category:      category,
		Rarity:        rarity,
		Enabled:       enabled,
		ConditionType: models.ConditionMessages,
	}
}

func TestSummarize(t *testing.T) {
	gen := buildGeneration([]*models.AchievementDefinition{
		summaryDef("level_10", models.CategoryLevel, models.RarityCommon, true),
		summaryDef("messages_100", models.CategoryMessage, models.RarityCommon, true),
		summaryDef("messages_500", models.CategoryMessage, models.RarityCommon, true),
		summaryDef("messages_1000", models.CategoryMessage, models.RarityRare, true),
	})

	record := models.NewUserAchievementRecord("user1", "guild1")
	record.Unlocked = []string{"messages_100"}
	record.Progress["messages_500"] = models.ProgressEntry{ProgressPercentage: 50}

	got := Summarize(gen, record)
	want := []CategorySummary{
		{Category: models.CategoryLevel, Total: 1, Completed: 0, InProgress: 0, CompletionPercentage: 0},
		{Category: models.CategoryMessage, Total: 3, Completed: 1, InProgress: 1, CompletionPercentage: 33.3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarize_nilRecord(t *testing.T) {
	gen := buildGeneration([]*models.AchievementDefinition{
		summaryDef("messages_100", models.CategoryMessage, models.RarityCommon, true),
	})

	got := Summarize(gen, nil)
	want := []CategorySummary{
		{Category: models.CategoryMessage, Total: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if got := Summarize(nil, nil); got != nil {
		t.Errorf("Summarize(nil, nil) = %v, want nil", got)
	}
}

func TestNextAchievements(t *testing.T) {
	gen := buildGeneration([]*models.AchievementDefinition{
		summaryDef("level_10", models.CategoryLevel, models.RarityCommon, true),
		summaryDef("messages_500", models.CategoryMessage, models.RarityCommon, true),
		summaryDef("messages_1000", models.CategoryMessage, models.RarityRare, true),
		summaryDef("hidden_one", models.CategorySpecial, models.RarityCommon, false),
	})

	record := models.NewUserAchievementRecord("user1", "guild1")
	record.Progress["messages_500"] = models.ProgressEntry{ProgressPercentage: 80}
	record.Progress["messages_1000"] = models.ProgressEntry{ProgressPercentage: 25}
	record.Progress["level_10"] = models.ProgressEntry{ProgressPercentage: 25}
	record.Progress["retired_badge"] = models.ProgressEntry{ProgressPercentage: 50}
	record.Progress["hidden_one"] = models.ProgressEntry{ProgressPercentage: 90}

	got := NextAchievements(gen, record, 0)

	// Highest progress first; the 25% tie resolves by rarity, common ahead
	// of rare. Entries for undefined or disabled achievements are dropped.
	want := []string{"messages_500", "level_10", "messages_1000"}
	ids := make([]string, len(got))
	for i, next := range got {
		ids[i] = next.Definition.AchievementID
	}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("NextAchievements() order = %v, want %v", ids, want)
	}

	if top := NextAchievements(gen, record, 2); len(top) != 2 || top[0].Definition.AchievementID != "messages_500" {
		t.Errorf("NextAchievements(n=2) = %v, want the top two entries", top)
	}

	if got := NextAchievements(nil, record, 3); got != nil {
		t.Errorf("NextAchievements(nil, ...) = %v, want nil", got)
	}
	if got := NextAchievements(gen, nil, 3); got != nil {
		t.Errorf("NextAchievements(..., nil, ...) = %v, want nil", got)
	}
}
