package achievements

import (
	"context"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// Store is the persistence boundary the engine runs against. Lookups return
// (nil, nil) when no row exists; the engine creates records lazily. All
// methods are expected to honor the deadline on ctx.
type Store interface {
	// FindRecord returns the achievement record for (userID, guildID),
	// or nil when the user has none yet.
	FindRecord(ctx context.Context, userID, guildID string) (*models.UserAchievementRecord, error)

	// SaveRecord persists the record, inserting or replacing as needed.
	SaveRecord(ctx context.Context, record *models.UserAchievementRecord) error

	// FindStats returns the aggregate stats snapshot for (userID, guildID),
	// or nil when the user has no stats yet.
	FindStats(ctx context.Context, userID, guildID string) (*models.UserStats, error)

	// IncrementTotals applies reward xp and embers to the user's totals in
	// one atomic increment.
	IncrementTotals(ctx context.Context, userID, guildID string, xp, embers int64) error

	// ListEnabledDefinitions returns all enabled achievement definitions,
	// optionally restricted to one category.
	ListEnabledDefinitions(ctx context.Context, category string) ([]*models.AchievementDefinition, error)
}

// Notifier receives unlock announcements. Delivery is fire-and-forget: a
// returned error is logged by the engine and never rolls back persisted
// state.
type Notifier interface {
	NotifyUnlocked(ctx context.Context, userID, guildID string, unlocked []*models.AchievementDefinition, rewards RewardSummary) error
}

// RewardSummary is the additive total of rewards across one pass's unlocks.
type RewardSummary struct {
	XP     int64
	Embers int64
	Titles []string
	Badges []string
}

// Add folds one definition's rewards into the summary.
func (r *RewardSummary) Add(def *models.AchievementDefinition) {
	r.XP += def.RewardXP
	r.Embers += def.RewardEmbers
	if def.RewardTitle != "" {
		r.Titles = append(r.Titles, def.RewardTitle)
	}
	r.Badges = append(r.Badges, def.RewardBadges...)
}

// Empty reports whether the summary carries no rewards at all.
func (r RewardSummary) Empty() bool {
	return r.XP == 0 && r.Embers == 0 && len(r.Titles) == 0 && len(r.Badges) == 0
}
