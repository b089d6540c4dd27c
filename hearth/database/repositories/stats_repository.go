package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/uptrace/bun"
)

type StatsRepository interface {
	GetOrCreateStats(ctx context.Context, userID, guildID string) (*models.UserStats, error)
	SaveStats(ctx context.Context, stats *models.UserStats) error
	GuildUserIDs(ctx context.Context, guildID string) ([]string, error)
	GuildRank(ctx context.Context, userID, guildID string) (int, error)

	// Activity rollups
	UpsertRollups(ctx context.Context, rollups []*models.ActivityRollup) error
	UserRollups(ctx context.Context, guildID, userID, since string) ([]*models.ActivityRollup, error)
}

type statsRepository struct {
	*BaseRepository
}

func NewStatsRepository(db *bun.DB) StatsRepository {
	return &statsRepository{BaseRepository: NewBaseRepository(db)}
}

// GetOrCreateStats returns the stats row for (userID, guildID), inserting a
// fresh level-1 row the first time a user shows up.
func (r *statsRepository) GetOrCreateStats(ctx context.Context, userID, guildID string) (*models.UserStats, error) {
	stats := new(models.UserStats)
	err := r.db.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("get_stats", "user_stats", err)
	}

	stats = models.NewUserStats(userID, guildID)
	_, err = r.db.NewInsert().
		Model(stats).
		On("CONFLICT (user_id, guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, r.HandleError("create_stats", "user_stats", err)
	}

	slog.Debug("Created stats row",
		slog.String("type", "db"),
		slog.String("user_id", userID),
		slog.String("guild_id", guildID))
	return stats, nil
}

func (r *statsRepository) SaveStats(ctx context.Context, stats *models.UserStats) error {
	stats.UpdatedAt = time.Now()
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = stats.UpdatedAt
	}

	_, err := r.db.NewInsert().
		Model(stats).
		On("CONFLICT (user_id, guild_id) DO UPDATE").
		Set("level = EXCLUDED.level").
		Set("xp = EXCLUDED.xp").
		Set("embers = EXCLUDED.embers").
		Set("prestige_level = EXCLUDED.prestige_level").
		Set("message_stats = EXCLUDED.message_stats").
		Set("voice_stats = EXCLUDED.voice_stats").
		Set("reaction_stats = EXCLUDED.reaction_stats").
		Set("streaks = EXCLUDED.streaks").
		Set("profile = EXCLUDED.profile").
		Set("guild_stats = EXCLUDED.guild_stats").
		Set("daily_activity = EXCLUDED.daily_activity").
		Set("hour_counts = EXCLUDED.hour_counts").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleError("save_stats", "user_stats", err)
}

func (r *statsRepository) GuildUserIDs(ctx context.Context, guildID string) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*models.UserStats)(nil)).
		Column("user_id").
		Where("guild_id = ?", guildID).
		Order("user_id ASC").
		Scan(ctx, &ids)

	if err != nil {
		return nil, r.HandleError("guild_user_ids", "user_stats", err)
	}
	return ids, nil
}

// GuildRank returns the user's 1-based position in the guild ordered by level
// then xp. Rank 0 means the user has no stats row yet.
func (r *statsRepository) GuildRank(ctx context.Context, userID, guildID string) (int, error) {
	stats := new(models.UserStats)
	err := r.db.NewSelect().
		Model(stats).
		Column("level", "xp").
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, r.HandleError("guild_rank", "user_stats", err)
	}

	ahead, err := r.db.NewSelect().
		Model((*models.UserStats)(nil)).
		Where("guild_id = ?", guildID).
		Where("(level > ?) OR (level = ? AND xp > ?)", stats.Level, stats.Level, stats.XP).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("guild_rank", "user_stats", err)
	}
	return ahead + 1, nil
}

// UpsertRollups merges a batch of per-day counter deltas into the rollup
// table. Counts are additive so a day keeps accumulating across flushes.
func (r *statsRepository) UpsertRollups(ctx context.Context, rollups []*models.ActivityRollup) error {
	if len(rollups) == 0 {
		return nil
	}

	now := time.Now()
	for _, rollup := range rollups {
		rollup.UpdatedAt = now
	}

	_, err := r.db.NewInsert().
		Model(&rollups).
		On("CONFLICT (guild_id, user_id, event_type, date) DO UPDATE").
		Set("count = ar.count + EXCLUDED.count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleError("upsert_rollups", "activity_rollup", err)
}

// UserRollups returns the user's rollup rows on or after the since date
// (YYYY-MM-DD), oldest first. An empty since returns everything.
func (r *statsRepository) UserRollups(ctx context.Context, guildID, userID, since string) ([]*models.ActivityRollup, error) {
	var rollups []*models.ActivityRollup
	q := r.db.NewSelect().
		Model(&rollups).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID)
	if since != "" {
		q = q.Where("date >= ?", since)
	}

	err := q.Order("date ASC").Scan(ctx)
	if err != nil {
		return nil, r.HandleError("user_rollups", "activity_rollup", err)
	}
	return rollups, nil
}
