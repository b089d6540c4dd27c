package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ellavondegurechaff/hearth/hearth/achievements"
	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/ellavondegurechaff/hearth/hearth/database/repositories"
)

// BackfillService reruns the achievement pipeline for every known user of a
// guild. It is meant for after definition changes: a reload can make users
// retroactively qualify, and their progress entries need recomputing either
// way.
type BackfillService struct {
	stats  repositories.StatsRepository
	engine *achievements.Engine
	cache  *achievements.DefinitionCache
}

// BackfillStats counts one backfill run. Processed and Errors are bumped
// atomically by the worker goroutines.
type BackfillStats struct {
	GuildID   string
	UserCount int
	Processed int32
	Restored  int32
	Errors    int32
	StartTime time.Time
}

func NewBackfillService(stats repositories.StatsRepository, engine *achievements.Engine, cache *achievements.DefinitionCache) *BackfillService {
	return &BackfillService{
		stats:  stats,
		engine: engine,
		cache:  cache,
	}
}

// ReloadAndBackfill refreshes the definition cache, then recomputes the
// whole guild against the new generation.
func (s *BackfillService) ReloadAndBackfill(ctx context.Context, guildID string) (*BackfillStats, error) {
	if _, err := s.cache.Reload(ctx); err != nil {
		return nil, fmt.Errorf("failed to reload definitions: %w", err)
	}
	return s.BackfillGuild(ctx, guildID)
}

// BackfillGuild runs the pipeline once per user with a bounded worker pool.
// Per-user failures are counted and logged, not fatal; the error return only
// reports being unable to run at all.
func (s *BackfillService) BackfillGuild(ctx context.Context, guildID string) (*BackfillStats, error) {
	stats := &BackfillStats{
		GuildID:   guildID,
		StartTime: time.Now(),
	}

	userIDs, err := s.stats.GuildUserIDs(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild users: %w", err)
	}
	stats.UserCount = len(userIDs)

	slog.Info("Starting guild backfill",
		slog.String("guild_id", guildID),
		slog.Int("user_count", stats.UserCount))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(config.BackfillWorkers))

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			userCtx, cancel := context.WithTimeout(gctx, config.DefaultQueryTimeout)
			defer cancel()

			if restored, err := s.restoreDailyActivity(userCtx, userID, guildID); err != nil {
				slog.Warn("Failed to restore daily activity",
					slog.String("user_id", userID),
					slog.String("guild_id", guildID),
					slog.String("error", err.Error()))
			} else if restored {
				atomic.AddInt32(&stats.Restored, 1)
			}

			event := achievements.ActivityEvent{
				Type:      achievements.EventMessage,
				Timestamp: time.Now(),
			}
			if _, err := s.engine.ProcessEvent(userCtx, userID, guildID, event); err != nil {
				atomic.AddInt32(&stats.Errors, 1)
				slog.Warn("Backfill pass failed for user",
					slog.String("user_id", userID),
					slog.String("guild_id", guildID),
					slog.String("error", err.Error()))
				return nil
			}

			atomic.AddInt32(&stats.Processed, 1)
			return nil
		})
	}

	err = g.Wait()

	slog.Info("Guild backfill completed",
		slog.String("guild_id", guildID),
		slog.Int("user_count", stats.UserCount),
		slog.Int("processed", int(atomic.LoadInt32(&stats.Processed))),
		slog.Int("restored", int(atomic.LoadInt32(&stats.Restored))),
		slog.Int("errors", int(atomic.LoadInt32(&stats.Errors))),
		slog.Duration("elapsed", time.Since(stats.StartTime)))

	return stats, err
}

// restoreDailyActivity rebuilds the daily activity map from persisted
// rollups for stats rows that predate calendar tracking. It reports whether
// a rebuild happened.
func (s *BackfillService) restoreDailyActivity(ctx context.Context, userID, guildID string) (bool, error) {
	userStats, err := s.stats.GetOrCreateStats(ctx, userID, guildID)
	if err != nil {
		return false, err
	}
	if len(userStats.DailyActivity) > 0 {
		return false, nil
	}

	since := time.Now().UTC().AddDate(0, 0, -config.RollupRestoreDays).Format("2006-01-02")
	rollups, err := s.stats.UserRollups(ctx, guildID, userID, since)
	if err != nil {
		return false, err
	}
	if len(rollups) == 0 {
		return false, nil
	}

	for _, rollup := range rollups {
		switch rollup.EventType {
		case models.EventMessage:
			userStats.BumpDay(rollup.Date, rollup.Count, 0, 0)
		case models.EventVoice:
			userStats.BumpDay(rollup.Date, 0, rollup.Count, 0)
		case models.EventReaction:
			userStats.BumpDay(rollup.Date, 0, 0, rollup.Count)
		}
	}

	if err := s.stats.SaveStats(ctx, userStats); err != nil {
		return false, err
	}

	slog.Debug("Restored daily activity from rollups",
		slog.String("user_id", userID),
		slog.String("guild_id", guildID),
		slog.Int("days", len(rollups)))
	return true, nil
}
