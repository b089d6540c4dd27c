package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/ellavondegurechaff/hearth/hearth/logger"
)

// Engine runs the unlock pipeline for one (user, guild, activity event)
// triple: load state, evaluate unearned achievements, persist new unlocks,
// grant rewards, notify, then reconcile progress entries.
//
// Each step commits independently. A failing step stops the pipeline and
// leaves earlier steps in place; the next triggering event picks up from the
// persisted state. The record is re-read from the store on every pass, never
// cached across invocations.
type Engine struct {
	store     Store
	cache     *DefinitionCache
	evaluator *Evaluator
	progress  *ProgressRegistry
	notifier  Notifier
	now       func() time.Time
}

// NewEngine wires an engine against a store and a shared definition cache.
// notifier may be nil when unlock announcements are not wanted.
func NewEngine(store Store, cache *DefinitionCache, notifier Notifier) *Engine {
	return &Engine{
		store:     store,
		cache:     cache,
		evaluator: NewEvaluator(),
		progress:  NewProgressRegistry(),
		notifier:  notifier,
		now:       time.Now,
	}
}

// Result summarizes one pass of the unlock pipeline.
type Result struct {
	Unlocked []*models.AchievementDefinition
	Rewards  RewardSummary
}

// ProcessEvent runs the full pipeline. It returns the unlocks it persisted
// even when a later step failed, so callers can tell what took effect.
func (e *Engine) ProcessEvent(ctx context.Context, userID, guildID string, event ActivityEvent) (*Result, error) {
	gen, err := e.cache.EnsureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
	}
	record, err := e.store.FindRecord(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement record: %w", err)
	}
	if record == nil {
		record = models.NewUserAchievementRecord(userID, guildID)
	}
	stats, err := e.store.FindStats(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	if stats == nil {
		stats = models.NewUserStats(userID, guildID)
	}

	result := &Result{}
	for _, def := range gen.All() {
		if !def.Enabled || record.IsUnlocked(def.AchievementID) {
			continue
		}
		if e.evaluate(def, userID, guildID, event, stats, record) {
			result.Unlocked = append(result.Unlocked, def)
		}
	}

	if len(result.Unlocked) == 0 {
		e.reconcileProgress(ctx, record, stats, event, gen)
		return result, nil
	}

	for _, def := range result.Unlocked {
		record.MarkUnlocked(def.AchievementID)
		result.Rewards.Add(def)
	}
	record.UpdatedAt = e.now()
	if err := e.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save achievement record: %w", err)
	}

	if err := e.store.IncrementTotals(ctx, userID, guildID, result.Rewards.XP, result.Rewards.Embers); err != nil {
		return result, fmt.Errorf("failed to grant rewards: %w", err)
	}

	for _, def := range result.Unlocked {
		logger.LogUnlock(userID, def.AchievementID, def.Rarity)
	}
	if e.notifier != nil {
		if err := e.notifier.NotifyUnlocked(ctx, userID, guildID, result.Unlocked, result.Rewards); err != nil {
			slog.Warn("Unlock notification failed",
				slog.String("type", "error"),
				slog.String("user_id", userID),
				slog.String("guild_id", guildID),
				slog.Any("error", err),
			)
		}
	}

	e.reconcileProgress(ctx, record, stats, event, gen)
	return result, nil
}

// evaluate isolates one achievement's evaluation so a panic in a single
// condition cannot take down the rest of the pass.
func (e *Engine) evaluate(def *models.AchievementDefinition, userID, guildID string, event ActivityEvent, stats *models.UserStats, record *models.UserAchievementRecord) (met bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Achievement evaluation panicked",
				slog.String("type", "error"),
				slog.String("achievement_id", def.AchievementID),
				slog.Any("panic", r),
			)
			met = false
		}
	}()
	return e.evaluator.Evaluate(def, userID, guildID, event, stats, record)
}

// reconcileProgress recomputes progress for still-unearned achievements and
// prunes entries for achievements that are unlocked or no longer defined.
// Failures here are logged, not returned: the next event recomputes progress
// from scratch anyway.
func (e *Engine) reconcileProgress(ctx context.Context, record *models.UserAchievementRecord, stats *models.UserStats, event ActivityEvent, gen *Generation) {
	updates := e.progress.UpdateProgress(stats, event, gen, record)

	changed := false
	for id, entry := range updates {
		if record.IsUnlocked(id) {
			continue
		}
		if entry.ProgressPercentage >= config.MaxProgressPercent {
			slog.Warn("Achievement shows full progress but is not unlocked",
				slog.String("achievement_id", id),
				slog.String("user_id", record.UserID),
				slog.String("guild_id", record.GuildID),
			)
		}
		record.SetProgress(id, entry)
		changed = true
	}
	for id := range record.Progress {
		if record.IsUnlocked(id) {
			delete(record.Progress, id)
			changed = true
			continue
		}
		if _, ok := gen.Get(id); !ok {
			delete(record.Progress, id)
			changed = true
		}
	}

	if !changed {
		return
	}
	record.UpdatedAt = e.now()
	if err := e.store.SaveRecord(ctx, record); err != nil {
		slog.Error("Failed to save achievement progress",
			slog.String("type", "error"),
			slog.String("user_id", record.UserID),
			slog.String("guild_id", record.GuildID),
			slog.Any("error", err),
		)
	}
}
