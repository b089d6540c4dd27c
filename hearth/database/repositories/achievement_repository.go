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

type AchievementRepository interface {
	// Engine store surface
	FindRecord(ctx context.Context, userID, guildID string) (*models.UserAchievementRecord, error)
	SaveRecord(ctx context.Context, record *models.UserAchievementRecord) error
	FindStats(ctx context.Context, userID, guildID string) (*models.UserStats, error)
	IncrementTotals(ctx context.Context, userID, guildID string, xp, embers int64) error
	ListEnabledDefinitions(ctx context.Context, category string) ([]*models.AchievementDefinition, error)

	// Definition administration
	GetDefinition(ctx context.Context, achievementID string) (*models.AchievementDefinition, error)
	ListDefinitions(ctx context.Context) ([]*models.AchievementDefinition, error)
	UpsertDefinition(ctx context.Context, def *models.AchievementDefinition) error
	SetDefinitionEnabled(ctx context.Context, achievementID string, enabled bool) error
	DeleteDefinition(ctx context.Context, achievementID string) error

	// Administrative resets
	ClearUserAchievements(ctx context.Context, userID, guildID string) error
	ClearGuildAchievements(ctx context.Context, guildID string) (int64, error)
}

type achievementRepository struct {
	*BaseRepository
}

func NewAchievementRepository(db *bun.DB) AchievementRepository {
	return &achievementRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *achievementRepository) FindRecord(ctx context.Context, userID, guildID string) (*models.UserAchievementRecord, error) {
	record := new(models.UserAchievementRecord)
	err := r.db.NewSelect().
		Model(record).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleError("find_record", "user_achievement", err)
	}
	return record, nil
}

func (r *achievementRepository) SaveRecord(ctx context.Context, record *models.UserAchievementRecord) error {
	record.UpdatedAt = time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.UpdatedAt
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (user_id, guild_id) DO UPDATE").
		Set("unlocked = EXCLUDED.unlocked").
		Set("progress = EXCLUDED.progress").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleError("save_record", "user_achievement", err)
}

func (r *achievementRepository) FindStats(ctx context.Context, userID, guildID string) (*models.UserStats, error) {
	stats := new(models.UserStats)
	err := r.db.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleError("find_stats", "user_stats", err)
	}
	return stats, nil
}

// IncrementTotals applies unlock rewards as one additive update so concurrent
// unlock passes never lose a grant. The stats row must already exist; reward
// grants only happen after the engine has read stats for the same user.
func (r *achievementRepository) IncrementTotals(ctx context.Context, userID, guildID string, xp, embers int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.UserStats)(nil)).
		Set("xp = xp + ?", xp).
		Set("embers = embers + ?", embers).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("increment_totals", "user_stats", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		slog.Warn("Reward increment matched no stats row",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.String("guild_id", guildID))
	}
	return nil
}

func (r *achievementRepository) ListEnabledDefinitions(ctx context.Context, category string) ([]*models.AchievementDefinition, error) {
	var defs []*models.AchievementDefinition
	q := r.db.NewSelect().
		Model(&defs).
		Where("enabled = true")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	err := q.Order("category ASC", "achievement_id ASC").Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list_enabled_definitions", "achievement_definition", err)
	}
	return defs, nil
}

func (r *achievementRepository) GetDefinition(ctx context.Context, achievementID string) (*models.AchievementDefinition, error) {
	def := new(models.AchievementDefinition)
	err := r.db.NewSelect().
		Model(def).
		Where("achievement_id = ?", achievementID).
		Scan(ctx)

	if err != nil {
		return nil, r.HandleErrorWithID("get_definition", "achievement_definition", achievementID, err)
	}
	return def, nil
}

func (r *achievementRepository) ListDefinitions(ctx context.Context) ([]*models.AchievementDefinition, error) {
	var defs []*models.AchievementDefinition
	err := r.db.NewSelect().
		Model(&defs).
		Order("category ASC", "achievement_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, r.HandleError("list_definitions", "achievement_definition", err)
	}
	return defs, nil
}

func (r *achievementRepository) UpsertDefinition(ctx context.Context, def *models.AchievementDefinition) error {
	def.UpdatedAt = time.Now()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = def.UpdatedAt
	}

	_, err := r.db.NewInsert().
		Model(def).
		On("CONFLICT (achievement_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("category = EXCLUDED.category").
		Set("rarity = EXCLUDED.rarity").
		Set("enabled = EXCLUDED.enabled").
		Set("reward_xp = EXCLUDED.reward_xp").
		Set("reward_embers = EXCLUDED.reward_embers").
		Set("reward_title = EXCLUDED.reward_title").
		Set("reward_badges = EXCLUDED.reward_badges").
		Set("condition_type = EXCLUDED.condition_type").
		Set("condition_data = EXCLUDED.condition_data").
		Set("metadata = EXCLUDED.metadata").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleErrorWithID("upsert_definition", "achievement_definition", def.AchievementID, err)
}

func (r *achievementRepository) SetDefinitionEnabled(ctx context.Context, achievementID string, enabled bool) error {
	res, err := r.db.NewUpdate().
		Model((*models.AchievementDefinition)(nil)).
		Set("enabled = ?", enabled).
		Set("updated_at = ?", time.Now()).
		Where("achievement_id = ?", achievementID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("set_definition_enabled", "achievement_definition", achievementID, err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Entity: "achievement_definition", ID: achievementID}
	}

	slog.Info("Achievement definition toggled",
		slog.String("achievement_id", achievementID),
		slog.Bool("enabled", enabled))
	return nil
}

func (r *achievementRepository) DeleteDefinition(ctx context.Context, achievementID string) error {
	res, err := r.db.NewDelete().
		Model((*models.AchievementDefinition)(nil)).
		Where("achievement_id = ?", achievementID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("delete_definition", "achievement_definition", achievementID, err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Entity: "achievement_definition", ID: achievementID}
	}
	return nil
}

func (r *achievementRepository) ClearUserAchievements(ctx context.Context, userID, guildID string) error {
	_, err := r.db.NewDelete().
		Model((*models.UserAchievementRecord)(nil)).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("clear_user_achievements", "user_achievement", err)
	}

	slog.Info("Cleared user achievements",
		slog.String("user_id", userID),
		slog.String("guild_id", guildID))
	return nil
}

func (r *achievementRepository) ClearGuildAchievements(ctx context.Context, guildID string) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*models.UserAchievementRecord)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, r.HandleError("clear_guild_achievements", "user_achievement", err)
	}

	rows, _ := res.RowsAffected()
	slog.Info("Cleared guild achievements",
		slog.String("guild_id", guildID),
		slog.Int64("records", rows))
	return rows, nil
}
