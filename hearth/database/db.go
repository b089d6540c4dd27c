package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"log/slog"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Add retry logic for initial connection
	var conn net.Conn
	var err error

	tryDial := func() (net.Conn, error) {
		addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
		force4 := os.Getenv("DB_DIAL_FORCE_IPV4") == "1"
		force6 := os.Getenv("DB_DIAL_FORCE_IPV6") == "1"

		if force4 {
			return net.DialTimeout("tcp4", addr, defaultConnTimeout)
		}
		if force6 {
			return net.DialTimeout("tcp6", addr, defaultConnTimeout)
		}

		// Prefer IPv4, then fall back to IPv6
		if c, e := net.DialTimeout("tcp4", addr, defaultConnTimeout); e == nil {
			return c, nil
		}
		return net.DialTimeout("tcp6", addr, defaultConnTimeout)
	}

	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = tryDial()
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	defer conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// Configure pool settings
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	return createDB(ctx, poolConfig)
}

// Helper function to build connection string
func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

// Helper function to create DB instance
func createDB(ctx context.Context, poolConfig *pgxpool.Config) (*DB, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	bunDB := newBunDB(pool)
	return &DB{pool: pool, bunDB: bunDB}, nil
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	// Default to disabling SSL for Bun unless explicitly overridden by env
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
		sslMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// ResetAppTables truncates application tables for a fresh start (PostgreSQL only)
func (db *DB) ResetAppTables(ctx context.Context) error {
	if db.bunDB == nil {
		return fmt.Errorf("bun DB not initialized")
	}

	// Candidate tables managed by this application
	candidates := []string{
		"activity_rollups",
		"user_achievements",
		"user_stats",
		"achievement_definitions",
	}

	// Verify present tables to avoid failures on missing ones
	rows, err := db.pool.Query(ctx, `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'`)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			present[name] = true
		}
	}

	var toTruncate []string
	for _, t := range candidates {
		if present[t] {
			toTruncate = append(toTruncate, t)
		}
	}

	if len(toTruncate) == 0 {
		slog.Warn("No app tables found to reset")
		return nil
	}

	// Build TRUNCATE statement safely
	stmt := "TRUNCATE TABLE " + joinIdentifiers(toTruncate) + " RESTART IDENTITY CASCADE;"
	if _, err := db.ExecWithLog(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	slog.Info("App tables truncated successfully", "tables", toTruncate)
	return nil
}

// joinIdentifiers joins identifiers with proper quoting
func joinIdentifiers(names []string) string {
	if len(names) == 0 {
		return ""
	}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", n)
	}
	return out
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Info("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Any("args", args),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "query"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return rows, err
	}

	slog.Info("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "query"),
		slog.String("query", sql),
		slog.Any("args", args),
		slog.Duration("took", duration),
	)
	return rows, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all required database tables and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.AchievementDefinition)(nil),
		(*models.UserStats)(nil),
		(*models.UserAchievementRecord)(nil),
		(*models.ActivityRollup)(nil),
	}

	// Create tables using Bun
	for _, model := range tables {
		query := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists()

		_, err := query.Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Apply schema migrations for existing tables FIRST
	if err := db.MigrateSchema(ctx); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Create indexes AFTER schema migrations
	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_user_achievements_user_guild ON user_achievements(user_id, guild_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_user_stats_user_guild ON user_stats(user_id, guild_id);",
		"CREATE INDEX IF NOT EXISTS idx_achievement_definitions_category ON achievement_definitions(category);",
		"CREATE INDEX IF NOT EXISTS idx_achievement_definitions_enabled ON achievement_definitions(enabled) WHERE enabled = true;",
		// Leaderboard reads scan a guild ordered by level then xp
		"CREATE INDEX IF NOT EXISTS idx_user_stats_guild_level ON user_stats(guild_id, level DESC, xp DESC);",
		"CREATE INDEX IF NOT EXISTS idx_activity_rollups_user ON activity_rollups(guild_id, user_id);",
		"CREATE INDEX IF NOT EXISTS idx_activity_rollups_date ON activity_rollups(date);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Seed the starter achievement set
	if err := db.InitializeAchievementData(ctx); err != nil {
		return fmt.Errorf("failed to initialize achievement data: %w", err)
	}

	return nil
}

// MigrateSchema applies necessary schema changes to existing tables
func (db *DB) MigrateSchema(ctx context.Context) error {
	// Add columns that shipped after the first schema cut
	userStatsColumnsSQL := []string{
		`ALTER TABLE user_stats ADD COLUMN IF NOT EXISTS prestige_level BIGINT NOT NULL DEFAULT 0;`,
		`ALTER TABLE user_stats ADD COLUMN IF NOT EXISTS guild_stats JSONB;`,
		`ALTER TABLE user_stats ADD COLUMN IF NOT EXISTS daily_activity JSONB;`,
		`ALTER TABLE user_stats ADD COLUMN IF NOT EXISTS hour_counts BIGINT[];`,
	}

	for _, sql := range userStatsColumnsSQL {
		if _, err := db.ExecWithLog(ctx, sql); err != nil {
			return fmt.Errorf("failed to add user_stats column: %w", err)
		}
	}

	// Add metadata column to achievement_definitions table if it doesn't exist
	metadataColumnSQL := `
		ALTER TABLE achievement_definitions
		ADD COLUMN IF NOT EXISTS metadata JSONB;
	`

	if _, err := db.ExecWithLog(ctx, metadataColumnSQL); err != nil {
		return fmt.Errorf("failed to add metadata column to achievement_definitions: %w", err)
	}

	// Add unique constraint to activity_rollups for upsert operations
	rollupConstraintSQL := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint
				WHERE conname = 'activity_rollups_unique_bucket'
			) THEN
				ALTER TABLE activity_rollups
				ADD CONSTRAINT activity_rollups_unique_bucket
				UNIQUE (guild_id, user_id, event_type, date);
			END IF;
		END $$;
	`

	if _, err := db.ExecWithLog(ctx, rollupConstraintSQL); err != nil {
		// Log but don't fail - constraint might already exist with different name
		slog.Warn("Failed to add unique constraint to activity_rollups (may already exist)",
			slog.Any("error", err))
	}

	return nil
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	// Check pgxpool connection
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}

	// Check bun connection
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}

	return nil
}

// InitializeAchievementData inserts or updates the starter achievement set
func (db *DB) InitializeAchievementData(ctx context.Context) error {
	type achievementDef struct {
		ID            string
		Name          string
		Description   string
		Category      string
		Rarity        string
		RewardXP      int64
		RewardEmbers  int64
		RewardTitle   string
		RewardBadges  []string
		ConditionType string
		ConditionData map[string]interface{}
	}

	messagesField := "message_stats.total_messages"
	voiceField := "voice_stats.voice_seconds"
	streakField := "streaks.daily_streak"

	achievements := []achievementDef{
		// Message milestones
		{"first_message", "Breaking the Ice", "Send your first message", "message", "common", 50, 10, "", nil, "messages", map[string]interface{}{"field": messagesField, "threshold": 1}},
		{"messages_100", "Getting Chatty", "Send 100 messages", "message", "common", 100, 25, "", nil, "messages", map[string]interface{}{"field": messagesField, "threshold": 100}},
		{"messages_1000", "Chatterbox", "Send 1,000 messages", "message", "uncommon", 500, 100, "Chatterbox", nil, "messages", map[string]interface{}{"field": messagesField, "threshold": 1000}},
		{"messages_10000", "Voice of the Hearth", "Send 10,000 messages", "message", "epic", 2500, 500, "", []string{"gilded_quill"}, "field", map[string]interface{}{"field": messagesField, "threshold": 10000}},
		{"attachments_100", "Show and Tell", "Share 100 attachments", "message", "uncommon", 300, 60, "", nil, "attachments_sent", map[string]interface{}{"field": "message_stats.attachments_sent", "threshold": 100}},

		// Activity streaks
		{"streak_7", "One Week Flame", "Stay active seven days in a row", "message", "uncommon", 300, 75, "", nil, "daily_streak", map[string]interface{}{"field": streakField, "threshold": 7}},
		{"streak_30", "Keeper of the Flame", "Stay active thirty days in a row", "message", "rare", 1500, 300, "Keeper of the Flame", nil, "daily_streak", map[string]interface{}{"field": streakField, "threshold": 30}},

		// Levels
		{"level_5", "Finding Your Feet", "Reach level 5", "level", "common", 100, 25, "", nil, "level", map[string]interface{}{"threshold": 5}},
		{"level_25", "Seasoned Regular", "Reach level 25", "level", "rare", 1000, 250, "Regular", nil, "level", map[string]interface{}{"threshold": 25}},
		{"level_50", "Pillar of the Hearth", "Reach level 50", "level", "epic", 2500, 600, "", []string{"hearth_pillar"}, "level", map[string]interface{}{"threshold": 50}},

		// Voice
		{"voice_hours_10", "Warming Up", "Spend 10 hours in voice channels", "voice", "uncommon", 400, 80, "", nil, "voice_time", map[string]interface{}{"field": voiceField, "threshold": 36000}},
		{"voice_hours_100", "Open Mic Fixture", "Spend 100 hours in voice channels", "voice", "epic", 2000, 400, "Open Mic Fixture", nil, "voice_time", map[string]interface{}{"field": voiceField, "threshold": 360000}},

		// Reactions
		{"reactions_given_100", "Cheerleader", "React to 100 messages", "reactions", "common", 150, 30, "", nil, "reactions_given", map[string]interface{}{"field": "reaction_stats.reactions_given", "threshold": 100}},
		{"reactions_got_500", "Crowd Favorite", "Collect 500 reactions on your messages", "reactions", "rare", 1000, 200, "Crowd Favorite", nil, "got_reactions", map[string]interface{}{"field": "reaction_stats.got_reactions", "threshold": 500}},

		// Calendar patterns
		{"night_owl", "Night Owl", "Send 100 messages between 23:00 and 04:00", "calendar", "rare", 800, 150, "", []string{"night_owl"}, "time_pattern", map[string]interface{}{"threshold": 100, "time_range": map[string]interface{}{"start": "23:00", "end": "04:00"}}},
		{"weekend_warrior", "Weekend Warrior", "Be active on eight different weekends", "calendar", "uncommon", 600, 120, "", nil, "weekend_activity", map[string]interface{}{"threshold": 8, "min_activity_per_weekend": 10}},

		// Tenure and one-offs
		{"member_year", "A Year by the Fire", "Be a member for a full year", "time_based", "rare", 1200, 250, "", nil, "time_based", map[string]interface{}{"threshold": 365, "unit": "days"}},
		{"anniversary", "Hearthday", "Drop by on your join anniversary", "special", "epic", 1000, 200, "", []string{"anniversary_flame"}, "custom", map[string]interface{}{"custom_type": "special_event", "event_type": "anniversary"}},
		{"prestige_1", "Born Anew", "Prestige for the first time", "prestige", "epic", 0, 1000, "Reborn", nil, "prestige_level", map[string]interface{}{"field": "prestige_level", "threshold": 1}},
		{"all_rounder", "All-Rounder", "Reach level 10 with 500 messages and an hour of voice", "special", "rare", 1500, 300, "", nil, "combination", map[string]interface{}{
			"operator": "and",
			"requirements": []interface{}{
				map[string]interface{}{"type": "level", "threshold": 10},
				map[string]interface{}{"type": "field", "field": messagesField, "threshold": 500},
				map[string]interface{}{"type": "field", "field": voiceField, "threshold": 3600},
			},
		}},
	}

	// enabled is set on insert only so admin toggles survive reseeding
	insertSQL := `
		INSERT INTO achievement_definitions (
			achievement_id, name, description, category, rarity, enabled,
			reward_xp, reward_embers, reward_title, reward_badges,
			condition_type, condition_data, metadata,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, true,
			$6, $7, $8, $9,
			$10, $11::jsonb, '{}'::jsonb,
			CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
		) ON CONFLICT (achievement_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			rarity = EXCLUDED.rarity,
			reward_xp = EXCLUDED.reward_xp,
			reward_embers = EXCLUDED.reward_embers,
			reward_title = EXCLUDED.reward_title,
			reward_badges = EXCLUDED.reward_badges,
			condition_type = EXCLUDED.condition_type,
			condition_data = EXCLUDED.condition_data,
			updated_at = CURRENT_TIMESTAMP;
	`

	for _, a := range achievements {
		data := a.ConditionData
		if data == nil {
			data = map[string]interface{}{}
		}
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal condition data for %s: %w", a.ID, err)
		}

		if _, err := db.ExecWithLog(ctx, insertSQL,
			a.ID, a.Name, a.Description, a.Category, a.Rarity,
			a.RewardXP, a.RewardEmbers, a.RewardTitle, a.RewardBadges,
			a.ConditionType, string(dataBytes),
		); err != nil {
			return fmt.Errorf("failed to upsert achievement %s: %w", a.ID, err)
		}
	}

	slog.Info("Achievement definitions initialized/updated successfully", slog.Int("count", len(achievements)))
	return nil
}
