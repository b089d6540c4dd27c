package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"

	"github.com/ellavondegurechaff/hearth/hearth"
	"github.com/ellavondegurechaff/hearth/hearth/achievements"
	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database"
	"github.com/ellavondegurechaff/hearth/hearth/database/repositories"
	"github.com/ellavondegurechaff/hearth/hearth/handlers"
	"github.com/ellavondegurechaff/hearth/hearth/logger"
	"github.com/ellavondegurechaff/hearth/hearth/migration"
	"github.com/ellavondegurechaff/hearth/hearth/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Initialize custom logger
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Hearth Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	importLegacy := flag.Bool("import-legacy", false, "Whether to import legacy BSON dumps before starting")
	legacyDir := flag.String("legacy-dir", "data", "Directory containing legacy .bson dump files")
	backfillGuild := flag.String("backfill-guild", "", "Guild ID to reload definitions and backfill progress for on startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := hearth.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	// Create context with longer timeout for database connection and initial setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Convert hearth.DBConfig to database.DBConfig
	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}

	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	// Add automatic schema initialization
	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	defer db.Close()

	b := hearth.New(*cfg, version, commit)
	b.DB = db

	// Import the legacy Mongo dump before any services start reading
	if *importLegacy {
		slog.Info("Importing legacy data", slog.String("dir", *legacyDir))
		migrator := migration.NewMigrator(db.BunDB(), *legacyDir)
		if err := migrator.MigrateAll(ctx); err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	// Initialize Spaces service for badge and showcase assets
	spacesService := services.NewSpacesService(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.BadgeRoot,
	)
	b.SpacesService = spacesService

	// Initialize repositories
	b.StatsRepository = repositories.NewStatsRepository(db.BunDB())
	b.AchievementRepository = repositories.NewAchievementRepository(db.BunDB())

	// Definition cache and unlock notifier feed the engine
	b.DefinitionCache = achievements.NewDefinitionCache(b.AchievementRepository)

	notifier := services.NewUnlockNotifier(nil, cfg.Achievements.AnnounceChannel)
	notifier.SetBadgeIconSource(spacesService)
	if cfg.Achievements.ShowcaseImages {
		showcaseService := services.NewShowcaseImageService(b.StatsRepository)
		notifier.SetShowcaseRenderer(showcaseService)
	}
	b.Notifier = notifier

	var engineNotifier achievements.Notifier
	if cfg.Achievements.AnnounceUnlocks {
		engineNotifier = notifier
	}
	b.Engine = achievements.NewEngine(b.AchievementRepository, b.DefinitionCache, engineNotifier)

	// Rollup buffer flushes daily counters on an interval
	flushInterval := config.RollupFlushInterval
	if cfg.Achievements.FlushSeconds > 0 {
		flushInterval = time.Duration(cfg.Achievements.FlushSeconds) * time.Second
	}
	b.ActivityBuffer = services.NewActivityBuffer(b.StatsRepository, flushInterval)
	b.ActivityBuffer.Start()

	b.ActivityTracker = services.NewActivityTracker(b.StatsRepository, b.Engine, b.ActivityBuffer)
	b.BackfillService = services.NewBackfillService(b.StatsRepository, b.Engine, b.DefinitionCache)

	// Warm the definition cache so the first event does not pay the load
	if _, err := b.DefinitionCache.EnsureLoaded(ctx); err != nil {
		slog.Warn("Failed to warm definition cache", slog.Any("error", err))
	}

	if err = b.SetupBot(
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageHandler(b.ActivityTracker),
		handlers.ReactionHandler(b.ActivityTracker),
		handlers.VoiceStateHandler(b.ActivityTracker),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}
	notifier.SetClient(b.Client)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *backfillGuild != "" {
		slog.Info("Running startup backfill",
			slog.String("type", "sys"),
			slog.String("guild_id", *backfillGuild),
		)
		if _, err := b.BackfillService.ReloadAndBackfill(ctx, *backfillGuild); err != nil {
			slog.Error("Startup backfill failed",
				slog.String("type", "sys"),
				slog.String("guild_id", *backfillGuild),
				slog.Any("error", err),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")

	if err := b.ActivityBuffer.Close(); err != nil {
		slog.Error("Failed to flush activity buffer", slog.Any("error", err))
	}
}
