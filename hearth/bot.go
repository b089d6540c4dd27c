package hearth

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"

	"github.com/ellavondegurechaff/hearth/hearth/achievements"
	"github.com/ellavondegurechaff/hearth/hearth/database"
	"github.com/ellavondegurechaff/hearth/hearth/database/repositories"
	"github.com/ellavondegurechaff/hearth/hearth/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

type Bot struct {
	Cfg                   Config
	Client                bot.Client
	Version               string
	Commit                string
	DB                    *database.DB
	StatsRepository       repositories.StatsRepository
	AchievementRepository repositories.AchievementRepository
	DefinitionCache       *achievements.DefinitionCache
	Engine                *achievements.Engine
	SpacesService         *services.SpacesService
	Notifier              *services.UnlockNotifier
	ActivityBuffer        *services.ActivityBuffer
	ActivityTracker       *services.ActivityTracker
	BackfillService       *services.BackfillService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentGuildMessageReactions,
			gateway.IntentGuildVoiceStates,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagVoiceStates)),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Hearth is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("the crackle of the hearth"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
