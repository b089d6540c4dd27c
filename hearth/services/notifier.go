package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/ellavondegurechaff/hearth/hearth/achievements"
	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// ShowcaseRenderer produces a PNG celebrating a batch of unlocks. A nil
// renderer disables image attachments without disabling announcements.
type ShowcaseRenderer interface {
	RenderUnlock(ctx context.Context, userID, guildID string, unlocked []*models.AchievementDefinition) ([]byte, error)
}

// BadgeIconSource resolves badge ids to public icon URLs. Implemented by
// SpacesService.
type BadgeIconSource interface {
	BadgeImageURL(badgeID string) string
}

// UnlockNotifier announces achievement unlocks over Discord. It implements
// achievements.Notifier. Announcements go to the configured channel when one
// is set, otherwise to the user's DMs.
type UnlockNotifier struct {
	client      bot.Client
	channelID   snowflake.ID
	showcase    ShowcaseRenderer
	badges      BadgeIconSource
	mu          sync.RWMutex
	initialized bool
}

func NewUnlockNotifier(client bot.Client, channelID snowflake.ID) *UnlockNotifier {
	return &UnlockNotifier{
		client:      client,
		channelID:   channelID,
		initialized: client != nil,
	}
}

// SetClient swaps the Discord client in, for setups where the notifier is
// built before the gateway connects.
func (n *UnlockNotifier) SetClient(client bot.Client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.client = client
	n.initialized = true
}

// SetShowcaseRenderer attaches an image renderer to announcements.
func (n *UnlockNotifier) SetShowcaseRenderer(r ShowcaseRenderer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.showcase = r
}

// SetBadgeIconSource enables badge icon thumbnails on announcements.
func (n *UnlockNotifier) SetBadgeIconSource(src BadgeIconSource) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.badges = src
}

// NotifyUnlocked builds one embed for the whole batch and sends it. A render
// failure downgrades to a plain embed rather than dropping the announcement.
func (n *UnlockNotifier) NotifyUnlocked(ctx context.Context, userID, guildID string, unlocked []*models.AchievementDefinition, rewards achievements.RewardSummary) error {
	n.mu.RLock()
	if !n.initialized || n.client == nil {
		n.mu.RUnlock()
		return fmt.Errorf("unlock notifier not properly initialized: initialized=%v, client=%v",
			n.initialized, n.client != nil)
	}
	client := n.client
	channelID := n.channelID
	showcase := n.showcase
	badges := n.badges
	n.mu.RUnlock()

	if len(unlocked) == 0 {
		return nil
	}

	// Highest rarity leads the announcement
	sorted := make([]*models.AchievementDefinition, len(unlocked))
	copy(sorted, unlocked)
	sort.SliceStable(sorted, func(i, j int) bool {
		return models.RarityRank(sorted[i].Rarity) > models.RarityRank(sorted[j].Rarity)
	})
	top := sorted[0]

	title := fmt.Sprintf("%s Achievement Unlocked!", config.RarityEmojis[top.Rarity])
	if len(sorted) > 1 {
		title = fmt.Sprintf("%s %d Achievements Unlocked!", config.RarityEmojis[top.Rarity], len(sorted))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(formatUnlockLines(userID, sorted)).
		SetColor(config.RarityColor(top.Rarity)).
		SetTimestamp(time.Now())

	if lines := formatRewardLines(rewards); lines != "" {
		embed.AddField("Rewards", lines, false)
	}

	if badges != nil && len(rewards.Badges) > 0 {
		embed.SetThumbnail(badges.BadgeImageURL(rewards.Badges[0]))
	}

	var files []*discord.File
	if showcase != nil {
		img, err := showcase.RenderUnlock(ctx, userID, guildID, sorted)
		if err != nil {
			slog.Warn("Failed to render unlock showcase",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		} else if len(img) > 0 {
			files = append(files, discord.NewFile("showcase.png", "", bytes.NewReader(img)))
			embed.SetImage("attachment://showcase.png")
		}
	}

	if channelID != 0 {
		_, err := client.Rest().CreateMessage(channelID, discord.MessageCreate{
			Embeds: []discord.Embed{embed.Build()},
			Files:  files,
		})
		if err != nil {
			slog.Error("Failed to announce unlock to channel",
				slog.String("channel_id", channelID.String()),
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			return err
		}
		return nil
	}

	// No announce channel configured, fall back to DMs
	dmChannel, err := client.Rest().CreateDMChannel(snowflake.MustParse(userID))
	if err != nil {
		slog.Error("Failed to create DM channel for unlock",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return err
	}

	_, err = client.Rest().CreateMessage(dmChannel.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{embed.Build()},
		Files:  files,
	})
	if err != nil {
		slog.Error("Failed to send unlock DM",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func formatUnlockLines(userID string, defs []*models.AchievementDefinition) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<@%s> earned:\n", userID))
	for _, def := range defs {
		sb.WriteString(fmt.Sprintf("%s **%s**\n", config.RarityEmojis[def.Rarity], def.Name))
		if def.Description != "" {
			sb.WriteString(fmt.Sprintf("*%s*\n", def.Description))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatRewardLines(rewards achievements.RewardSummary) string {
	var lines []string
	if rewards.XP > 0 {
		lines = append(lines, fmt.Sprintf("+%d XP", rewards.XP))
	}
	if rewards.Embers > 0 {
		lines = append(lines, fmt.Sprintf("+%d 🔥", rewards.Embers))
	}
	for _, title := range rewards.Titles {
		lines = append(lines, fmt.Sprintf("Title: **%s**", title))
	}
	for _, badge := range rewards.Badges {
		lines = append(lines, fmt.Sprintf("Badge: `%s`", badge))
	}
	return strings.Join(lines, "\n")
}
