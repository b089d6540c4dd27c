package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/ellavondegurechaff/hearth/hearth/database/repositories"
)

// ShowcaseImageService renders unlock showcase PNGs with a headless browser.
// It implements ShowcaseRenderer for the notifier.
type ShowcaseImageService struct {
	stats  repositories.StatsRepository
	logger *slog.Logger
}

type ShowcaseData struct {
	Heading      string
	Rank         string
	Level        int64
	XP           int64
	Achievements []ShowcaseAchievement
}

type ShowcaseAchievement struct {
	Name        string
	Description string
	Rarity      string
	Emoji       string
	Color       string
}

func NewShowcaseImageService(stats repositories.StatsRepository) *ShowcaseImageService {
	service := &ShowcaseImageService{
		stats:  stats,
		logger: slog.With(slog.String("service", "showcase_image")),
	}

	// Test chromedp availability
	service.testChromedpAvailability()

	return service
}

func (s *ShowcaseImageService) testChromedpAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>"))
	if err != nil {
		s.logger.Error("chromedp not available - image generation will fail",
			slog.String("error", err.Error()))
	} else {
		s.logger.Info("chromedp is available and working")
	}
}

// RenderUnlock renders one PNG covering a batch of unlocks for a user.
func (s *ShowcaseImageService) RenderUnlock(ctx context.Context, userID, guildID string, unlocked []*models.AchievementDefinition) ([]byte, error) {
	start := time.Now()
	s.logger.Info("Starting showcase image generation",
		slog.String("user_id", userID),
		slog.Int("unlock_count", len(unlocked)))

	if len(unlocked) == 0 {
		return nil, fmt.Errorf("no unlocks to render")
	}

	data := ShowcaseData{
		Heading: "Achievement Unlocked",
		Rank:    "Unranked",
	}
	if len(unlocked) > 1 {
		data.Heading = fmt.Sprintf("%d Achievements Unlocked", len(unlocked))
	}

	stats, err := s.stats.GetOrCreateStats(ctx, userID, guildID)
	if err != nil {
		s.logger.Warn("Failed to load stats for showcase",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	} else {
		data.Level = stats.Level
		data.XP = stats.XP
	}

	rank, err := s.stats.GuildRank(ctx, userID, guildID)
	if err != nil {
		s.logger.Warn("Failed to resolve guild rank for showcase",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	} else if rank > 0 {
		data.Rank = fmt.Sprintf("#%d", rank)
	}

	for _, def := range unlocked {
		data.Achievements = append(data.Achievements, ShowcaseAchievement{
			Name:        def.Name,
			Description: def.Description,
			Rarity:      def.Rarity,
			Emoji:       config.RarityEmojis[def.Rarity],
			Color:       fmt.Sprintf("#%06X", config.RarityColor(def.Rarity)),
		})
	}

	// Generate HTML content
	htmlContent, err := s.generateHTML(data)
	if err != nil {
		s.logger.Error("Failed to generate HTML", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Create chromedp context with timeout
	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, config.ShowcaseRenderBudget)
	defer cancel()

	var imageBytes []byte

	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#showcase-container", chromedp.ByID),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Screenshot("#showcase-container", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to generate image with chromedp",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.logger.Info("Showcase image generated successfully",
		slog.String("user_id", userID),
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))

	return imageBytes, nil
}

func (s *ShowcaseImageService) generateHTML(data ShowcaseData) (string, error) {
	templatePath := filepath.Join("hearth", "templates", "showcase.html")

	templateContent, err := os.ReadFile(templatePath)
	if err != nil {
		s.logger.Error("Failed to read template file", slog.String("error", err.Error()), slog.String("path", templatePath))
		return "", fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.New("showcase").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).Parse(string(templateContent))
	if err != nil {
		s.logger.Error("Failed to parse template", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to execute template", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	// Minimal HTML processing for faster generation
	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")

	return htmlContent, nil
}
