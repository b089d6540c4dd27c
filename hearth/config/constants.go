package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	StatsQueryTimeout   = 10 * time.Second
	BatchQueryTimeout   = 30 * time.Second
	NetworkDialTimeout  = 5 * time.Second
	NetworkKeepAlive    = 30 * time.Second

	// Cache settings
	DefinitionCacheSize  = 1000
	RollupBufferSize     = 4096
	RollupFlushInterval  = 30 * time.Second
	ShowcaseRenderBudget = 15 * time.Second

	// Batch processing
	DefaultBatchSize     = 50
	MaxConcurrentBatches = 5
	BackfillWorkers      = 4
	RollupRestoreDays    = 90
)

// Achievement Engine Constants
const (
	// Condition defaults applied when a definition omits the field
	DefaultThreshold            = 1
	TimePatternDefaultThreshold = 10
	WeekendDefaultThreshold     = 8
	DefaultMinActivityPerDay    = 1
	DefaultMinPerWeekend        = 10

	// Progress
	MaxProgressPercent = 100.0
	NextAchievementTop = 5
)

// Discord UI Colors
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	EmbedDefaultColor = 0x2B2D31

	// Rarity Colors
	RarityCommonColor    = 0x808080
	RarityUncommonColor  = 0x00FF00
	RarityRareColor      = 0x0000FF
	RarityEpicColor      = 0x800080
	RarityLegendaryColor = 0xFFD700
)

// RarityEmojis maps rarity names to their announcement emojis
var RarityEmojis = map[string]string{
	"common":    "🔹",
	"uncommon":  "🔸",
	"rare":      "💠",
	"epic":      "🔮",
	"legendary": "👑",
}

// RarityColor returns the embed color for a rarity name, defaulting to the
// common color for anything unrecognized.
func RarityColor(rarity string) int {
	switch rarity {
	case "uncommon":
		return RarityUncommonColor
	case "rare":
		return RarityRareColor
	case "epic":
		return RarityEpicColor
	case "legendary":
		return RarityLegendaryColor
	default:
		return RarityCommonColor
	}
}

// File and Storage Constants
const (
	MaxBadgeImageSize = 10 * 1024 * 1024 // 10MB
	BadgeImageRoot    = "badges/"
	ShowcaseImageRoot = "showcases/"
)
