package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AchievementDefinition struct {
	bun.BaseModel `bun:"table:achievement_definitions,alias:ad"`

	ID            int64                  `bun:"id,pk,autoincrement"`
	AchievementID string                 `bun:"achievement_id,notnull,unique"`
	Name          string                 `bun:"name,notnull"`
	Description   string                 `bun:"description,notnull"`
	Category      string                 `bun:"category,notnull"` // level, message, voice, reactions, time_based, calendar, social, special, prestige
	Rarity        string                 `bun:"rarity,notnull,default:'common'"`
	Enabled       bool                   `bun:"enabled,notnull,default:true"`
	RewardXP      int64                  `bun:"reward_xp,notnull,default:0"`
	RewardEmbers  int64                  `bun:"reward_embers,notnull,default:0"`
	RewardTitle   string                 `bun:"reward_title"`
	RewardBadges  []string               `bun:"reward_badges,array"`
	ConditionType string                 `bun:"condition_type,notnull"`
	ConditionData map[string]interface{} `bun:"condition_data,type:jsonb"`
	Metadata      map[string]interface{} `bun:"metadata,type:jsonb"`
	CreatedAt     time.Time              `bun:"created_at,notnull"`
	UpdatedAt     time.Time              `bun:"updated_at,notnull"`
}

// Category constants
const (
	CategoryLevel     = "level"
	CategoryMessage   = "message"
	CategoryVoice     = "voice"
	CategoryReactions = "reactions"
	CategoryTimeBased = "time_based"
	CategoryCalendar  = "calendar"
	CategorySocial    = "social"
	CategorySpecial   = "special"
	CategoryPrestige  = "prestige"
)

// Rarity constants, ordered common < uncommon < rare < epic < legendary
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// rarityOrder backs RarityRank; unknown rarities sort below common.
var rarityOrder = map[string]int{
	RarityCommon:    1,
	RarityUncommon:  2,
	RarityRare:      3,
	RarityEpic:      4,
	RarityLegendary: 5,
}

// RarityRank returns the ordinal position of a rarity for sorting, 0 for
// unknown values.
func RarityRank(rarity string) int {
	return rarityOrder[rarity]
}

// Condition type constants
const (
	ConditionLevel              = "level"
	ConditionMessages           = "messages"
	ConditionVoiceTime          = "voice_time"
	ConditionVoiceSessions      = "voice_sessions"
	ConditionDailyStreak        = "daily_streak"
	ConditionReactionsGiven     = "reactions_given"
	ConditionGotReactions       = "got_reactions"
	ConditionAttachmentMessages = "attachment_messages"
	ConditionLinksSent          = "links_sent"
	ConditionAttachmentsSent    = "attachments_sent"
	ConditionQualityStreak      = "quality_streak"
	ConditionPrestigeLevel      = "prestige_level"
	ConditionField              = "field"
	ConditionTimeBased          = "time_based"
	ConditionCombination        = "combination"
	ConditionTimePattern        = "time_pattern"
	ConditionWeekendActivity    = "weekend_activity"
	ConditionDayOfWeek          = "day_of_week"
	ConditionDayOfMonth         = "day_of_month"
	ConditionWeekdayWeekend     = "weekday_weekend"
	ConditionCustom             = "custom"
)
