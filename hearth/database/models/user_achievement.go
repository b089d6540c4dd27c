package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserAchievementRecord holds everything the engine knows about one user in
// one guild: which achievements they have unlocked and how far along they are
// on the rest. One row per (user_id, guild_id).
type UserAchievementRecord struct {
	bun.BaseModel `bun:"table:user_achievements,alias:ua"`

	ID        int64                    `bun:"id,pk,autoincrement"`
	UserID    string                   `bun:"user_id,notnull"`
	GuildID   string                   `bun:"guild_id,notnull"`
	Unlocked  []string                 `bun:"unlocked,array"`
	Progress  map[string]ProgressEntry `bun:"progress,type:jsonb"`
	CreatedAt time.Time                `bun:"created_at,notnull"`
	UpdatedAt time.Time                `bun:"updated_at,notnull"`
}

// ProgressEntry is one achievement's progress snapshot inside the record's
// jsonb progress map.
type ProgressEntry struct {
	CurrentValue       float64 `json:"current_value"`
	TargetValue        float64 `json:"target_value"`
	ProgressPercentage float64 `json:"progress_percentage"`
	ConditionType      string  `json:"condition_type"`
	Field              string  `json:"field,omitempty"`
	LastUpdated        int64   `json:"last_updated"`
}

// IsUnlocked reports whether achievementID is in the unlocked list.
func (r *UserAchievementRecord) IsUnlocked(achievementID string) bool {
	for _, id := range r.Unlocked {
		if id == achievementID {
			return true
		}
	}
	return false
}

// MarkUnlocked appends achievementID to the unlocked list and drops any
// progress entry for it. Unlocked achievements never carry progress.
// Returns false if the achievement was already unlocked.
func (r *UserAchievementRecord) MarkUnlocked(achievementID string) bool {
	if r.IsUnlocked(achievementID) {
		return false
	}
	r.Unlocked = append(r.Unlocked, achievementID)
	delete(r.Progress, achievementID)
	return true
}

// SetProgress stores an entry for achievementID unless it is already
// unlocked.
func (r *UserAchievementRecord) SetProgress(achievementID string, entry ProgressEntry) {
	if r.IsUnlocked(achievementID) {
		return
	}
	if r.Progress == nil {
		r.Progress = make(map[string]ProgressEntry)
	}
	r.Progress[achievementID] = entry
}

// NewUserAchievementRecord returns an empty record for (userID, guildID) with
// timestamps set to now.
func NewUserAchievementRecord(userID, guildID string) *UserAchievementRecord {
	now := time.Now()
	return &UserAchievementRecord{
		UserID:    userID,
		GuildID:   guildID,
		Unlocked:  []string{},
		Progress:  make(map[string]ProgressEntry),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
