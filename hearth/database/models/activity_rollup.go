package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ActivityRollup is one (user, guild, event type, day) counter. Rows are
// upserted by the buffer flush so a day accumulates across flushes.
type ActivityRollup struct {
	bun.BaseModel `bun:"table:activity_rollups,alias:ar"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GuildID   string    `bun:"guild_id,notnull"`
	UserID    string    `bun:"user_id,notnull"`
	EventType string    `bun:"event_type,notnull"`
	Date      string    `bun:"date,notnull"`
	Count     int64     `bun:"count,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Event type constants
const (
	EventMessage  = "message"
	EventVoice    = "voice"
	EventReaction = "reaction"
)
