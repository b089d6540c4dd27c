// types.go
package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document shapes of the legacy Mongo-backed bot. Numeric fields are float64
// because Mongo stored them as doubles.

// MongoMessageStats is the nested message counter block of a member document.
type MongoMessageStats struct {
	Total       float64 `bson:"total"`
	WithFiles   float64 `bson:"withfiles"`
	Attachments float64 `bson:"attachments"`
	Links       float64 `bson:"links"`
}

// MongoVoiceStats is the nested voice block of a member document.
type MongoVoiceStats struct {
	Seconds  float64 `bson:"seconds"`
	Sessions float64 `bson:"sessions"`
}

// MongoReactionStats is the nested reaction block of a member document.
type MongoReactionStats struct {
	Given    float64 `bson:"given"`
	Received float64 `bson:"received"`
}

// MongoStreaks is the nested streak block of a member document.
type MongoStreaks struct {
	Daily   float64 `bson:"daily"`
	Quality float64 `bson:"quality"`
}

// MongoProfile is the nested profile block of a member document.
type MongoProfile struct {
	Bio   string `bson:"bio"`
	Title string `bson:"title"`
	Color string `bson:"color"`
}

// MongoMember is one document in the legacy bot's members collection, one
// per (discord_id, guild_id).
type MongoMember struct {
	ID        primitive.ObjectID `bson:"_id"`
	DiscordID string             `bson:"discord_id"`
	GuildID   string             `bson:"guild_id"`
	Level     float64            `bson:"level"`
	Exp       float64            `bson:"exp"`
	Embers    float64            `bson:"embers"`
	Prestige  float64            `bson:"prestige"`
	Messages  MongoMessageStats  `bson:"messages"`
	Voice     MongoVoiceStats    `bson:"voice"`
	Reactions MongoReactionStats `bson:"reactions"`
	Streaks   MongoStreaks       `bson:"streaks"`
	Profile   MongoProfile       `bson:"profile"`
	Activity  map[string]float64 `bson:"activity"` // YYYY-MM-DD -> message count
	Hours     []float64          `bson:"hours"`    // 24 hour histogram buckets
	Joined    time.Time          `bson:"joined"`
	LastSeen  time.Time          `bson:"lastseen"`
}

// MongoProgress is one achievement's progress snapshot in a legacy
// achievements document.
type MongoProgress struct {
	Current float64 `bson:"current"`
	Target  float64 `bson:"target"`
	Percent float64 `bson:"percent"`
	Type    string  `bson:"type"`
}

// MongoMemberAchievements is one document in the legacy userachievements
// collection.
type MongoMemberAchievements struct {
	ID        primitive.ObjectID       `bson:"_id"`
	UserID    string                   `bson:"userid"`
	GuildID   string                   `bson:"guildid"`
	Completed []string                 `bson:"completed"`
	Progress  map[string]MongoProgress `bson:"progress"`
	UpdatedAt time.Time                `bson:"updatedat"`
}

// MigrationStats tracks migration progress and issues
type MigrationStats struct {
	Tables         map[string]*TableStats `json:"tables"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	TotalErrors    int                    `json:"total_errors"`
	TotalSkipped   int                    `json:"total_skipped"`
	TotalProcessed int                    `json:"total_processed"`
}

// TableStats tracks stats for individual tables
type TableStats struct {
	TableName      string          `json:"table_name"`
	Processed      int             `json:"processed"`
	Successful     int             `json:"successful"`
	Skipped        int             `json:"skipped"`
	Errors         int             `json:"errors"`
	SkippedRecords []SkippedRecord `json:"skipped_records"`
	ErrorRecords   []ErrorRecord   `json:"error_records"`
}

// SkippedRecord tracks why a record was skipped
type SkippedRecord struct {
	Reason    string    `json:"reason"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorRecord tracks migration errors
type ErrorRecord struct {
	Error     string    `json:"error"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
