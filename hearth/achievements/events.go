package achievements

import "time"

// Activity event types routed through the engine.
const (
	EventMessage  = "message"
	EventVoice    = "voice"
	EventReaction = "reaction"
)

// ActivityEvent is the payload a listener hands to the engine when a user
// does something. Type routes the event; the other fields are only read by
// the branches that care about them.
type ActivityEvent struct {
	Type            string
	ChannelID       string
	MessageLength   int
	AttachmentCount int
	LinkCount       int
	Emoji           string
	VoiceSeconds    float64
	Timestamp       time.Time
}
