package achievements

import (
	"testing"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

var progressClock = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return progressClock }

func Test_newEntry(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		wantPct float64
		wantOK  bool
	}{
		{name: "partial progress", current: 25, target: 100, wantPct: 25.0, wantOK: true},
		{name: "overshoot caps at 100", current: 150, target: 100, wantPct: 100.0, wantOK: true},
		{name: "exact target", current: 100, target: 100, wantPct: 100.0, wantOK: true},
		{name: "zero current", current: 0, target: 50, wantPct: 0, wantOK: true},
		{name: "zero target yields nothing", current: 10, target: 0, wantOK: false},
		{name: "negative target yields nothing", current: 10, target: -5, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := newEntry(tt.current, tt.target, models.ConditionMessages, "message_stats.total_messages", progressClock)
			if ok != tt.wantOK {
				t.Fatalf("newEntry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if entry.ProgressPercentage != tt.wantPct {
				t.Errorf("ProgressPercentage = %v, want %v", entry.ProgressPercentage, tt.wantPct)
			}
			if entry.CurrentValue != tt.current || entry.TargetValue != tt.target {
				t.Errorf("entry values = (%v, %v), want (%v, %v)", entry.CurrentValue, entry.TargetValue, tt.current, tt.target)
			}
			if entry.ConditionType != models.ConditionMessages {
				t.Errorf("ConditionType = %q, want %q", entry.ConditionType, models.ConditionMessages)
			}
			if entry.LastUpdated != progressClock.Unix() {
				t.Errorf("LastUpdated = %d, want %d", entry.LastUpdated, progressClock.Unix())
			}
		})
	}
}

func progressDef(id, category, conditionType string, data map[string]interface{}) *models.AchievementDefinition {
	return &models.AchievementDefinition{
		AchievementID: id,
		Name:          id,
		Category:      category,
		Rarity:        models.RarityCommon,
		Enabled:       true,
		ConditionType: conditionType,
		ConditionData: data,
	}
}

func Test_messageTracker_Owns(t *testing.T) {
	tracker := newMessageTracker()

	tests := []struct {
		name string
		def  *models.AchievementDefinition
		want bool
	}{
		{
			name: "messages condition",
			def:  progressDef("chatty", models.CategoryMessage, models.ConditionMessages, nil),
			want: true,
		},
		{
			name: "field condition over message stats",
			def: progressDef("linker", models.CategoryMessage, models.ConditionField,
				map[string]interface{}{"field": "message_stats.links_sent"}),
			want: true,
		},
		{
			name: "id prefix",
			def:  progressDef("messages_1000", models.CategoryMessage, models.ConditionField, nil),
			want: true,
		},
		{
			name: "first message",
			def:  progressDef("first_message", models.CategoryMessage, models.ConditionField, nil),
			want: true,
		},
		{
			name: "streak belongs to the streak tracker",
			def:  progressDef("streak_7", models.CategoryMessage, models.ConditionDailyStreak, nil),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tracker.Owns(tt.def); got != tt.want {
				t.Errorf("Owns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_messageTracker_Entry(t *testing.T) {
	tracker := &messageTracker{now: fixedClock}
	stats := models.NewUserStats("user1", "guild1")
	stats.Messages.TotalMessages = 250

	tests := []struct {
		name       string
		def        *models.AchievementDefinition
		wantTarget float64
		wantPct    float64
		wantOK     bool
	}{
		{
			name: "threshold from condition data",
			def: progressDef("chatty", models.CategoryMessage, models.ConditionMessages,
				map[string]interface{}{"threshold": 1000}),
			wantTarget: 1000,
			wantPct:    25.0,
			wantOK:     true,
		},
		{
			name:       "target from id suffix",
			def:        progressDef("messages_500", models.CategoryMessage, models.ConditionMessages, nil),
			wantTarget: 500,
			wantPct:    50.0,
			wantOK:     true,
		},
		{
			name:       "first message target is one",
			def:        progressDef("first_message", models.CategoryMessage, models.ConditionMessages, nil),
			wantTarget: 1,
			wantPct:    100.0,
			wantOK:     true,
		},
		{
			name: "target from metadata",
			def: func() *models.AchievementDefinition {
				d := progressDef("dedicated_writer", models.CategoryMessage, models.ConditionMessages, nil)
				d.Metadata = map[string]interface{}{"target": 2500}
				return d
			}(),
			wantTarget: 2500,
			wantPct:    10.0,
			wantOK:     true,
		},
		{
			name:   "no resolvable target",
			def:    progressDef("mystery_badge", models.CategoryMessage, models.ConditionMessages, nil),
			wantOK: false,
		},
		{
			name: "zero threshold",
			def: progressDef("broken", models.CategoryMessage, models.ConditionMessages,
				map[string]interface{}{"threshold": 0}),
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := tracker.Entry(tt.def, stats, ActivityEvent{})
			if ok != tt.wantOK {
				t.Fatalf("Entry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if entry.TargetValue != tt.wantTarget {
				t.Errorf("TargetValue = %v, want %v", entry.TargetValue, tt.wantTarget)
			}
			if entry.ProgressPercentage != tt.wantPct {
				t.Errorf("ProgressPercentage = %v, want %v", entry.ProgressPercentage, tt.wantPct)
			}
		})
	}
}

func Test_levelTracker_Entry(t *testing.T) {
	tracker := &levelTracker{now: fixedClock}
	stats := models.NewUserStats("user1", "guild1")
	stats.Level = 12
	stats.XP = 3400

	tests := []struct {
		name              string
		def               *models.AchievementDefinition
		wantCurrent       float64
		wantTarget        float64
		wantConditionType string
		wantOK            bool
	}{
		{
			name: "level threshold",
			def: progressDef("veteran", models.CategoryLevel, models.ConditionLevel,
				map[string]interface{}{"threshold": 20}),
			wantCurrent:       12,
			wantTarget:        20,
			wantConditionType: models.ConditionLevel,
			wantOK:            true,
		},
		{
			name:              "level target from id",
			def:               progressDef("level_25", models.CategoryLevel, models.ConditionLevel, nil),
			wantCurrent:       12,
			wantTarget:        25,
			wantConditionType: models.ConditionLevel,
			wantOK:            true,
		},
		{
			name: "xp based by field",
			def: progressDef("grinder", models.CategoryLevel, models.ConditionField,
				map[string]interface{}{"field": "xp", "threshold": 5000}),
			wantCurrent:       3400,
			wantTarget:        5000,
			wantConditionType: "xp",
			wantOK:            true,
		},
		{
			name:              "xp target from id suffix",
			def:               progressDef("xp_10000", models.CategoryLevel, models.ConditionField, nil),
			wantCurrent:       3400,
			wantTarget:        10000,
			wantConditionType: "xp",
			wantOK:            true,
		},
		{
			name:   "no target",
			def:    progressDef("enigma", models.CategoryLevel, models.ConditionLevel, nil),
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := tracker.Entry(tt.def, stats, ActivityEvent{})
			if ok != tt.wantOK {
				t.Fatalf("Entry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if entry.CurrentValue != tt.wantCurrent || entry.TargetValue != tt.wantTarget {
				t.Errorf("entry values = (%v, %v), want (%v, %v)", entry.CurrentValue, entry.TargetValue, tt.wantCurrent, tt.wantTarget)
			}
			if entry.ConditionType != tt.wantConditionType {
				t.Errorf("ConditionType = %q, want %q", entry.ConditionType, tt.wantConditionType)
			}
		})
	}
}

func Test_voiceTracker_Entry(t *testing.T) {
	tracker := &voiceTracker{now: fixedClock}
	stats := models.NewUserStats("user1", "guild1")
	stats.Voice.VoiceSeconds = 3600
	stats.Voice.VoiceSessions = 30

	tests := []struct {
		name        string
		def         *models.AchievementDefinition
		wantCurrent float64
		wantTarget  float64
		wantOK      bool
	}{
		{
			name: "voice time threshold in seconds",
			def: progressDef("voice_regular", models.CategoryVoice, models.ConditionVoiceTime,
				map[string]interface{}{"threshold": 7200}),
			wantCurrent: 3600,
			wantTarget:  7200,
			wantOK:      true,
		},
		{
			name:        "hours id converts the target to seconds",
			def:         progressDef("voice_hours_2", models.CategoryVoice, models.ConditionMessages, nil),
			wantCurrent: 3600,
			wantTarget:  7200,
			wantOK:      true,
		},
		{
			name: "session count",
			def: progressDef("voice_socialite", models.CategoryVoice, models.ConditionVoiceSessions,
				map[string]interface{}{"threshold": 50}),
			wantCurrent: 30,
			wantTarget:  50,
			wantOK:      true,
		},
		{
			name:        "sessions id pattern",
			def:         progressDef("voice_sessions_40", models.CategoryVoice, models.ConditionField, nil),
			wantCurrent: 30,
			wantTarget:  40,
			wantOK:      true,
		},
		{
			name:   "no target",
			def:    progressDef("voice_enigma", models.CategoryVoice, models.ConditionVoiceTime, nil),
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := tracker.Entry(tt.def, stats, ActivityEvent{})
			if ok != tt.wantOK {
				t.Fatalf("Entry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if entry.CurrentValue != tt.wantCurrent || entry.TargetValue != tt.wantTarget {
				t.Errorf("entry values = (%v, %v), want (%v, %v)", entry.CurrentValue, entry.TargetValue, tt.wantCurrent, tt.wantTarget)
			}
		})
	}
}

func Test_streakTracker_Entry(t *testing.T) {
	tracker := &streakTracker{now: fixedClock}
	stats := models.NewUserStats("user1", "guild1")
	stats.Streaks.DailyStreak = 12

	entry, ok := tracker.Entry(progressDef("streak_30", models.CategoryMessage, models.ConditionDailyStreak, nil), stats, ActivityEvent{})
	if !ok {
		t.Fatal("Entry() ok = false, want true")
	}
	if entry.CurrentValue != 12 || entry.TargetValue != 30 {
		t.Errorf("entry values = (%v, %v), want (12, 30)", entry.CurrentValue, entry.TargetValue)
	}
	if entry.ProgressPercentage != 40.0 {
		t.Errorf("ProgressPercentage = %v, want 40.0", entry.ProgressPercentage)
	}

	if _, ok := tracker.Entry(progressDef("streak_forever", models.CategoryMessage, models.ConditionDailyStreak, nil), stats, ActivityEvent{}); ok {
		t.Error("Entry() ok = true for unparseable id without threshold, want false")
	}
}

func Test_reactionsTracker_Entry(t *testing.T) {
	tracker := &reactionsTracker{now: fixedClock}
	stats := models.NewUserStats("user1", "guild1")
	stats.Reactions.ReactionsGiven = 80
	stats.Reactions.GotReactions = 20

	given, ok := tracker.Entry(progressDef("cheerleader", models.CategoryReactions, models.ConditionReactionsGiven,
		map[string]interface{}{"threshold": 100}), stats, ActivityEvent{})
	if !ok {
		t.Fatal("Entry() ok = false for reactions_given, want true")
	}
	if given.CurrentValue != 80 || given.ProgressPercentage != 80.0 {
		t.Errorf("reactions_given entry = (%v, %v%%), want (80, 80%%)", given.CurrentValue, given.ProgressPercentage)
	}

	got, ok := tracker.Entry(progressDef("crowd_pleaser", models.CategoryReactions, models.ConditionGotReactions,
		map[string]interface{}{"threshold": 40}), stats, ActivityEvent{})
	if !ok {
		t.Fatal("Entry() ok = false for got_reactions, want true")
	}
	if got.CurrentValue != 20 || got.ProgressPercentage != 50.0 {
		t.Errorf("got_reactions entry = (%v, %v%%), want (20, 50%%)", got.CurrentValue, got.ProgressPercentage)
	}
}

func Test_timeBasedTracker_Entry(t *testing.T) {
	tracker := &timeBasedTracker{now: fixedClock}

	stats := models.NewUserStats("user1", "guild1")
	stats.CreatedAt = progressClock.AddDate(0, 0, -30)

	entry, ok := tracker.Entry(progressDef("one_hundred_days", models.CategoryTimeBased, models.ConditionTimeBased,
		map[string]interface{}{"threshold": 100}), stats, ActivityEvent{})
	if !ok {
		t.Fatal("Entry() ok = false, want true")
	}
	if entry.CurrentValue != 30 || entry.TargetValue != 100 {
		t.Errorf("entry values = (%v, %v), want (30, 100)", entry.CurrentValue, entry.TargetValue)
	}
	if entry.ProgressPercentage != 30.0 {
		t.Errorf("ProgressPercentage = %v, want 30.0", entry.ProgressPercentage)
	}

	fresh := models.NewUserStats("user1", "guild1")
	fresh.CreatedAt = time.Time{}
	if _, ok := tracker.Entry(progressDef("one_hundred_days", models.CategoryTimeBased, models.ConditionTimeBased,
		map[string]interface{}{"threshold": 100}), fresh, ActivityEvent{}); ok {
		t.Error("Entry() ok = true for zero created_at, want false")
	}
}

func Test_calendarTracker_Entry(t *testing.T) {
	tracker := &calendarTracker{now: fixedClock}
	stats := models.NewUserStats("user1", "guild1")
	stats.HourCounts[23] = 5

	entry, ok := tracker.Entry(progressDef("night_owl", models.CategoryCalendar, models.ConditionTimePattern,
		map[string]interface{}{
			"time_range": map[string]interface{}{"start": "22:00", "end": "02:00"},
			"threshold":  10,
		}), stats, ActivityEvent{})
	if !ok {
		t.Fatal("Entry() ok = false, want true")
	}
	if entry.CurrentValue != 5 || entry.TargetValue != 10 {
		t.Errorf("entry values = (%v, %v), want (5, 10)", entry.CurrentValue, entry.TargetValue)
	}
	if entry.ProgressPercentage != 50.0 {
		t.Errorf("ProgressPercentage = %v, want 50.0", entry.ProgressPercentage)
	}

	// A malformed window still yields an entry, pinned at 0%.
	broken, ok := tracker.Entry(progressDef("night_owl_broken", models.CategoryCalendar, models.ConditionTimePattern,
		map[string]interface{}{"threshold": 10}), stats, ActivityEvent{})
	if !ok {
		t.Fatal("Entry() ok = false for malformed window, want true")
	}
	if broken.CurrentValue != 0 || broken.ProgressPercentage != 0 {
		t.Errorf("malformed window entry = (%v, %v%%), want (0, 0%%)", broken.CurrentValue, broken.ProgressPercentage)
	}
}

func TestProgressRegistry_UpdateProgress(t *testing.T) {
	registry := NewProgressRegistry()

	stats := models.NewUserStats("user1", "guild1")
	stats.Level = 5
	stats.Messages.TotalMessages = 250
	stats.Streaks.DailyStreak = 3

	defs := []*models.AchievementDefinition{
		progressDef("messages_1000", models.CategoryMessage, models.ConditionMessages,
			map[string]interface{}{"threshold": 1000}),
		progressDef("streak_7", models.CategoryMessage, models.ConditionDailyStreak,
			map[string]interface{}{"threshold": 7}),
		progressDef("level_10", models.CategoryLevel, models.ConditionLevel,
			map[string]interface{}{"threshold": 10}),
		progressDef("already_done", models.CategoryMessage, models.ConditionMessages,
			map[string]interface{}{"threshold": 100}),
		progressDef("special_one", models.CategorySpecial, models.ConditionCustom,
			map[string]interface{}{"custom_type": "special_event", "event_type": "birthday"}),
	}
	disabled := progressDef("messages_5000", models.CategoryMessage, models.ConditionMessages,
		map[string]interface{}{"threshold": 5000})
	disabled.Enabled = false
	defs = append(defs, disabled)

	record := models.NewUserAchievementRecord("user1", "guild1")
	record.Unlocked = []string{"already_done"}

	updates := registry.UpdateProgress(stats, ActivityEvent{}, buildGeneration(defs), record)

	if len(updates) != 3 {
		t.Fatalf("UpdateProgress() produced %d entries, want 3: %v", len(updates), updates)
	}
	if entry := updates["messages_1000"]; entry.ProgressPercentage != 25.0 {
		t.Errorf("messages_1000 progress = %v, want 25.0", entry.ProgressPercentage)
	}
	if entry := updates["streak_7"]; entry.CurrentValue != 3 {
		t.Errorf("streak_7 current = %v, want 3", entry.CurrentValue)
	}
	if entry := updates["level_10"]; entry.ProgressPercentage != 50.0 {
		t.Errorf("level_10 progress = %v, want 50.0", entry.ProgressPercentage)
	}
	if _, ok := updates["already_done"]; ok {
		t.Error("unlocked achievement still received a progress entry")
	}
	if _, ok := updates["messages_5000"]; ok {
		t.Error("disabled achievement received a progress entry")
	}
	if _, ok := updates["special_one"]; ok {
		t.Error("special category achievement received a progress entry")
	}

	if got := registry.UpdateProgress(nil, ActivityEvent{}, buildGeneration(defs), record); len(got) != 0 {
		t.Errorf("UpdateProgress() with nil stats produced %d entries, want 0", len(got))
	}
	if got := registry.UpdateProgress(stats, ActivityEvent{}, nil, record); len(got) != 0 {
		t.Errorf("UpdateProgress() with nil generation produced %d entries, want 0", len(got))
	}
}
