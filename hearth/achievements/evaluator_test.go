package achievements

import (
	"testing"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

func conditionDef(conditionType string, data map[string]interface{}) *models.AchievementDefinition {
	return &models.AchievementDefinition{
		AchievementID: "test_" + conditionType,
		Name:          "Test Achievement",
		Category:      models.CategorySpecial,
		Rarity:        models.RarityCommon,
		Enabled:       true,
		ConditionType: conditionType,
		ConditionData: data,
	}
}

func evaluatorAt(at time.Time) *Evaluator {
	return &Evaluator{now: func() time.Time { return at }}
}

func TestEvaluator_Evaluate(t *testing.T) {
	stats := models.NewUserStats("user1", "guild1")
	stats.Level = 5
	stats.PrestigeLevel = 2
	stats.Messages.TotalMessages = 120
	stats.Messages.LinksSent = 3
	stats.Voice.VoiceSeconds = 7200
	stats.Streaks.DailyStreak = 9

	tests := []struct {
		name  string
		def   *models.AchievementDefinition
		stats *models.UserStats
		want  bool
	}{
		{
			name: "nil definition",
			def:  nil,
			want: false,
		},
		{
			name: "disabled definition never passes",
			def: func() *models.AchievementDefinition {
				d := conditionDef(models.ConditionLevel, map[string]interface{}{"threshold": 1})
				d.Enabled = false
				return d
			}(),
			stats: stats,
			want:  false,
		},
		{
			name:  "unknown condition type",
			def:   conditionDef("mystery", map[string]interface{}{"threshold": 1}),
			stats: stats,
			want:  false,
		},
		{
			name:  "nil stats falls back to fresh stats",
			def:   conditionDef(models.ConditionLevel, map[string]interface{}{"threshold": 1}),
			stats: nil,
			want:  true,
		},
		{
			name:  "level met",
			def:   conditionDef(models.ConditionLevel, map[string]interface{}{"threshold": 5}),
			stats: stats,
			want:  true,
		},
		{
			name:  "level not met",
			def:   conditionDef(models.ConditionLevel, map[string]interface{}{"threshold": 6}),
			stats: stats,
			want:  false,
		},
		{
			name:  "level with explicit comparison",
			def:   conditionDef(models.ConditionLevel, map[string]interface{}{"threshold": 10, "comparison": "lt"}),
			stats: stats,
			want:  true,
		},
		{
			name: "messages via nested field",
			def: conditionDef(models.ConditionMessages, map[string]interface{}{
				"field":     "message_stats.total_messages",
				"threshold": 100,
			}),
			stats: stats,
			want:  true,
		},
		{
			name: "messages via top level alias",
			def: conditionDef(models.ConditionMessages, map[string]interface{}{
				"field":     "messages",
				"threshold": 121,
			}),
			stats: stats,
			want:  false,
		},
		{
			name: "voice seconds field",
			def: conditionDef(models.ConditionVoiceTime, map[string]interface{}{
				"field":     "voice_stats.voice_seconds",
				"threshold": 3600,
			}),
			stats: stats,
			want:  true,
		},
		{
			name: "daily streak field",
			def: conditionDef(models.ConditionDailyStreak, map[string]interface{}{
				"field":     "streaks.daily_streak",
				"threshold": 10,
			}),
			stats: stats,
			want:  false,
		},
		{
			name: "prestige level field",
			def: conditionDef(models.ConditionPrestigeLevel, map[string]interface{}{
				"field":     "prestige_level",
				"threshold": 2,
			}),
			stats: stats,
			want:  true,
		},
		{
			name: "missing field resolves to zero",
			def: conditionDef(models.ConditionField, map[string]interface{}{
				"field":     "no_such.group",
				"threshold": 1,
			}),
			stats: stats,
			want:  false,
		},
		{
			name:  "field condition without field key",
			def:   conditionDef(models.ConditionField, map[string]interface{}{"threshold": 1}),
			stats: stats,
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator()
			got := e.Evaluate(tt.def, "user1", "guild1", ActivityEvent{}, tt.stats, nil)
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_Evaluate_timeBased(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	e := evaluatorAt(now)

	stats := models.NewUserStats("user1", "guild1")
	stats.CreatedAt = now.AddDate(0, 0, -40)

	tests := []struct {
		name  string
		data  map[string]interface{}
		stats *models.UserStats
		want  bool
	}{
		{name: "default unit is days", data: map[string]interface{}{"threshold": 30}, stats: stats, want: true},
		{name: "days not reached", data: map[string]interface{}{"threshold": 41}, stats: stats, want: false},
		{name: "hours unit", data: map[string]interface{}{"threshold": 720, "unit": "hours"}, stats: stats, want: true},
		{name: "minutes unit", data: map[string]interface{}{"threshold": 40 * 24 * 60, "unit": "minutes"}, stats: stats, want: true},
		{name: "seconds unit", data: map[string]interface{}{"threshold": 40*86400 + 1, "unit": "seconds"}, stats: stats, want: false},
		{
			name: "zero created_at never passes",
			data: map[string]interface{}{"threshold": 1},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.CreatedAt = time.Time{}
				return s
			}(),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionDef(models.ConditionTimeBased, tt.data)
			if got := e.Evaluate(def, "user1", "guild1", ActivityEvent{}, tt.stats, nil); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_Evaluate_combination(t *testing.T) {
	stats := models.NewUserStats("user1", "guild1")
	stats.Level = 10
	stats.Messages.TotalMessages = 500
	stats.Voice.VoiceSeconds = 100

	levelReq := map[string]interface{}{"type": "level", "threshold": 5}
	messagesReq := map[string]interface{}{"type": "stat", "field": "message_stats.total_messages", "threshold": 100}
	voiceReq := map[string]interface{}{"type": "stat", "field": "voice_stats.voice_seconds", "threshold": 3600}

	tests := []struct {
		name string
		data map[string]interface{}
		want bool
	}{
		{
			name: "and with one failing requirement",
			data: map[string]interface{}{
				"operator":     "and",
				"requirements": []interface{}{levelReq, messagesReq, voiceReq},
			},
			want: false,
		},
		{
			name: "or with one passing requirement",
			data: map[string]interface{}{
				"operator":     "or",
				"requirements": []interface{}{voiceReq, levelReq},
			},
			want: true,
		},
		{
			name: "and is the default operator",
			data: map[string]interface{}{
				"requirements": []interface{}{levelReq, messagesReq},
			},
			want: true,
		},
		{
			name: "empty requirements pass under and",
			data: map[string]interface{}{
				"operator":     "and",
				"requirements": []interface{}{},
			},
			want: true,
		},
		{
			name: "empty requirements fail under or",
			data: map[string]interface{}{
				"operator":     "or",
				"requirements": []interface{}{},
			},
			want: false,
		},
		{
			name: "requirement without field counts as zero",
			data: map[string]interface{}{
				"requirements": []interface{}{
					map[string]interface{}{"type": "stat", "threshold": 1},
				},
			},
			want: false,
		},
		{
			name: "malformed requirement fails the whole condition",
			data: map[string]interface{}{
				"operator":     "or",
				"requirements": []interface{}{levelReq, "not-a-requirement"},
			},
			want: false,
		},
		{
			name: "unknown operator",
			data: map[string]interface{}{
				"operator":     "xor",
				"requirements": []interface{}{levelReq},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionDef(models.ConditionCombination, tt.data)
			e := NewEvaluator()
			if got := e.Evaluate(def, "user1", "guild1", ActivityEvent{}, stats, nil); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_Evaluate_timePattern(t *testing.T) {
	stats := models.NewUserStats("user1", "guild1")
	stats.HourCounts[23] = 5

	tests := []struct {
		name string
		data map[string]interface{}
		want bool
	}{
		{
			name: "overnight window counts hour 23",
			data: map[string]interface{}{
				"time_range": map[string]interface{}{"start": "22:00", "end": "02:00"},
				"threshold":  5,
			},
			want: true,
		},
		{
			name: "overnight window below threshold",
			data: map[string]interface{}{
				"time_range": map[string]interface{}{"start": "22:00", "end": "02:00"},
				"threshold":  6,
			},
			want: false,
		},
		{
			name: "daytime window sees nothing",
			data: map[string]interface{}{
				"time_range": map[string]interface{}{"start": "09:00", "end": "17:00"},
				"threshold":  1,
			},
			want: false,
		},
		{
			name: "missing time range",
			data: map[string]interface{}{"threshold": 1},
			want: false,
		},
		{
			name: "missing end",
			data: map[string]interface{}{
				"time_range": map[string]interface{}{"start": "22:00"},
				"threshold":  1,
			},
			want: false,
		},
		{
			name: "unparseable start",
			data: map[string]interface{}{
				"time_range": map[string]interface{}{"start": "late", "end": "02:00"},
				"threshold":  1,
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionDef(models.ConditionTimePattern, tt.data)
			e := NewEvaluator()
			if got := e.Evaluate(def, "user1", "guild1", ActivityEvent{}, stats, nil); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_Evaluate_activityCalendar(t *testing.T) {
	// 2025-06-07 is a Saturday, 2025-06-08 a Sunday, 2025-06-09 a Monday.
	stats := models.NewUserStats("user1", "guild1")
	stats.DailyActivity = map[string]models.DayActivity{
		"2025-06-07": {MessageCount: 12},
		"2025-06-08": {MessageCount: 3},
		"2025-06-09": {MessageCount: 20},
		"2025-06-15": {MessageCount: 9},
	}

	tests := []struct {
		name          string
		conditionType string
		data          map[string]interface{}
		want          bool
	}{
		{
			name:          "day of week counts qualifying weekend days",
			conditionType: models.ConditionDayOfWeek,
			data: map[string]interface{}{
				"days":                 []interface{}{"saturday", "sunday"},
				"min_activity_per_day": 5,
				"threshold":            1,
			},
			want: true,
		},
		{
			name:          "day of week threshold above qualifying count",
			conditionType: models.ConditionDayOfWeek,
			data: map[string]interface{}{
				"days":                 []interface{}{"saturday", "sunday"},
				"min_activity_per_day": 5,
				"threshold":            3,
			},
			want: false,
		},
		{
			name:          "day of week with unknown day name",
			conditionType: models.ConditionDayOfWeek,
			data: map[string]interface{}{
				"days":      []interface{}{"saturday", "caturday"},
				"threshold": 1,
			},
			want: false,
		},
		{
			name:          "day of week with no days",
			conditionType: models.ConditionDayOfWeek,
			data:          map[string]interface{}{"threshold": 1},
			want:          false,
		},
		{
			name:          "day of month",
			conditionType: models.ConditionDayOfMonth,
			data: map[string]interface{}{
				"days_of_month":        []interface{}{7, 15},
				"min_activity_per_day": 5,
				"threshold":            2,
			},
			want: true,
		},
		{
			name:          "day of month skips invalid entries",
			conditionType: models.ConditionDayOfMonth,
			data: map[string]interface{}{
				"days_of_month":        []interface{}{0, 32, 7},
				"min_activity_per_day": 5,
				"threshold":            1,
			},
			want: true,
		},
		{
			name:          "day of month with no valid entries",
			conditionType: models.ConditionDayOfMonth,
			data: map[string]interface{}{
				"days_of_month": []interface{}{0, 40, "first"},
				"threshold":     1,
			},
			want: false,
		},
		{
			name:          "weekday bucket",
			conditionType: models.ConditionWeekdayWeekend,
			data: map[string]interface{}{
				"day_type":             "weekday",
				"min_activity_per_day": 10,
				"threshold":            1,
			},
			want: true,
		},
		{
			name:          "weekend bucket is case insensitive",
			conditionType: models.ConditionWeekdayWeekend,
			data: map[string]interface{}{
				"day_type":             "Weekend",
				"min_activity_per_day": 5,
				"threshold":            2,
			},
			want: true,
		},
		{
			name:          "invalid day type",
			conditionType: models.ConditionWeekdayWeekend,
			data: map[string]interface{}{
				"day_type":  "holiday",
				"threshold": 1,
			},
			want: false,
		},
		{
			name:          "weekend activity with reachable threshold",
			conditionType: models.ConditionWeekendActivity,
			data: map[string]interface{}{
				"threshold":                1,
				"min_activity_per_weekend": 10,
			},
			want: true,
		},
		{
			name:          "weekend activity default threshold",
			conditionType: models.ConditionWeekendActivity,
			data:          map[string]interface{}{"min_activity_per_weekend": 10},
			want:          false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionDef(tt.conditionType, tt.data)
			e := NewEvaluator()
			if got := e.Evaluate(def, "user1", "guild1", ActivityEvent{}, stats, nil); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_Evaluate_specialEvents(t *testing.T) {
	christmas := time.Date(2025, time.December, 25, 10, 0, 0, 0, time.UTC)
	june10 := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		data  map[string]interface{}
		stats func() *models.UserStats
		want  bool
	}{
		{
			name: "birthday string match",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "birthday"},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.Profile["birthday"] = "06-10"
				return s
			},
			want: true,
		},
		{
			name: "birthday string mismatch",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "birthday"},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.Profile["birthday"] = "06-11"
				return s
			},
			want: false,
		},
		{
			name: "birthday unix timestamp match",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "birthday"},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.Profile["birthday"] = float64(time.Date(1999, time.June, 10, 0, 0, 0, 0, time.UTC).Unix())
				return s
			},
			want: true,
		},
		{
			name: "birthday malformed string",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "birthday"},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.Profile["birthday"] = "1999-06-10"
				return s
			},
			want: false,
		},
		{
			name: "birthday unset",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "birthday"},
			stats: func() *models.UserStats {
				return models.NewUserStats("user1", "guild1")
			},
			want: false,
		},
		{
			name: "anniversary a year later",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "anniversary"},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.CreatedAt = time.Date(2023, time.June, 10, 4, 0, 0, 0, time.UTC)
				return s
			},
			want: true,
		},
		{
			name: "anniversary same year",
			now:  june10,
			data: map[string]interface{}{"custom_type": "special_event", "event_type": "anniversary"},
			stats: func() *models.UserStats {
				s := models.NewUserStats("user1", "guild1")
				s.CreatedAt = time.Date(2025, time.June, 10, 4, 0, 0, 0, time.UTC)
				return s
			},
			want: false,
		},
		{
			name: "holiday on the day",
			now:  christmas,
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "holiday",
				"event_data":  map[string]interface{}{"holiday": "christmas"},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  true,
		},
		{
			name: "holiday off the day",
			now:  june10,
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "holiday",
				"event_data":  map[string]interface{}{"holiday": "christmas"},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  false,
		},
		{
			name: "unknown holiday",
			now:  christmas,
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "holiday",
				"event_data":  map[string]interface{}{"holiday": "festivus"},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  false,
		},
		{
			name: "winter season wraps the year end",
			now:  time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "seasonal",
				"event_data":  map[string]interface{}{"season": "winter"},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  true,
		},
		{
			name: "summer season outside window",
			now:  time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "seasonal",
				"event_data":  map[string]interface{}{"season": "summer"},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  false,
		},
		{
			name: "server age milestone",
			now:  june10,
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "server_milestone",
				"event_data": map[string]interface{}{
					"milestone_type":    "server_age_days",
					"milestone_value":   365,
					"server_created_at": float64(june10.AddDate(0, 0, -400).Unix()),
				},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  true,
		},
		{
			name: "member count milestone is not wired",
			now:  june10,
			data: map[string]interface{}{
				"custom_type": "special_event",
				"event_type":  "server_milestone",
				"event_data": map[string]interface{}{
					"milestone_type":  "member_count",
					"milestone_value": 1,
				},
			},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  false,
		},
		{
			name:  "unknown event type",
			now:   june10,
			data:  map[string]interface{}{"custom_type": "special_event", "event_type": "eclipse"},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  false,
		},
		{
			name:  "unknown custom type",
			now:   june10,
			data:  map[string]interface{}{"custom_type": "plugin"},
			stats: func() *models.UserStats { return models.NewUserStats("user1", "guild1") },
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionDef(models.ConditionCustom, tt.data)
			e := evaluatorAt(tt.now)
			if got := e.Evaluate(def, "user1", "guild1", ActivityEvent{}, tt.stats(), nil); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_Evaluate_guildSpecific(t *testing.T) {
	now := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)

	stats := models.NewUserStats("user1", "guild1")
	stats.Guild = models.GuildStats{
		Roles:       []string{"Regular", "Helper"},
		RoleLevels:  map[string]float64{"Regular": 1, "Helper": 3},
		Permissions: []string{"manage_messages"},
		Boost:       true,
		BoostSince:  now.AddDate(0, 0, -45).Unix(),
	}
	stats.Guild.VoiceChannelActivity = 12
	stats.Guild.TextChannelActivity = 400
	stats.Guild.CustomMetrics = map[string]float64{"events_hosted": 4}

	tests := []struct {
		name string
		data map[string]interface{}
		want bool
	}{
		{
			name: "role by name",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_role", "role_name": "Helper"},
			want: true,
		},
		{
			name: "role by name missing",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_role", "role_name": "Admin"},
			want: false,
		},
		{
			name: "role by level uses the highest held role",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_role", "role_level": 3},
			want: true,
		},
		{
			name: "role by level above maximum",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_role", "role_level": 4},
			want: false,
		},
		{
			name: "role condition without name or level",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_role"},
			want: false,
		},
		{
			name: "permission held",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_permission", "permission": "manage_messages"},
			want: true,
		},
		{
			name: "permission missing",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_permission", "permission": "administrator"},
			want: false,
		},
		{
			name: "text channel activity",
			data: map[string]interface{}{
				"custom_type":    "guild_specific",
				"condition_type": "guild_channel_activity",
				"channel_type":   "text_channels",
				"threshold":      300,
			},
			want: true,
		},
		{
			name: "voice channel activity below threshold",
			data: map[string]interface{}{
				"custom_type":    "guild_specific",
				"condition_type": "guild_channel_activity",
				"channel_type":   "voice_channels",
				"threshold":      20,
			},
			want: false,
		},
		{
			name: "unknown channel type",
			data: map[string]interface{}{
				"custom_type":    "guild_specific",
				"condition_type": "guild_channel_activity",
				"channel_type":   "stage_channels",
				"threshold":      1,
			},
			want: false,
		},
		{
			name: "boost without duration floor",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_boost_status"},
			want: true,
		},
		{
			name: "boost duration met",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_boost_status", "min_duration_days": 30},
			want: true,
		},
		{
			name: "boost duration not met",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_boost_status", "min_duration_days": 60},
			want: false,
		},
		{
			name: "custom metric",
			data: map[string]interface{}{
				"custom_type":    "guild_specific",
				"condition_type": "guild_custom_metric",
				"metric_name":    "events_hosted",
				"threshold":      4,
			},
			want: true,
		},
		{
			name: "custom metric missing",
			data: map[string]interface{}{
				"custom_type":    "guild_specific",
				"condition_type": "guild_custom_metric",
				"metric_name":    "raids_led",
				"threshold":      1,
			},
			want: false,
		},
		{
			name: "unknown guild condition",
			data: map[string]interface{}{"custom_type": "guild_specific", "condition_type": "guild_karma"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := conditionDef(models.ConditionCustom, tt.data)
			e := evaluatorAt(now)
			if got := e.Evaluate(def, "user1", "guild1", ActivityEvent{}, stats, nil); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_fieldValue(t *testing.T) {
	view := map[string]interface{}{
		"level": int64(7),
		"message_stats": map[string]interface{}{
			"total_messages": int64(42),
		},
	}

	tests := []struct {
		name string
		path string
		want float64
	}{
		{name: "top level", path: "level", want: 7},
		{name: "nested", path: "message_stats.total_messages", want: 42},
		{name: "missing leaf", path: "message_stats.links_sent", want: 0},
		{name: "missing group", path: "voice_stats.voice_seconds", want: 0},
		{name: "traversal through non map", path: "level.deeper", want: 0},
		{name: "empty path", path: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldValue(view, tt.path); got != tt.want {
				t.Errorf("fieldValue(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
