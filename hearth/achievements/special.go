package achievements

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// Fixed-date holidays recognized by the holiday event check.
var holidayDates = map[string][2]int{
	"new_year":    {1, 1},
	"valentines":  {2, 14},
	"april_fools": {4, 1},
	"halloween":   {10, 31},
	"christmas":   {12, 25},
}

// Season boundaries as (month, day) pairs. Winter wraps across the year end.
var seasonRanges = map[string][2][2]int{
	"spring": {{3, 20}, {6, 20}},
	"summer": {{6, 21}, {9, 22}},
	"autumn": {{9, 23}, {12, 20}},
	"winter": {{12, 21}, {3, 19}},
}

func (e *Evaluator) checkSpecialEvent(data map[string]interface{}, stats *models.UserStats) bool {
	eventType := dataString(data, "event_type", "")
	eventData := dataMap(data, "event_data")

	switch eventType {
	case "birthday":
		return e.checkBirthday(stats)
	case "anniversary":
		return e.checkAnniversary(stats)
	case "holiday":
		return e.checkHoliday(eventData)
	case "server_milestone":
		return e.checkServerMilestone(eventData)
	case "seasonal":
		return e.checkSeason(eventData)
	default:
		slog.Warn("Unknown special event type",
			slog.String("type", "error"),
			slog.String("event_type", eventType),
		)
		return false
	}
}

// checkBirthday matches today against the birthday stored in the user's
// profile, either as an "MM-DD" string or as a unix timestamp.
func (e *Evaluator) checkBirthday(stats *models.UserStats) bool {
	if stats.Profile == nil {
		return false
	}
	birthday, ok := stats.Profile["birthday"]
	if !ok || birthday == nil {
		return false
	}
	now := e.now()

	switch v := birthday.(type) {
	case string:
		parts := strings.Split(v, "-")
		if len(parts) != 2 {
			return false
		}
		month, err := strconv.Atoi(parts[0])
		if err != nil {
			return false
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil {
			return false
		}
		return int(now.Month()) == month && now.Day() == day
	default:
		ts, ok := toFloat(v)
		if !ok {
			return false
		}
		date := time.Unix(int64(ts), 0).UTC()
		return now.Month() == date.Month() && now.Day() == date.Day()
	}
}

// checkAnniversary matches today against the user's first-seen date: same
// month and day, at least one full year later.
func (e *Evaluator) checkAnniversary(stats *models.UserStats) bool {
	if stats.CreatedAt.IsZero() {
		return false
	}
	now := e.now()
	join := stats.CreatedAt
	return now.Month() == join.Month() && now.Day() == join.Day() && now.Year() > join.Year()
}

func (e *Evaluator) checkHoliday(eventData map[string]interface{}) bool {
	holiday := strings.ToLower(dataString(eventData, "holiday", ""))
	date, ok := holidayDates[holiday]
	if !ok {
		return false
	}
	now := e.now()
	return int(now.Month()) == date[0] && now.Day() == date[1]
}

func (e *Evaluator) checkServerMilestone(eventData map[string]interface{}) bool {
	milestoneType := dataString(eventData, "milestone_type", "")
	milestoneValue := dataFloat(eventData, "milestone_value", 0)

	switch milestoneType {
	case "member_count":
		// Needs a live member count from the gateway; not wired yet.
		slog.Debug("Server milestone check",
			slog.String("milestone_type", milestoneType),
			slog.Float64("milestone_value", milestoneValue),
		)
		return false
	case "server_age_days":
		created := dataFloat(eventData, "server_created_at", 0)
		if created <= 0 {
			return false
		}
		days := (float64(e.now().Unix()) - created) / 86400
		return days >= milestoneValue
	default:
		return false
	}
}

func (e *Evaluator) checkSeason(eventData map[string]interface{}) bool {
	season := strings.ToLower(dataString(eventData, "season", ""))
	bounds, ok := seasonRanges[season]
	if !ok {
		return false
	}
	now := e.now()
	current := int(now.Month())*100 + now.Day()
	start := bounds[0][0]*100 + bounds[0][1]
	end := bounds[1][0]*100 + bounds[1][1]

	if season == "winter" {
		return current >= start || current <= end
	}
	return current >= start && current <= end
}

func (e *Evaluator) checkGuildSpecific(data map[string]interface{}, guildID string, stats *models.UserStats) bool {
	conditionType := dataString(data, "condition_type", "")

	switch conditionType {
	case "guild_role":
		return e.checkGuildRole(data, stats)
	case "guild_permission":
		return e.checkGuildPermission(data, stats)
	case "guild_channel_activity":
		return e.checkGuildChannelActivity(data, stats)
	case "guild_boost_status":
		return e.checkGuildBoost(data, stats)
	case "guild_custom_metric":
		return e.checkGuildCustomMetric(data, stats)
	default:
		slog.Warn("Unknown guild-specific condition type",
			slog.String("type", "error"),
			slog.String("condition_type", conditionType),
			slog.String("guild_id", guildID),
		)
		return false
	}
}

// checkGuildRole passes on direct role membership, or on role level when the
// condition names a level instead of a role.
func (e *Evaluator) checkGuildRole(data map[string]interface{}, stats *models.UserStats) bool {
	roleName := dataString(data, "role_name", "")
	roleLevel := dataFloat(data, "role_level", 0)

	if roleName != "" {
		for _, role := range stats.Guild.Roles {
			if role == roleName {
				return true
			}
		}
		return false
	}
	if roleLevel > 0 {
		maxLevel := 0.0
		for _, level := range stats.Guild.RoleLevels {
			if level > maxLevel {
				maxLevel = level
			}
		}
		return maxLevel >= roleLevel
	}
	return false
}

func (e *Evaluator) checkGuildPermission(data map[string]interface{}, stats *models.UserStats) bool {
	required := dataString(data, "permission", "")
	for _, perm := range stats.Guild.Permissions {
		if perm == required {
			return true
		}
	}
	return false
}

func (e *Evaluator) checkGuildChannelActivity(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)

	var activity float64
	switch dataString(data, "channel_type", "") {
	case "voice_channels":
		activity = stats.Guild.VoiceChannelActivity
	case "text_channels":
		activity = stats.Guild.TextChannelActivity
	default:
		return false
	}
	return Compare(activity, threshold, comparison)
}

func (e *Evaluator) checkGuildBoost(data map[string]interface{}, stats *models.UserStats) bool {
	if !stats.Guild.Boost {
		return false
	}
	minDuration := dataFloat(data, "min_duration_days", 0)
	if minDuration <= 0 {
		return true
	}
	if stats.Guild.BoostSince <= 0 {
		return false
	}
	days := float64(e.now().Unix()-stats.Guild.BoostSince) / 86400
	return days >= minDuration
}

func (e *Evaluator) checkGuildCustomMetric(data map[string]interface{}, stats *models.UserStats) bool {
	metricName := dataString(data, "metric_name", "")
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)

	value := 0.0
	if stats.Guild.CustomMetrics != nil {
		value = stats.Guild.CustomMetrics[metricName]
	}
	return Compare(value, threshold, comparison)
}
