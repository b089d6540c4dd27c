package achievements

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// Evaluator decides whether a single achievement's condition is met. It is
// stateless apart from the clock, which is swappable for calendar tests.
//
// Evaluation is fail-closed: malformed condition data, unknown types and
// unknown operators all evaluate to false with a logged warning. A
// mis-configured achievement must never unlock by accident.
type Evaluator struct {
	now func() time.Time
}

func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// Evaluate reports whether def's condition holds for the user right now.
// The record is part of the contract for condition types that may need
// unlock history; none of the current types read it.
func (e *Evaluator) Evaluate(def *models.AchievementDefinition, userID, guildID string, event ActivityEvent, stats *models.UserStats, record *models.UserAchievementRecord) bool {
	if def == nil {
		return false
	}
	if !def.Enabled {
		slog.Debug("Achievement is disabled", slog.String("achievement_id", def.AchievementID))
		return false
	}
	if stats == nil {
		stats = models.NewUserStats(userID, guildID)
	}

	slog.Debug("Checking achievement condition",
		slog.String("achievement_id", def.AchievementID),
		slog.String("condition_type", def.ConditionType),
	)

	data := def.ConditionData
	switch def.ConditionType {
	case models.ConditionLevel:
		return e.checkLevel(data, stats)
	case models.ConditionMessages,
		models.ConditionVoiceTime,
		models.ConditionVoiceSessions,
		models.ConditionDailyStreak,
		models.ConditionReactionsGiven,
		models.ConditionGotReactions,
		models.ConditionAttachmentMessages,
		models.ConditionLinksSent,
		models.ConditionAttachmentsSent,
		models.ConditionQualityStreak,
		models.ConditionPrestigeLevel,
		models.ConditionField:
		return e.checkField(data, stats)
	case models.ConditionTimeBased:
		return e.checkTimeBased(data, stats)
	case models.ConditionCombination:
		return e.checkCombination(data, stats)
	case models.ConditionTimePattern:
		return e.checkTimePattern(data, stats)
	case models.ConditionWeekendActivity:
		return e.checkWeekendActivity(data, stats)
	case models.ConditionDayOfWeek:
		return e.checkDayOfWeek(data, stats)
	case models.ConditionDayOfMonth:
		return e.checkDayOfMonth(data, stats)
	case models.ConditionWeekdayWeekend:
		return e.checkWeekdayWeekend(data, stats)
	case models.ConditionCustom:
		return e.checkCustom(data, guildID, stats)
	default:
		slog.Warn("Unknown achievement condition type",
			slog.String("type", "error"),
			slog.String("achievement_id", def.AchievementID),
			slog.String("condition_type", def.ConditionType),
		)
		return false
	}
}

func (e *Evaluator) checkLevel(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)
	return Compare(float64(stats.Level), threshold, comparison)
}

// checkField compares a dotted stats field against the condition threshold.
// A missing or unresolvable field compares as 0.
func (e *Evaluator) checkField(data map[string]interface{}, stats *models.UserStats) bool {
	field := dataString(data, "field", "")
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)
	return Compare(fieldValue(stats.View(), field), threshold, comparison)
}

func (e *Evaluator) checkTimeBased(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 1)
	unit := dataString(data, "unit", "days")
	comparison := dataString(data, "comparison", OpGTE)

	if stats.CreatedAt.IsZero() {
		return false
	}
	elapsed := e.now().Sub(stats.CreatedAt).Seconds()
	switch unit {
	case "days":
		elapsed /= 86400
	case "hours":
		elapsed /= 3600
	case "minutes":
		elapsed /= 60
	}
	// Default unit is seconds.
	return Compare(elapsed, threshold, comparison)
}

// checkCombination evaluates each sub-requirement to a boolean and folds the
// results under the and/or operator. A requirement of type "level" reads the
// level directly; anything else resolves its dotted field, with a missing
// field counting as 0.
func (e *Evaluator) checkCombination(data map[string]interface{}, stats *models.UserStats) bool {
	operator := dataString(data, "operator", "and")
	requirements := dataList(data, "requirements")
	view := stats.View()

	results := make([]bool, 0, len(requirements))
	for _, raw := range requirements {
		req, ok := raw.(map[string]interface{})
		if !ok {
			slog.Warn("Malformed combination requirement", slog.String("type", "error"))
			return false
		}
		reqType := dataString(req, "type", "")
		threshold := dataFloat(req, "threshold", 1)
		comparison := dataString(req, "comparison", OpGTE)
		field := dataString(req, "field", "")

		var current float64
		if reqType == "level" {
			current = float64(stats.Level)
		} else if field != "" {
			current = fieldValue(view, field)
		}
		results = append(results, Compare(current, threshold, comparison))
	}

	switch operator {
	case "and":
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	case "or":
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	default:
		slog.Warn("Unknown combination operator",
			slog.String("type", "error"),
			slog.String("operator", operator),
		)
		return false
	}
}

// checkTimePattern sums the hour-of-day histogram across the condition's
// HH:MM window and compares the total. Minutes are validated but the
// histogram only has hour resolution, so the window covers whole hours,
// inclusive on both ends, wrapping past midnight when start > end.
func (e *Evaluator) checkTimePattern(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 10)
	comparison := dataString(data, "comparison", OpGTE)
	timeRange := dataMap(data, "time_range")

	if timeRange == nil || !hasKey(timeRange, "start") || !hasKey(timeRange, "end") {
		slog.Warn("Invalid time range for time pattern condition", slog.String("type", "error"))
		return false
	}
	startHour, _, err := parseClock(dataString(timeRange, "start", ""))
	if err != nil {
		slog.Warn("Invalid time range for time pattern condition",
			slog.String("type", "error"),
			slog.Any("error", err),
		)
		return false
	}
	endHour, _, err := parseClock(dataString(timeRange, "end", ""))
	if err != nil {
		slog.Warn("Invalid time range for time pattern condition",
			slog.String("type", "error"),
			slog.Any("error", err),
		)
		return false
	}

	total := sumHourWindow(stats.HourCounts, startHour, endHour)
	slog.Debug("Time pattern check",
		slog.Int64("total", total),
		slog.Int("start_hour", startHour),
		slog.Int("end_hour", endHour),
	)
	return Compare(float64(total), threshold, comparison)
}

func (e *Evaluator) checkWeekendActivity(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 8)
	comparison := dataString(data, "comparison", OpGTE)
	minPerWeekend := int64(dataFloat(data, "min_activity_per_weekend", 10))

	count := countActiveWeekends(stats.DailyActivity, minPerWeekend)
	slog.Debug("Weekend activity check",
		slog.Int("active_weekends", count),
		slog.Int64("min_activity_per_weekend", minPerWeekend),
	)
	return Compare(float64(count), threshold, comparison)
}

func (e *Evaluator) checkDayOfWeek(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)
	minPerDay := int64(dataFloat(data, "min_activity_per_day", 1))
	days := dataStrings(data, "days")

	if len(days) == 0 {
		slog.Warn("No days specified for day_of_week condition", slog.String("type", "error"))
		return false
	}
	allowed := make(map[int]bool, len(days))
	for _, name := range days {
		n, ok := dayNumber(name)
		if !ok {
			slog.Warn("Unknown day name",
				slog.String("type", "error"),
				slog.String("day", name),
			)
			return false
		}
		allowed[n] = true
	}

	count := countQualifyingDays(stats.DailyActivity, allowed, minPerDay)
	return Compare(float64(count), threshold, comparison)
}

func (e *Evaluator) checkDayOfMonth(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)
	minPerDay := int64(dataFloat(data, "min_activity_per_day", 1))
	daysOfMonth := dataList(data, "days_of_month")

	if len(daysOfMonth) == 0 {
		slog.Warn("No days of month specified for day_of_month condition", slog.String("type", "error"))
		return false
	}
	allowed := make(map[int]bool)
	for _, raw := range daysOfMonth {
		f, ok := toFloat(raw)
		if !ok || f != math.Trunc(f) || f < 1 || f > 31 {
			slog.Warn("Invalid day of month",
				slog.String("type", "error"),
				slog.Any("day", raw),
			)
			continue
		}
		allowed[int(f)] = true
	}
	if len(allowed) == 0 {
		slog.Warn("No valid days of month found for day_of_month condition", slog.String("type", "error"))
		return false
	}

	count := countQualifyingMonthDays(stats.DailyActivity, allowed, minPerDay)
	return Compare(float64(count), threshold, comparison)
}

func (e *Evaluator) checkWeekdayWeekend(data map[string]interface{}, stats *models.UserStats) bool {
	threshold := dataFloat(data, "threshold", 1)
	comparison := dataString(data, "comparison", OpGTE)
	minPerDay := int64(dataFloat(data, "min_activity_per_day", 1))
	dayType := dataString(data, "day_type", "weekday")

	var target []int
	switch strings.ToLower(dayType) {
	case "weekday":
		target = weekdayNumbers
	case "weekend":
		target = weekendNumbers
	default:
		slog.Warn("Invalid day_type, must be weekday or weekend",
			slog.String("type", "error"),
			slog.String("day_type", dayType),
		)
		return false
	}

	count := countQualifyingDays(stats.DailyActivity, allowedDaySet(target), minPerDay)
	return Compare(float64(count), threshold, comparison)
}

func (e *Evaluator) checkCustom(data map[string]interface{}, guildID string, stats *models.UserStats) bool {
	customType := dataString(data, "custom_type", "")

	switch customType {
	case "special_event":
		return e.checkSpecialEvent(data, stats)
	case "guild_specific":
		return e.checkGuildSpecific(data, guildID, stats)
	default:
		slog.Warn("Unknown custom condition type",
			slog.String("type", "error"),
			slog.String("custom_type", customType),
		)
		return false
	}
}
