package achievements

import (
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// calendarTracker covers the day-pattern condition types. Progress mirrors
// each type's evaluation metric, so the percentage is the same quantity the
// evaluator will eventually compare: window activity for time_pattern,
// qualifying weekends or days for the rest.
type calendarTracker struct {
	now func() time.Time
}

func newCalendarTracker() *calendarTracker {
	return &calendarTracker{now: time.Now}
}

func (t *calendarTracker) Category() string { return models.CategoryCalendar }

func (t *calendarTracker) Owns(def *models.AchievementDefinition) bool {
	switch def.ConditionType {
	case models.ConditionTimePattern,
		models.ConditionWeekendActivity,
		models.ConditionDayOfWeek,
		models.ConditionDayOfMonth,
		models.ConditionWeekdayWeekend:
		return true
	}
	return false
}

func (t *calendarTracker) Entry(def *models.AchievementDefinition, stats *models.UserStats, event ActivityEvent) (models.ProgressEntry, bool) {
	current, target := t.values(def, stats)
	if target <= 0 {
		return models.ProgressEntry{}, false
	}
	return newEntry(current, target, def.ConditionType, "", t.now())
}

// values resolves (current, target) per condition type. Malformed condition
// data degrades to a current of 0 rather than dropping the entry, so a
// half-authored definition still shows up at 0%.
func (t *calendarTracker) values(def *models.AchievementDefinition, stats *models.UserStats) (float64, float64) {
	data := def.ConditionData

	switch def.ConditionType {
	case models.ConditionTimePattern:
		target := dataFloat(data, "threshold", 10)
		timeRange := dataMap(data, "time_range")
		if timeRange == nil {
			return 0, target
		}
		startHour, _, err := parseClock(dataString(timeRange, "start", ""))
		if err != nil {
			return 0, target
		}
		endHour, _, err := parseClock(dataString(timeRange, "end", ""))
		if err != nil {
			return 0, target
		}
		return float64(sumHourWindow(stats.HourCounts, startHour, endHour)), target

	case models.ConditionWeekendActivity:
		target := dataFloat(data, "threshold", 8)
		minPerWeekend := int64(dataFloat(data, "min_activity_per_weekend", 10))
		return float64(countActiveWeekends(stats.DailyActivity, minPerWeekend)), target

	case models.ConditionDayOfWeek:
		target := dataFloat(data, "threshold", 1)
		minPerDay := int64(dataFloat(data, "min_activity_per_day", 1))
		allowed := make(map[int]bool)
		for _, name := range dataStrings(data, "days") {
			if n, ok := dayNumber(name); ok {
				allowed[n] = true
			}
		}
		if len(allowed) == 0 {
			return 0, target
		}
		return float64(countQualifyingDays(stats.DailyActivity, allowed, minPerDay)), target

	case models.ConditionDayOfMonth:
		target := dataFloat(data, "threshold", 1)
		minPerDay := int64(dataFloat(data, "min_activity_per_day", 1))
		allowed := make(map[int]bool)
		for _, raw := range dataList(data, "days_of_month") {
			if f, ok := toFloat(raw); ok && f >= 1 && f <= 31 {
				allowed[int(f)] = true
			}
		}
		if len(allowed) == 0 {
			return 0, target
		}
		return float64(countQualifyingMonthDays(stats.DailyActivity, allowed, minPerDay)), target

	case models.ConditionWeekdayWeekend:
		target := dataFloat(data, "threshold", 1)
		minPerDay := int64(dataFloat(data, "min_activity_per_day", 1))
		var days []int
		switch dataString(data, "day_type", "weekday") {
		case "weekday":
			days = weekdayNumbers
		case "weekend":
			days = weekendNumbers
		default:
			return 0, target
		}
		return float64(countQualifyingDays(stats.DailyActivity, allowedDaySet(days), minPerDay)), target
	}
	return 0, 1
}
