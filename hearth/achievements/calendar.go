package achievements

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

const dateLayout = "2006-01-02"

// Day-of-week numbering follows time.Weekday (Sunday=0 .. Saturday=6).
// Abbreviated names are accepted because hand-authored definitions use them.
var dayNumbers = map[string]int{
	"sunday": 0, "sun": 0,
	"monday": 1, "mon": 1,
	"tuesday": 2, "tue": 2, "tues": 2,
	"wednesday": 3, "wed": 3,
	"thursday": 4, "thu": 4, "thur": 4, "thurs": 4,
	"friday": 5, "fri": 5,
	"saturday": 6, "sat": 6,
}

var (
	weekdayNumbers = []int{1, 2, 3, 4, 5}
	weekendNumbers = []int{0, 6}
)

// dayNumber maps a day name (full or abbreviated, any case) to its weekday
// number.
func dayNumber(name string) (int, bool) {
	n, ok := dayNumbers[strings.ToLower(name)]
	return n, ok
}

// parseClock parses a "HH:MM" string into its hour and minute parts.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value %q out of range", s)
	}
	return hour, minute, nil
}

// countQualifyingDays scans a per-day activity index and counts the distinct
// days whose weekday is in the allowed set and whose total activity meets the
// per-day floor. Malformed date keys are skipped.
func countQualifyingDays(daily map[string]models.DayActivity, allowed map[int]bool, minPerDay int64) int {
	count := 0
	for date, day := range daily {
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		if !allowed[int(t.Weekday())] {
			continue
		}
		if day.Total() >= minPerDay {
			count++
		}
	}
	return count
}

// countQualifyingMonthDays counts the distinct days whose day-of-month is in
// the allowed set and whose total activity meets the per-day floor.
func countQualifyingMonthDays(daily map[string]models.DayActivity, allowed map[int]bool, minPerDay int64) int {
	count := 0
	for date, day := range daily {
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		if !allowed[t.Day()] {
			continue
		}
		if day.Total() >= minPerDay {
			count++
		}
	}
	return count
}

// countActiveWeekends groups Saturday and Sunday activity by ISO week and
// counts the weekends whose combined total meets the floor.
func countActiveWeekends(daily map[string]models.DayActivity, minPerWeekend int64) int {
	type yearWeek struct {
		year int
		week int
	}
	totals := make(map[yearWeek]int64)
	for date, day := range daily {
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		wd := int(t.Weekday())
		if wd != 0 && wd != 6 {
			continue
		}
		year, week := t.ISOWeek()
		totals[yearWeek{year, week}] += day.Total()
	}
	count := 0
	for _, total := range totals {
		if total >= minPerWeekend {
			count++
		}
	}
	return count
}

// sumHourWindow sums the hour-of-day histogram across a window of hours,
// inclusive on both ends. A start after the end wraps past midnight, so
// 22..2 covers hours 22, 23, 0, 1 and 2.
func sumHourWindow(counts []int64, startHour, endHour int) int64 {
	at := func(h int) int64 {
		if h < 0 || h >= len(counts) {
			return 0
		}
		return counts[h]
	}
	var sum int64
	if startHour <= endHour {
		for h := startHour; h <= endHour; h++ {
			sum += at(h)
		}
		return sum
	}
	for h := startHour; h <= 23; h++ {
		sum += at(h)
	}
	for h := 0; h <= endHour; h++ {
		sum += at(h)
	}
	return sum
}

// allowedDaySet builds a membership set from a list of weekday numbers.
func allowedDaySet(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}
