// Package schedule maps wall-clock instants onto the family's daily time
// periods and the avatar store's opening hours. Everything here is a pure
// function of its inputs; callers pass instants already in the family's
// location.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

const minutesPerDay = 24 * 60

// DayOfWeek returns 0 for Sunday through 6 for Saturday.
func DayOfWeek(t time.Time) time.Weekday {
	return t.Weekday()
}

// MinutesOfDay returns minutes since local midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock parses a 24-hour "HH:MM" value into minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// InWindow reports whether minute lies in [start, end). When end < start the
// window crosses midnight. start == end is an empty window.
func InWindow(minute, start, end int) bool {
	if start <= end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// ActivePeriod returns the first period in periods whose window contains t,
// or nil. Periods with unparseable bounds never match.
func ActivePeriod(t time.Time, periods []model.TimePeriod) *model.TimePeriod {
	minute := MinutesOfDay(t)
	for i := range periods {
		start, err := ParseClock(periods[i].StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(periods[i].EndTime)
		if err != nil {
			continue
		}
		if InWindow(minute, start, end) {
			return &periods[i]
		}
	}
	return nil
}

// DateKey formats t's local calendar day as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DayBounds returns local midnight of t's day and of the following day.
func DayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// PreviousDateKey returns the key of the calendar day before key.
func PreviousDateKey(key string, loc *time.Location) (string, error) {
	d, err := time.ParseInLocation(time.DateOnly, key, loc)
	if err != nil {
		return "", fmt.Errorf("parse date key: %w", err)
	}
	return DateKey(d.AddDate(0, 0, -1)), nil
}

// StoreOpen reports whether the avatar store accepts purchases at t. A nil
// schedule means the store is always open. Unlike time periods the closing
// minute is inclusive and the window never wraps past midnight.
func StoreOpen(t time.Time, sched *model.StoreSchedule) bool {
	if sched == nil {
		return true
	}
	if !sched.DaysOfWeek.Contains(DayOfWeek(t)) {
		return false
	}
	start, err := ParseClock(sched.StartTime)
	if err != nil {
		return false
	}
	end, err := ParseClock(sched.EndTime)
	if err != nil {
		return false
	}
	minute := MinutesOfDay(t)
	return minute >= start && minute <= end
}

// DefaultPeriods returns the four periods a new family starts with.
func DefaultPeriods(familyID string) []model.TimePeriod {
	return []model.TimePeriod{
		{ID: model.PeriodMorning, FamilyID: familyID, DisplayName: "Morning", StartTime: "06:00", EndTime: "09:00", SortOrder: 0},
		{ID: model.PeriodDaytime, FamilyID: familyID, DisplayName: "Daytime", StartTime: "09:00", EndTime: "15:00", SortOrder: 1},
		{ID: model.PeriodAfterSchool, FamilyID: familyID, DisplayName: "After School", StartTime: "15:00", EndTime: "18:00", SortOrder: 2},
		{ID: model.PeriodEvening, FamilyID: familyID, DisplayName: "Evening", StartTime: "18:00", EndTime: "21:00", SortOrder: 3},
	}
}
