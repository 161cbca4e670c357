package model

type TimePeriodID string

const (
	PeriodMorning     TimePeriodID = "morning"
	PeriodDaytime     TimePeriodID = "daytime"
	PeriodAfterSchool TimePeriodID = "afterSchool"
	PeriodEvening     TimePeriodID = "evening"
)

// AllPeriodIDs lists the fixed period identifiers in display order.
var AllPeriodIDs = []TimePeriodID{PeriodMorning, PeriodDaytime, PeriodAfterSchool, PeriodEvening}

func (id TimePeriodID) Valid() bool {
	for _, p := range AllPeriodIDs {
		if p == id {
			return true
		}
	}
	return false
}

// TimePeriod is a named daily window. StartTime and EndTime are "HH:MM" on a
// 24-hour local clock; an EndTime before StartTime wraps past midnight.
type TimePeriod struct {
	ID          TimePeriodID `json:"id"`
	FamilyID    string       `json:"family_id"`
	DisplayName string       `json:"display_name"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	SortOrder   int          `json:"sort_order"`
}
