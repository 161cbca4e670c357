package model

import "time"

type Chore struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"family_id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	PointValue int       `json:"point_value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChoreAssignment schedules one chore for one child on a set of days and
// time periods. Several assignments may link the same child and chore.
type ChoreAssignment struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"family_id"`
	ChoreID     string    `json:"chore_id"`
	ChildID     string    `json:"child_id"`
	DaysOfWeek  Weekdays  `json:"days_of_week"`
	TimePeriods PeriodIDs `json:"time_periods"`
	CreatedAt   time.Time `json:"created_at"`
}

type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionVerified CompletionStatus = "verified"
	CompletionAdjusted CompletionStatus = "adjusted"
)

// Completion records a chore marked done for one assignment. The chore's
// name, icon and point value are copied in so history stays readable after
// the chore is deleted.
type Completion struct {
	ID            string           `json:"id"`
	FamilyID      string           `json:"family_id"`
	AssignmentID  string           `json:"assignment_id"`
	ChildID       string           `json:"child_id"`
	ChoreID       string           `json:"chore_id"`
	ChoreName     string           `json:"chore_name"`
	ChoreIcon     string           `json:"chore_icon"`
	ChorePoints   int              `json:"chore_points"`
	Status        CompletionStatus `json:"status"`
	CompletedAt   time.Time        `json:"completed_at"`
	VerifiedAt    *time.Time       `json:"verified_at"`
	PointsAwarded *int             `json:"points_awarded"`
	ArchivedAt    *time.Time       `json:"archived_at"`
}

// Terminal reports whether the completion has been verified or adjusted.
func (c Completion) Terminal() bool {
	return c.Status == CompletionVerified || c.Status == CompletionAdjusted
}
