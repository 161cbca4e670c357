package completion

import (
	"time"

	"github.com/dukerupert/chorequest/internal/ledger"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/schedule"
	"github.com/dukerupert/chorequest/internal/store"
)

const streakBonusEvery = 7

// advanceStreak moves the child's streak forward once every assignment due
// on the completion's day has a verified completion.
func (w *Workflow) advanceStreak(tx *store.Stores, c *model.Completion, now time.Time) error {
	day := c.CompletedAt.In(now.Location())
	complete, err := dayComplete(tx, c.ChildID, day)
	if err != nil || !complete {
		return err
	}

	child, err := tx.Children.GetByID(c.ChildID)
	if err != nil || child == nil {
		return err
	}
	key := schedule.DateKey(day)
	streak, changed, err := NextStreak(child.CurrentStreak, child.LastStreakDate, key, day.Location())
	if err != nil || !changed {
		return err
	}
	if err := tx.Children.SetStreak(child.ID, streak, key); err != nil {
		return err
	}
	w.logger.Info("streak advanced", "child_id", child.ID, "streak", streak, "date", key)

	if streak%streakBonusEvery != 0 {
		return nil
	}
	family, err := tx.Families.GetByID(child.FamilyID)
	if err != nil || family == nil || family.StreakBonusPoints <= 0 {
		return err
	}
	w.logger.Info("streak bonus awarded", "child_id", child.ID, "points", family.StreakBonusPoints)
	return ledger.Award(tx, child.ID, family.StreakBonusPoints)
}

// NextStreak computes the streak after a fully verified day. changed is
// false when the day was already counted.
func NextStreak(current int, lastDate, day string, loc *time.Location) (streak int, changed bool, err error) {
	if lastDate == day {
		return current, false, nil
	}
	prev, err := schedule.PreviousDateKey(day, loc)
	if err != nil {
		return current, false, err
	}
	if lastDate == prev {
		return current + 1, true, nil
	}
	return 1, true, nil
}

func dayComplete(tx *store.Stores, childID string, day time.Time) (bool, error) {
	assignments, err := tx.Assignments.ListByChild(childID)
	if err != nil {
		return false, err
	}
	start, end := schedule.DayBounds(day)

	due := 0
	for _, a := range assignments {
		if !a.DaysOfWeek.Contains(schedule.DayOfWeek(day)) {
			continue
		}
		due++
		completions, err := tx.Completions.ListForAssignmentInRange(a.ID, start, end)
		if err != nil {
			return false, err
		}
		verified := false
		for _, c := range completions {
			if c.Terminal() {
				verified = true
				break
			}
		}
		if !verified {
			return false, nil
		}
	}
	return due > 0, nil
}
