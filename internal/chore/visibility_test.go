package chore

import (
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

var evening = &model.TimePeriod{ID: model.PeriodEvening, StartTime: "18:00", EndTime: "21:00"}

func baseSnapshot() Snapshot {
	return Snapshot{
		Assignments: []model.ChoreAssignment{
			{ID: "a1", ChoreID: "dishes", ChildID: "ava", DaysOfWeek: model.Weekdays{time.Monday}, TimePeriods: model.PeriodIDs{model.PeriodEvening}},
			{ID: "a2", ChoreID: "bed", ChildID: "ava", DaysOfWeek: model.Weekdays{time.Monday, time.Tuesday}, TimePeriods: model.PeriodIDs{model.PeriodMorning}},
			{ID: "a3", ChoreID: "dishes", ChildID: "ben", DaysOfWeek: model.Weekdays{time.Monday}, TimePeriods: model.PeriodIDs{model.PeriodEvening}},
		},
		Chores: []model.Chore{
			{ID: "dishes", Name: "Dishes", PointValue: 5},
			{ID: "bed", Name: "Make bed", PointValue: 2},
		},
		Day:    time.Monday,
		Period: evening,
	}
}

func TestCurrentChores(t *testing.T) {
	s := baseSnapshot()

	got := CurrentChores("ava", s)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Chore.Name != "Dishes" {
		t.Errorf("chore = %q, want Dishes", got[0].Chore.Name)
	}
	if got[0].Completion != nil || got[0].Status != StatusDue {
		t.Errorf("completion = %v status = %q, want nil/due", got[0].Completion, got[0].Status)
	}
}

func TestCurrentChoresNoPeriod(t *testing.T) {
	s := baseSnapshot()
	s.Period = nil

	if got := CurrentChores("ava", s); len(got) != 0 {
		t.Errorf("len = %d, want 0 with no active period", len(got))
	}
}

func TestCurrentChoresWrongDay(t *testing.T) {
	s := baseSnapshot()
	s.Day = time.Tuesday

	if got := CurrentChores("ava", s); len(got) != 0 {
		t.Errorf("len = %d, want 0 on Tuesday evening", len(got))
	}
}

func TestAllTodayChores(t *testing.T) {
	s := baseSnapshot()

	got := AllTodayChores("ava", s)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestDeletedChoreSkipped(t *testing.T) {
	s := baseSnapshot()
	s.Chores = s.Chores[1:]

	if got := CurrentChores("ava", s); len(got) != 0 {
		t.Errorf("len = %d, want dangling assignment skipped", len(got))
	}
	if got := AllTodayChores("ava", s); len(got) != 1 {
		t.Errorf("today len = %d, want 1", len(got))
	}
}

func TestDuplicateAssignmentsProduceRows(t *testing.T) {
	s := baseSnapshot()
	s.Assignments = append(s.Assignments, model.ChoreAssignment{
		ID: "a4", ChoreID: "dishes", ChildID: "ava",
		DaysOfWeek: model.Weekdays{time.Monday}, TimePeriods: model.PeriodIDs{model.PeriodEvening},
	})

	if got := CurrentChores("ava", s); len(got) != 2 {
		t.Errorf("len = %d, want 2 rows for overlapping assignments", len(got))
	}
}

func TestCompletionJoin(t *testing.T) {
	s := baseSnapshot()
	points := 5
	s.Completions = []model.Completion{
		{ID: "c1", AssignmentID: "a1", Status: model.CompletionPending},
		{ID: "c2", AssignmentID: "a1", Status: model.CompletionVerified, PointsAwarded: &points},
		{ID: "c3", AssignmentID: "a2", Status: model.CompletionVerified, PointsAwarded: &points},
	}

	got := AllTodayChores("ava", s)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	byAssignment := map[string]Instance{}
	for _, inst := range got {
		byAssignment[inst.Assignment.ID] = inst
	}
	if c := byAssignment["a1"].Completion; c == nil || c.ID != "c1" {
		t.Errorf("a1 completion = %v, want first match c1", c)
	}
	if byAssignment["a1"].Status != StatusPending {
		t.Errorf("a1 status = %q, want pending", byAssignment["a1"].Status)
	}
	if byAssignment["a2"].Status != StatusVerified {
		t.Errorf("a2 status = %q, want verified", byAssignment["a2"].Status)
	}

	done, total := Progress(got)
	if done != 2 || total != 2 {
		t.Errorf("progress = %d/%d, want 2/2", done, total)
	}
}

func TestProgressEmpty(t *testing.T) {
	done, total := Progress(nil)
	if done != 0 || total != 0 {
		t.Errorf("progress = %d/%d, want 0/0", done, total)
	}
}
