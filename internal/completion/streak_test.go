package completion

import (
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		last, day   string
		want        int
		wantChanged bool
	}{
		{"first day", 0, "", "2026-10-19", 1, true},
		{"consecutive", 3, "2026-10-18", "2026-10-19", 4, true},
		{"same day", 3, "2026-10-19", "2026-10-19", 3, false},
		{"gap resets", 5, "2026-10-16", "2026-10-19", 1, true},
		{"month boundary", 2, "2026-09-30", "2026-10-01", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := NextStreak(tt.current, tt.last, tt.day, time.UTC)
			if err != nil {
				t.Fatalf("next streak: %v", err)
			}
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("NextStreak = %d/%v, want %d/%v", got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestStreakAdvancesOnFullDay(t *testing.T) {
	f := setupFixture(t)

	for i := 0; i < 2; i++ {
		at := mondayEvening.AddDate(0, 0, i)
		w := f.workflow(at)
		c, err := w.MarkComplete(f.assignment.ID)
		if err != nil {
			t.Fatalf("mark complete: %v", err)
		}
		if _, err := w.Verify(c.ID, nil); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}

	ava := f.child(t)
	if ava.CurrentStreak != 2 || ava.LastStreakDate != "2026-10-20" {
		t.Errorf("streak = %d on %q, want 2 on 2026-10-20", ava.CurrentStreak, ava.LastStreakDate)
	}
}

func TestStreakWaitsForEveryAssignment(t *testing.T) {
	f := setupFixture(t)
	bed, _ := f.stores.Chores.Create(&model.Chore{FamilyID: f.family.ID, Name: "Bed", PointValue: 2})
	if _, err := f.stores.Assignments.Create(&model.ChoreAssignment{
		FamilyID: f.family.ID, ChoreID: bed.ID, ChildID: f.ava.ID,
		DaysOfWeek: model.Weekdays{time.Monday}, TimePeriods: model.PeriodIDs{model.PeriodMorning},
	}); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	w := f.workflow(mondayEvening)
	c, _ := w.MarkComplete(f.assignment.ID)
	if _, err := w.Verify(c.ID, nil); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ava := f.child(t); ava.CurrentStreak != 0 {
		t.Errorf("streak = %d, want 0 while bed is undone", ava.CurrentStreak)
	}
}

func TestStreakBonusOnSeventhDay(t *testing.T) {
	f := setupFixture(t)
	if err := f.stores.Children.SetStreak(f.ava.ID, 6, "2026-10-18"); err != nil {
		t.Fatalf("set streak: %v", err)
	}

	w := f.workflow(mondayEvening)
	c, _ := w.MarkComplete(f.assignment.ID)
	if _, err := w.Verify(c.ID, nil); err != nil {
		t.Fatalf("verify: %v", err)
	}

	ava := f.child(t)
	if ava.CurrentStreak != 7 {
		t.Errorf("streak = %d, want 7", ava.CurrentStreak)
	}
	if ava.IndividualPoints != 55 || ava.TotalPointsEarned != 55 {
		t.Errorf("child points = %d/%d, want 55/55 with bonus", ava.IndividualPoints, ava.TotalPointsEarned)
	}
	if pool := f.pool(t); pool != 55 {
		t.Errorf("pool = %d, want 55", pool)
	}
}
