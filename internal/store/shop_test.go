package store

import (
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

func TestStoreSchedule(t *testing.T) {
	s := setupTestStores(t)
	f := createTestFamily(t, s)

	sched, err := s.Shop.GetSchedule(f.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sched != nil {
		t.Fatalf("expected no schedule, got %+v", sched)
	}

	want := model.StoreSchedule{
		FamilyID:   f.ID,
		DaysOfWeek: model.Weekdays{time.Saturday, time.Sunday},
		StartTime:  "10:00",
		EndTime:    "12:00",
	}
	if err := s.Shop.SetSchedule(want); err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	want.EndTime = "13:00"
	if err := s.Shop.SetSchedule(want); err != nil {
		t.Fatalf("replace schedule: %v", err)
	}

	sched, err = s.Shop.GetSchedule(f.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sched.EndTime != "13:00" || !sched.DaysOfWeek.Contains(time.Sunday) {
		t.Errorf("schedule = %+v, want replaced values", sched)
	}

	if err := s.Shop.ClearSchedule(f.ID); err != nil {
		t.Fatalf("clear schedule: %v", err)
	}
	sched, _ = s.Shop.GetSchedule(f.ID)
	if sched != nil {
		t.Error("expected nil after clear")
	}
}

func TestAccessorySettingsAndPurchases(t *testing.T) {
	s := setupTestStores(t)
	f := createTestFamily(t, s)
	child := createTestChild(t, s, f.ID, "Ada")

	cost := 75
	if err := s.Shop.SaveSetting(f.ID, model.AccessorySetting{AccessoryID: "hair-long", PointCost: &cost, Available: true}); err != nil {
		t.Fatalf("save setting: %v", err)
	}
	if err := s.Shop.SaveSetting(f.ID, model.AccessorySetting{AccessoryID: "eyewear-round", Available: false}); err != nil {
		t.Fatalf("save setting: %v", err)
	}

	settings, err := s.Shop.Settings(f.ID)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if st := settings["hair-long"]; st.PointCost == nil || *st.PointCost != 75 || !st.Available {
		t.Errorf("hair-long = %+v, want cost 75 available", st)
	}
	if st := settings["eyewear-round"]; st.PointCost != nil || st.Available {
		t.Errorf("eyewear-round = %+v, want default cost unavailable", st)
	}

	at := time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)
	if _, err := s.Shop.RecordPurchase(&model.PurchasedAccessory{ChildID: child.ID, AccessoryID: "hair-long", PointsSpent: 75, PurchasedAt: at}); err != nil {
		t.Fatalf("record purchase: %v", err)
	}

	owned, err := s.Shop.Owned(child.ID)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if !owned["hair-long"] || owned["eyewear-round"] {
		t.Errorf("owned = %v, want only hair-long", owned)
	}

	purchases, err := s.Shop.ListPurchases(child.ID)
	if err != nil {
		t.Fatalf("list purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].PointsSpent != 75 {
		t.Errorf("purchases = %+v", purchases)
	}
}
