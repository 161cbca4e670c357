package shop

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/database"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/store"
)

// 2026-10-23 is a Friday.
var fridayNoon = time.Date(2026, 10, 23, 12, 0, 0, 0, time.UTC)

func setupShop(t *testing.T, at time.Time) (*Shop, *store.Stores, *model.Child) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	f, err := s.Families.Create(&model.Family{AdminPINHash: "x"})
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	c, err := s.Children.Create(&model.Child{
		FamilyID:         f.ID,
		Name:             "Ava",
		AvatarConfig:     model.AvatarConfig{"seed": "ava"},
		IndividualPoints: 400,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s, catalog, clock.Fixed(at), logger), s, c
}

func TestPurchase(t *testing.T) {
	sh, s, ava := setupShop(t, fridayNoon)

	res, err := sh.Purchase(ava.ID, "curly")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if res.Charged != 300 {
		t.Errorf("charged = %d, want 300", res.Charged)
	}
	if res.Child.IndividualPoints != 100 {
		t.Errorf("balance = %d, want 100", res.Child.IndividualPoints)
	}
	if res.Child.AvatarConfig["top"] != "curly" || res.Child.AvatarConfig["seed"] != "ava" {
		t.Errorf("avatar = %v, want top=curly with seed kept", res.Child.AvatarConfig)
	}

	purchases, err := sh.Purchases(ava.ID)
	if err != nil {
		t.Fatalf("purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].PointsSpent != 300 {
		t.Errorf("purchases = %+v", purchases)
	}

	fam, _ := s.Families.GetByID(ava.FamilyID)
	if fam.Points != 0 {
		t.Errorf("pool = %d, want untouched 0", fam.Points)
	}
}

func TestPurchaseInsufficientPoints(t *testing.T) {
	sh, s, ava := setupShop(t, fridayNoon)
	if err := s.Children.SetPoints(ava.ID, 299, 299); err != nil {
		t.Fatalf("set points: %v", err)
	}

	if _, err := sh.Purchase(ava.ID, "curly"); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err = %v, want ErrInsufficientPoints", err)
	}
	child, _ := s.Children.GetByID(ava.ID)
	if child.IndividualPoints != 299 || child.AvatarConfig["top"] != "" {
		t.Errorf("child changed after failed purchase: %+v", child)
	}
	owned, _ := s.Shop.Owned(ava.ID)
	if len(owned) != 0 {
		t.Errorf("owned = %v, want none", owned)
	}
}

func TestPurchaseStoreClosed(t *testing.T) {
	fridayEvening := time.Date(2026, 10, 23, 18, 0, 0, 0, time.UTC)
	sh, s, ava := setupShop(t, fridayEvening)
	if err := s.Children.SetPoints(ava.ID, 10000, 10000); err != nil {
		t.Fatalf("set points: %v", err)
	}
	weekdays := model.Weekdays{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	if _, err := sh.SetSchedule(weekdays, "09:00", "17:00"); err != nil {
		t.Fatalf("set schedule: %v", err)
	}

	open, err := sh.IsOpen()
	if err != nil {
		t.Fatalf("is open: %v", err)
	}
	if open {
		t.Error("store should be closed Friday 18:00")
	}
	if _, err := sh.Purchase(ava.ID, "earring"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("err = %v, want ErrStoreClosed", err)
	}
}

func TestOwnedAccessoryReappliedFree(t *testing.T) {
	sh, s, ava := setupShop(t, fridayNoon)
	if err := s.Children.SetPoints(ava.ID, 1000, 1000); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if _, err := sh.Purchase(ava.ID, "bob"); err != nil {
		t.Fatalf("purchase bob: %v", err)
	}
	if _, err := sh.Purchase(ava.ID, "curly"); err != nil {
		t.Fatalf("purchase curly: %v", err)
	}

	res, err := sh.Purchase(ava.ID, "bob")
	if err != nil {
		t.Fatalf("repurchase: %v", err)
	}
	if res.Charged != 0 {
		t.Errorf("charged = %d, want 0 for owned item", res.Charged)
	}
	if res.Child.IndividualPoints != 400 {
		t.Errorf("balance = %d, want 400", res.Child.IndividualPoints)
	}
	if res.Child.AvatarConfig["top"] != "bob" {
		t.Errorf("top = %q, want bob", res.Child.AvatarConfig["top"])
	}
}

func TestSelect(t *testing.T) {
	sh, s, ava := setupShop(t, fridayNoon)
	if err := s.Children.SetPoints(ava.ID, 1000, 1000); err != nil {
		t.Fatalf("set points: %v", err)
	}

	if _, err := sh.Select(ava.ID, "bob"); !errors.Is(err, ErrNotOwned) {
		t.Errorf("select unowned err = %v, want ErrNotOwned", err)
	}

	sh.Purchase(ava.ID, "bob")
	sh.Purchase(ava.ID, "curly")

	// Closed all week: selecting owned items still works.
	if _, err := sh.SetSchedule(model.Weekdays{}, "09:00", "10:00"); err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	res, err := sh.Select(ava.ID, "bob")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if res.Child.AvatarConfig["top"] != "bob" {
		t.Errorf("top = %q, want bob", res.Child.AvatarConfig["top"])
	}
	if res.Child.IndividualPoints != 1000-600 {
		t.Errorf("balance = %d, want 400", res.Child.IndividualPoints)
	}
}

func TestAccessorySettings(t *testing.T) {
	sh, _, ava := setupShop(t, fridayNoon)

	cost := 50
	if err := sh.SetAccessorySetting(model.AccessorySetting{AccessoryID: "curly", PointCost: &cost, Available: true}); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if err := sh.SetAccessorySetting(model.AccessorySetting{AccessoryID: "bob", Available: false}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if err := sh.SetAccessorySetting(model.AccessorySetting{AccessoryID: "jetpack", Available: true}); !errors.Is(err, ErrUnknownAccessory) {
		t.Errorf("unknown err = %v, want ErrUnknownAccessory", err)
	}

	if _, err := sh.Purchase(ava.ID, "bob"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("disabled purchase err = %v, want ErrUnavailable", err)
	}
	res, err := sh.Purchase(ava.ID, "curly")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if res.Charged != 50 {
		t.Errorf("charged = %d, want overridden 50", res.Charged)
	}

	items, err := sh.Accessories(ava.ID)
	if err != nil {
		t.Fatalf("accessories: %v", err)
	}
	for _, a := range items {
		switch a.ID {
		case "curly":
			if !a.Owned || a.PointCost != 50 {
				t.Errorf("curly = %+v, want owned at 50", a)
			}
		case "bob":
			if a.Available {
				t.Error("bob should be unavailable")
			}
		}
	}
}

func TestPurchaseUnknown(t *testing.T) {
	sh, _, ava := setupShop(t, fridayNoon)
	if _, err := sh.Purchase(ava.ID, "jetpack"); !errors.Is(err, ErrUnknownAccessory) {
		t.Errorf("err = %v, want ErrUnknownAccessory", err)
	}
	if _, err := sh.Purchase("missing", "curly"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
