// Package shop sells avatar accessories for a child's individual points.
// Purchases are gated by the family's store schedule; owned items can be
// re-applied at any time for free.
package shop

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/ledger"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/schedule"
	"github.com/dukerupert/chorequest/internal/store"
)

type Shop struct {
	stores  *store.Stores
	catalog *Catalog
	clock   clock.Clock
	logger  *slog.Logger
}

func New(stores *store.Stores, catalog *Catalog, clk clock.Clock, logger *slog.Logger) *Shop {
	return &Shop{stores: stores, catalog: catalog, clock: clk, logger: logger}
}

// Result is the outcome of a purchase or selection.
type Result struct {
	Child     *model.Child    `json:"child"`
	Accessory model.Accessory `json:"accessory"`
	Charged   int             `json:"charged"`
}

// ApplyAccessory returns cfg with the accessory's property set to its
// value, replacing any earlier choice for that property.
func ApplyAccessory(cfg model.AvatarConfig, a model.Accessory) model.AvatarConfig {
	return cfg.With(a.AvatarProperty, a.AvatarValue)
}

// IsOpen reports whether purchases are accepted right now.
func (s *Shop) IsOpen() (bool, error) {
	sched, err := s.Schedule()
	if err != nil {
		return false, err
	}
	return schedule.StoreOpen(s.clock.Now(), sched), nil
}

// Accessories lists the catalog with the family's price and availability
// overrides applied. When childID is set, owned items are flagged.
func (s *Shop) Accessories(childID string) ([]model.Accessory, error) {
	family, err := s.family()
	if err != nil {
		return nil, err
	}
	settings, err := s.stores.Shop.Settings(family.ID)
	if err != nil {
		return nil, err
	}
	owned := map[string]bool{}
	if childID != "" {
		if owned, err = s.stores.Shop.Owned(childID); err != nil {
			return nil, err
		}
	}

	items := s.catalog.All()
	for i := range items {
		applySetting(&items[i], settings)
		items[i].Owned = owned[items[i].ID]
	}
	return items, nil
}

// Purchase charges the child for the accessory and puts it on the avatar.
// An accessory the child already owns is re-applied without charge, even
// while the store is closed.
func (s *Shop) Purchase(childID, accessoryID string) (*Result, error) {
	now := s.clock.Now()
	var res *Result

	err := s.stores.InTx(func(tx *store.Stores) error {
		child, acc, err := s.load(tx, childID, accessoryID)
		if err != nil {
			return err
		}
		owned, err := tx.Shop.Owned(child.ID)
		if err != nil {
			return err
		}
		if owned[acc.ID] {
			res, err = s.apply(tx, child, acc, 0)
			return err
		}

		if !acc.Available {
			return fmt.Errorf("%w: %s", ErrUnavailable, acc.ID)
		}
		sched, err := tx.Shop.GetSchedule(child.FamilyID)
		if err != nil {
			return err
		}
		if !schedule.StoreOpen(now, sched) {
			return ErrStoreClosed
		}

		if _, err := ledger.Spend(tx, child.ID, acc.PointCost); err != nil {
			if errors.Is(err, ledger.ErrInsufficientPoints) {
				return fmt.Errorf("%w: %s costs %d, balance %d", ErrInsufficientPoints, acc.ID, acc.PointCost, child.IndividualPoints)
			}
			return err
		}
		if _, err := tx.Shop.RecordPurchase(&model.PurchasedAccessory{
			ChildID:     child.ID,
			AccessoryID: acc.ID,
			PointsSpent: acc.PointCost,
			PurchasedAt: now,
		}); err != nil {
			return err
		}
		acc.Owned = true
		res, err = s.apply(tx, child, acc, acc.PointCost)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrInconsistent) {
			s.logger.Error("purchase left inconsistent state", "child_id", childID, "accessory_id", accessoryID, "error", err)
		}
		return nil, err
	}
	if res.Charged > 0 {
		s.logger.Info("accessory purchased", "child_id", childID, "accessory_id", accessoryID, "points", res.Charged)
	}
	return res, nil
}

// Select puts an owned accessory back on the avatar at no cost.
func (s *Shop) Select(childID, accessoryID string) (*Result, error) {
	var res *Result
	err := s.stores.InTx(func(tx *store.Stores) error {
		child, acc, err := s.load(tx, childID, accessoryID)
		if err != nil {
			return err
		}
		owned, err := tx.Shop.Owned(child.ID)
		if err != nil {
			return err
		}
		if !owned[acc.ID] {
			return fmt.Errorf("%w: %s", ErrNotOwned, acc.ID)
		}
		res, err = s.apply(tx, child, acc, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Shop) Purchases(childID string) ([]model.PurchasedAccessory, error) {
	return s.stores.Shop.ListPurchases(childID)
}

func (s *Shop) apply(tx *store.Stores, child *model.Child, acc model.Accessory, charged int) (*Result, error) {
	acc.Owned = true
	cfg := ApplyAccessory(child.AvatarConfig, acc)
	if err := tx.Children.SetAvatarConfig(child.ID, cfg); err != nil {
		return nil, err
	}
	updated, err := tx.Children.GetByID(child.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Child: updated, Accessory: acc, Charged: charged}, nil
}

func (s *Shop) load(tx *store.Stores, childID, accessoryID string) (*model.Child, model.Accessory, error) {
	child, err := tx.Children.GetByID(childID)
	if err != nil {
		return nil, model.Accessory{}, err
	}
	if child == nil {
		return nil, model.Accessory{}, fmt.Errorf("child %s: %w", childID, ErrNotFound)
	}
	acc, ok := s.catalog.Get(accessoryID)
	if !ok {
		return nil, model.Accessory{}, fmt.Errorf("%w: %s", ErrUnknownAccessory, accessoryID)
	}
	settings, err := tx.Shop.Settings(child.FamilyID)
	if err != nil {
		return nil, model.Accessory{}, err
	}
	applySetting(&acc, settings)
	return child, acc, nil
}

func applySetting(acc *model.Accessory, settings map[string]model.AccessorySetting) {
	st, ok := settings[acc.ID]
	if !ok {
		return
	}
	acc.Available = st.Available
	if st.PointCost != nil {
		acc.PointCost = *st.PointCost
	}
}

// SetAccessorySetting overrides an accessory's price or availability. A
// nil cost restores the catalog price.
func (s *Shop) SetAccessorySetting(st model.AccessorySetting) error {
	if _, ok := s.catalog.Get(st.AccessoryID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccessory, st.AccessoryID)
	}
	if st.PointCost != nil && *st.PointCost < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	family, err := s.family()
	if err != nil {
		return err
	}
	return s.stores.Shop.SaveSetting(family.ID, st)
}

// Schedule returns the store schedule, or nil when the store is always
// open.
func (s *Shop) Schedule() (*model.StoreSchedule, error) {
	family, err := s.family()
	if err != nil {
		return nil, err
	}
	return s.stores.Shop.GetSchedule(family.ID)
}

func (s *Shop) SetSchedule(days model.Weekdays, start, end string) (*model.StoreSchedule, error) {
	if _, err := schedule.ParseClock(start); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := schedule.ParseClock(end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: invalid day %d", ErrValidation, d)
		}
	}
	family, err := s.family()
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = model.Weekdays{}
	}
	sched := model.StoreSchedule{FamilyID: family.ID, DaysOfWeek: days, StartTime: start, EndTime: end}
	if err := s.stores.Shop.SetSchedule(sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Shop) ClearSchedule() error {
	family, err := s.family()
	if err != nil {
		return err
	}
	return s.stores.Shop.ClearSchedule(family.ID)
}

func (s *Shop) family() (*model.Family, error) {
	f, err := s.stores.Families.Get()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("family: %w", ErrNotFound)
	}
	return f, nil
}
