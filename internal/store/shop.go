package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorequest/internal/model"
)

// ShopStore persists the avatar store's schedule, per-item overrides and
// purchase history.
type ShopStore struct {
	db DBTX
}

func NewShopStore(db DBTX) *ShopStore {
	return &ShopStore{db: db}
}

// GetSchedule returns the family's store schedule, or nil when none is set.
func (s *ShopStore) GetSchedule(familyID string) (*model.StoreSchedule, error) {
	var sched model.StoreSchedule
	err := s.db.QueryRow(
		`SELECT family_id, days_of_week, start_time, end_time FROM store_schedules WHERE family_id = ?`,
		familyID,
	).Scan(&sched.FamilyID, &sched.DaysOfWeek, &sched.StartTime, &sched.EndTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store schedule: %w", err)
	}
	return &sched, nil
}

func (s *ShopStore) SetSchedule(sched model.StoreSchedule) error {
	_, err := s.db.Exec(
		`INSERT INTO store_schedules (family_id, days_of_week, start_time, end_time) VALUES (?, ?, ?, ?)
		 ON CONFLICT(family_id) DO UPDATE SET
		   days_of_week = excluded.days_of_week,
		   start_time = excluded.start_time,
		   end_time = excluded.end_time`,
		sched.FamilyID, sched.DaysOfWeek, sched.StartTime, sched.EndTime,
	)
	if err != nil {
		return fmt.Errorf("set store schedule: %w", err)
	}
	return nil
}

func (s *ShopStore) ClearSchedule(familyID string) error {
	_, err := s.db.Exec(`DELETE FROM store_schedules WHERE family_id = ?`, familyID)
	if err != nil {
		return fmt.Errorf("clear store schedule: %w", err)
	}
	return nil
}

// Settings returns admin overrides keyed by accessory id.
func (s *ShopStore) Settings(familyID string) (map[string]model.AccessorySetting, error) {
	rows, err := s.db.Query(
		`SELECT accessory_id, point_cost, available FROM accessory_settings WHERE family_id = ?`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list accessory settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]model.AccessorySetting)
	for rows.Next() {
		var st model.AccessorySetting
		var cost sql.NullInt64
		var available int
		if err := rows.Scan(&st.AccessoryID, &cost, &available); err != nil {
			return nil, fmt.Errorf("scan accessory setting: %w", err)
		}
		if cost.Valid {
			c := int(cost.Int64)
			st.PointCost = &c
		}
		st.Available = available == 1
		settings[st.AccessoryID] = st
	}
	return settings, rows.Err()
}

func (s *ShopStore) SaveSetting(familyID string, st model.AccessorySetting) error {
	_, err := s.db.Exec(
		`INSERT INTO accessory_settings (family_id, accessory_id, point_cost, available) VALUES (?, ?, ?, ?)
		 ON CONFLICT(family_id, accessory_id) DO UPDATE SET
		   point_cost = excluded.point_cost,
		   available = excluded.available`,
		familyID, st.AccessoryID, nullInt(st.PointCost), boolInt(st.Available),
	)
	if err != nil {
		return fmt.Errorf("save accessory setting: %w", err)
	}
	return nil
}

func (s *ShopStore) RecordPurchase(p *model.PurchasedAccessory) (*model.PurchasedAccessory, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO purchased_accessories (id, child_id, accessory_id, points_spent, purchased_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ChildID, p.AccessoryID, p.PointsSpent, p.PurchasedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}
	return p, nil
}

// Owned returns the set of accessory ids the child has bought.
func (s *ShopStore) Owned(childID string) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT DISTINCT accessory_id FROM purchased_accessories WHERE child_id = ?`, childID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	owned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		owned[id] = true
	}
	return owned, rows.Err()
}

func (s *ShopStore) ListPurchases(childID string) ([]model.PurchasedAccessory, error) {
	rows, err := s.db.Query(
		`SELECT id, child_id, accessory_id, points_spent, purchased_at FROM purchased_accessories WHERE child_id = ? ORDER BY purchased_at ASC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.PurchasedAccessory
	for rows.Next() {
		var p model.PurchasedAccessory
		if err := rows.Scan(&p.ID, &p.ChildID, &p.AccessoryID, &p.PointsSpent, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (s *ShopStore) DeletePurchasesByChild(childID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM purchased_accessories WHERE child_id = ?`, childID)
	if err != nil {
		return 0, fmt.Errorf("delete purchases by child: %w", err)
	}
	return res.RowsAffected()
}
