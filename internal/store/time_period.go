package store

import (
	"fmt"

	"github.com/dukerupert/chorequest/internal/model"
)

type TimePeriodStore struct {
	db DBTX
}

func NewTimePeriodStore(db DBTX) *TimePeriodStore {
	return &TimePeriodStore{db: db}
}

const timePeriodCols = `id, family_id, display_name, start_time, end_time, sort_order`

// List returns the family's periods in display order.
func (s *TimePeriodStore) List(familyID string) ([]model.TimePeriod, error) {
	rows, err := s.db.Query(
		`SELECT `+timePeriodCols+` FROM time_periods WHERE family_id = ? ORDER BY sort_order ASC, id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list time periods: %w", err)
	}
	defer rows.Close()

	var periods []model.TimePeriod
	for rows.Next() {
		var p model.TimePeriod
		if err := rows.Scan(&p.ID, &p.FamilyID, &p.DisplayName, &p.StartTime, &p.EndTime, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("scan time period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// Upsert inserts the period or replaces its bounds and display name.
func (s *TimePeriodStore) Upsert(p model.TimePeriod) error {
	_, err := s.db.Exec(
		`INSERT INTO time_periods (`+timePeriodCols+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(family_id, id) DO UPDATE SET
		   display_name = excluded.display_name,
		   start_time = excluded.start_time,
		   end_time = excluded.end_time,
		   sort_order = excluded.sort_order`,
		p.ID, p.FamilyID, p.DisplayName, p.StartTime, p.EndTime, p.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("upsert time period %s: %w", p.ID, err)
	}
	return nil
}
