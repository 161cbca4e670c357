package family

import (
	"fmt"
	"strings"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/schedule"
)

func (s *Service) TimePeriods() ([]model.TimePeriod, error) {
	f, err := s.Family()
	if err != nil {
		return nil, err
	}
	return s.stores.TimePeriods.List(f.ID)
}

// ActivePeriod returns the period containing the current time, or nil.
func (s *Service) ActivePeriod() (*model.TimePeriod, error) {
	periods, err := s.TimePeriods()
	if err != nil {
		return nil, err
	}
	return schedule.ActivePeriod(s.clock.Now(), periods), nil
}

type PeriodInput struct {
	DisplayName string `json:"display_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// UpdateTimePeriod changes one period's bounds. Overlaps and gaps between
// periods are allowed.
func (s *Service) UpdateTimePeriod(id model.TimePeriodID, in PeriodInput) (*model.TimePeriod, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("time period %q: %w", id, ErrNotFound)
	}
	if _, err := schedule.ParseClock(in.StartTime); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := schedule.ParseClock(in.EndTime); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	periods, err := s.TimePeriods()
	if err != nil {
		return nil, err
	}
	f, err := s.Family()
	if err != nil {
		return nil, err
	}

	p := model.TimePeriod{ID: id, FamilyID: f.ID, SortOrder: len(periods)}
	for _, existing := range periods {
		if existing.ID == id {
			p = existing
			break
		}
	}
	if name := strings.TrimSpace(in.DisplayName); name != "" {
		p.DisplayName = name
	}
	if p.DisplayName == "" {
		p.DisplayName = string(id)
	}
	p.StartTime = strings.TrimSpace(in.StartTime)
	p.EndTime = strings.TrimSpace(in.EndTime)

	if err := s.stores.TimePeriods.Upsert(p); err != nil {
		return nil, err
	}
	return &p, nil
}
