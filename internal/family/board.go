package family

import (
	"github.com/dukerupert/chorequest/internal/chore"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/schedule"
)

// Board is what a child sees: chores due now, everything due today and
// progress through the day.
type Board struct {
	Child        *model.Child      `json:"child"`
	Date         string            `json:"date"`
	ActivePeriod *model.TimePeriod `json:"active_period"`
	Current      []chore.Instance  `json:"current"`
	Today        []chore.Instance  `json:"today"`
	Done         int               `json:"done"`
	Total        int               `json:"total"`
}

func (s *Service) Board(childID string) (*Board, error) {
	child, err := s.Child(childID)
	if err != nil {
		return nil, err
	}
	snap, err := s.choreSnapshot()
	if err != nil {
		return nil, err
	}

	b := &Board{
		Child:        child,
		Date:         schedule.DateKey(s.clock.Now()),
		ActivePeriod: snap.Period,
		Current:      chore.CurrentChores(child.ID, snap),
		Today:        chore.AllTodayChores(child.ID, snap),
	}
	b.Done, b.Total = chore.Progress(b.Today)
	return b, nil
}

func (s *Service) choreSnapshot() (chore.Snapshot, error) {
	now := s.clock.Now()
	assignments, err := s.stores.Assignments.List()
	if err != nil {
		return chore.Snapshot{}, err
	}
	chores, err := s.stores.Chores.List()
	if err != nil {
		return chore.Snapshot{}, err
	}
	start, end := schedule.DayBounds(now)
	completions, err := s.stores.Completions.ListByDateRange(start, end)
	if err != nil {
		return chore.Snapshot{}, err
	}
	periods, err := s.TimePeriods()
	if err != nil {
		return chore.Snapshot{}, err
	}
	return chore.Snapshot{
		Assignments: assignments,
		Chores:      chores,
		Completions: completions,
		Day:         schedule.DayOfWeek(now),
		Period:      schedule.ActivePeriod(now, periods),
	}, nil
}

// Snapshot is the admin read model of the whole family.
type Snapshot struct {
	Family       *model.Family           `json:"family"`
	Children     []model.Child           `json:"children"`
	Chores       []model.Chore           `json:"chores"`
	Assignments  []model.ChoreAssignment `json:"assignments"`
	TimePeriods  []model.TimePeriod      `json:"time_periods"`
	ActivePeriod *model.TimePeriod       `json:"active_period"`
	Rewards      []model.FamilyReward    `json:"rewards"`
}

func (s *Service) Snapshot() (*Snapshot, error) {
	f, err := s.Family()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Family: f}
	if snap.Children, err = s.stores.Children.List(); err != nil {
		return nil, err
	}
	if snap.Chores, err = s.stores.Chores.List(); err != nil {
		return nil, err
	}
	if snap.Assignments, err = s.stores.Assignments.List(); err != nil {
		return nil, err
	}
	if snap.TimePeriods, err = s.stores.TimePeriods.List(f.ID); err != nil {
		return nil, err
	}
	if snap.Rewards, err = s.stores.Rewards.List(); err != nil {
		return nil, err
	}
	snap.ActivePeriod = schedule.ActivePeriod(s.clock.Now(), snap.TimePeriods)
	return snap, nil
}
