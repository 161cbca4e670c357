package family

import (
	"fmt"
	"strings"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/store"
)

type ChoreInput struct {
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	PointValue int    `json:"point_value"`
}

func (in ChoreInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.PointValue <= 0 {
		return fmt.Errorf("%w: point value must be positive", ErrValidation)
	}
	return nil
}

func (s *Service) Chores() ([]model.Chore, error) {
	return s.stores.Chores.List()
}

func (s *Service) CreateChore(in ChoreInput) (*model.Chore, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	f, err := s.Family()
	if err != nil {
		return nil, err
	}
	return s.stores.Chores.Create(&model.Chore{
		FamilyID:   f.ID,
		Name:       strings.TrimSpace(in.Name),
		Icon:       in.Icon,
		PointValue: in.PointValue,
	})
}

func (s *Service) UpdateChore(id string, in ChoreInput) (*model.Chore, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.stores.Chores.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("chore %s: %w", id, ErrNotFound)
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Icon = in.Icon
	c.PointValue = in.PointValue
	return s.stores.Chores.Update(c)
}

// DeleteChoreCascade removes the chore and its assignments. Completions
// keep their copied chore details.
func (s *Service) DeleteChoreCascade(id string) error {
	err := s.stores.InTx(func(tx *store.Stores) error {
		c, err := tx.Chores.GetByID(id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("chore %s: %w", id, ErrNotFound)
		}
		if _, err := tx.Assignments.DeleteByChore(id); err != nil {
			return err
		}
		return tx.Chores.Delete(id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("chore deleted", "chore_id", id)
	return nil
}

type AssignmentInput struct {
	ChoreID     string          `json:"chore_id"`
	ChildID     string          `json:"child_id"`
	DaysOfWeek  model.Weekdays  `json:"days_of_week"`
	TimePeriods model.PeriodIDs `json:"time_periods"`
}

func (in AssignmentInput) validate() error {
	for _, d := range in.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: invalid day %d", ErrValidation, d)
		}
	}
	for _, p := range in.TimePeriods {
		if !p.Valid() {
			return fmt.Errorf("%w: invalid time period %q", ErrValidation, p)
		}
	}
	return nil
}

func (s *Service) Assignments() ([]model.ChoreAssignment, error) {
	return s.stores.Assignments.List()
}

func (s *Service) CreateAssignment(in AssignmentInput) (*model.ChoreAssignment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var created *model.ChoreAssignment
	err := s.stores.InTx(func(tx *store.Stores) error {
		if err := checkRefs(tx, in); err != nil {
			return err
		}
		f, err := tx.Families.Get()
		if err != nil {
			return err
		}
		if f == nil {
			return ErrNotInitialized
		}
		created, err = tx.Assignments.Create(&model.ChoreAssignment{
			FamilyID:    f.ID,
			ChoreID:     in.ChoreID,
			ChildID:     in.ChildID,
			DaysOfWeek:  in.DaysOfWeek,
			TimePeriods: in.TimePeriods,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdateAssignment(id string, in AssignmentInput) (*model.ChoreAssignment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *model.ChoreAssignment
	err := s.stores.InTx(func(tx *store.Stores) error {
		a, err := tx.Assignments.GetByID(id)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
		}
		if err := checkRefs(tx, in); err != nil {
			return err
		}
		a.ChoreID = in.ChoreID
		a.ChildID = in.ChildID
		a.DaysOfWeek = in.DaysOfWeek
		a.TimePeriods = in.TimePeriods
		updated, err = tx.Assignments.Update(a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteAssignment(id string) error {
	return s.stores.Assignments.Delete(id)
}

func checkRefs(tx *store.Stores, in AssignmentInput) error {
	chore, err := tx.Chores.GetByID(in.ChoreID)
	if err != nil {
		return err
	}
	if chore == nil {
		return fmt.Errorf("chore %s: %w", in.ChoreID, ErrNotFound)
	}
	child, err := tx.Children.GetByID(in.ChildID)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("child %s: %w", in.ChildID, ErrNotFound)
	}
	return nil
}
