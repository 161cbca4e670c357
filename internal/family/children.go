package family

import (
	"fmt"
	"strings"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/store"
)

func (s *Service) Children() ([]model.Child, error) {
	return s.stores.Children.List()
}

func (s *Service) Child(id string) (*model.Child, error) {
	c, err := s.stores.Children.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("child %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *Service) CreateChild(in ChildInput) (*model.Child, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	f, err := s.Family()
	if err != nil {
		return nil, err
	}
	return s.stores.Children.Create(newChild(f.ID, in))
}

// UpdateChild renames the child and replaces its
// avatar configuration when one is given.
func (s *Service) UpdateChild(id string, in ChildInput) (*model.Child, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	var updated *model.Child
	err := s.stores.InTx(func(tx *store.Stores) error {
		c, err := tx.Children.GetByID(id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("child %s: %w", id, ErrNotFound)
		}
		if in.AvatarConfig != nil {
			if err := tx.Children.SetAvatarConfig(id, in.AvatarConfig); err != nil {
				return err
			}
		}
		updated, err = tx.Children.Rename(id, strings.TrimSpace(in.Name))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteChildCascade removes the child together with its assignments,
// completions, side quests and purchases.
func (s *Service) DeleteChildCascade(id string) error {
	err := s.stores.InTx(func(tx *store.Stores) error {
		c, err := tx.Children.GetByID(id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("child %s: %w", id, ErrNotFound)
		}
		if _, err := tx.Assignments.DeleteByChild(id); err != nil {
			return err
		}
		if _, err := tx.Completions.DeleteByChild(id); err != nil {
			return err
		}
		if _, err := tx.SideQuests.DeleteByChild(id); err != nil {
			return err
		}
		if _, err := tx.Shop.DeletePurchasesByChild(id); err != nil {
			return err
		}
		return tx.Children.Delete(id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("child deleted", "child_id", id)
	return nil
}
