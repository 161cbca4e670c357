// Package sidequest handles one-off tasks outside the chore schedule. A
// quest cycles between active and pending_verification until an admin
// verifies it, which awards its points and completes it.
package sidequest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/ledger"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/store"
)

type Workflow struct {
	stores *store.Stores
	clock  clock.Clock
	logger *slog.Logger
}

func New(stores *store.Stores, clk clock.Clock, logger *slog.Logger) *Workflow {
	return &Workflow{stores: stores, clock: clk, logger: logger}
}

// Input holds the editable fields of a quest.
type Input struct {
	ChildID     string `json:"child_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	PointValue  int    `json:"point_value"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.PointValue <= 0 {
		return fmt.Errorf("%w: point value must be positive", ErrValidation)
	}
	if in.ChildID == "" {
		return fmt.Errorf("%w: child is required", ErrValidation)
	}
	return nil
}

func (w *Workflow) Create(in Input) (*model.SideQuest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var created *model.SideQuest
	err := w.stores.InTx(func(tx *store.Stores) error {
		child, err := tx.Children.GetByID(in.ChildID)
		if err != nil {
			return err
		}
		if child == nil {
			return fmt.Errorf("child %s: %w", in.ChildID, ErrNotFound)
		}
		created, err = tx.SideQuests.Create(&model.SideQuest{
			FamilyID:    child.FamilyID,
			ChildID:     child.ID,
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Icon:        in.Icon,
			PointValue:  in.PointValue,
			Status:      model.SideQuestActive,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	w.logger.Info("side quest created", "quest_id", created.ID, "child_id", created.ChildID)
	return created, nil
}

// Update edits a quest in any status, including completed ones. Status and
// timestamps are untouched.
func (w *Workflow) Update(id string, in Input) (*model.SideQuest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *model.SideQuest
	err := w.stores.InTx(func(tx *store.Stores) error {
		q, err := tx.SideQuests.GetByID(id)
		if err != nil {
			return err
		}
		if q == nil {
			return fmt.Errorf("side quest %s: %w", id, ErrNotFound)
		}
		child, err := tx.Children.GetByID(in.ChildID)
		if err != nil {
			return err
		}
		if child == nil {
			return fmt.Errorf("child %s: %w", in.ChildID, ErrNotFound)
		}
		q.ChildID = child.ID
		q.Name = strings.TrimSpace(in.Name)
		q.Description = in.Description
		q.Icon = in.Icon
		q.PointValue = in.PointValue
		updated, err = tx.SideQuests.Update(q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (w *Workflow) Delete(id string) error {
	q, err := w.stores.SideQuests.GetByID(id)
	if err != nil {
		return err
	}
	if q == nil {
		return fmt.Errorf("side quest %s: %w", id, ErrNotFound)
	}
	return w.stores.SideQuests.Delete(id)
}

// MarkDone moves an active quest to pending_verification.
func (w *Workflow) MarkDone(id string) (*model.SideQuest, error) {
	now := w.clock.Now()
	return w.transition(id, model.SideQuestActive, model.SideQuestPendingVerification, func(q *model.SideQuest) error {
		q.CompletedAt = &now
		return nil
	})
}

// Undo lets the child take back a quest still waiting for verification.
func (w *Workflow) Undo(id string) (*model.SideQuest, error) {
	return w.transition(id, model.SideQuestPendingVerification, model.SideQuestActive, func(q *model.SideQuest) error {
		q.CompletedAt = nil
		return nil
	})
}

// Reject sends a pending quest back to active so it can be tried again.
func (w *Workflow) Reject(id string) (*model.SideQuest, error) {
	q, err := w.Undo(id)
	if err != nil {
		return nil, err
	}
	w.logger.Info("side quest rejected", "quest_id", id)
	return q, nil
}

// Verify completes a pending quest and awards its points.
func (w *Workflow) Verify(id string) (*model.SideQuest, error) {
	now := w.clock.Now()
	q, err := w.transitionTx(id, model.SideQuestPendingVerification, model.SideQuestCompleted, func(tx *store.Stores, q *model.SideQuest) error {
		q.VerifiedAt = &now
		return ledger.Award(tx, q.ChildID, q.PointValue)
	})
	if err != nil {
		return nil, err
	}
	w.logger.Info("side quest verified", "quest_id", q.ID, "child_id", q.ChildID, "points", q.PointValue)
	return q, nil
}

func (w *Workflow) transition(id string, from, to model.SideQuestStatus, apply func(q *model.SideQuest) error) (*model.SideQuest, error) {
	return w.transitionTx(id, from, to, func(_ *store.Stores, q *model.SideQuest) error {
		return apply(q)
	})
}

func (w *Workflow) transitionTx(id string, from, to model.SideQuestStatus, apply func(tx *store.Stores, q *model.SideQuest) error) (*model.SideQuest, error) {
	var out *model.SideQuest
	err := w.stores.InTx(func(tx *store.Stores) error {
		q, err := tx.SideQuests.GetByID(id)
		if err != nil {
			return err
		}
		if q == nil {
			return fmt.Errorf("side quest %s: %w", id, ErrNotFound)
		}
		if q.Status != from {
			return fmt.Errorf("%w: quest is %s, want %s", ErrInvalidTransition, q.Status, from)
		}
		if err := apply(tx, q); err != nil {
			return err
		}
		ok, err := tx.SideQuests.Transition(q.ID, from, to, q.CompletedAt, q.VerifiedAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		out, err = tx.SideQuests.GetByID(q.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *Workflow) List() ([]model.SideQuest, error) {
	return w.stores.SideQuests.List()
}

func (w *Workflow) ListByChild(childID string) ([]model.SideQuest, error) {
	return w.stores.SideQuests.ListByChild(childID)
}

// ListPending returns quests awaiting verification, oldest first.
func (w *Workflow) ListPending() ([]model.SideQuest, error) {
	return w.stores.SideQuests.ListByStatus(model.SideQuestPendingVerification)
}
