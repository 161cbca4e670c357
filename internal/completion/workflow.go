// Package completion runs a scheduled chore's completion through
// pending, then verified or adjusted. Rejection deletes the record.
package completion

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

type Workflow struct {
	stores *store.Stores
	clock  clock.Clock
	logger *slog.Logger
}

func New(stores *store.Stores, clk clock.Clock, logger *slog.Logger) *Workflow {
	return &Workflow{stores: stores, clock: clk, logger: logger}
}

// Pending is a pending completion joined with its child and chore.
type Pending struct {
	model.Completion
	Child model.Child `json:"child"`
	Chore model.Chore `json:"chore"`
}

// MarkComplete records that the assignment's chore was done today. Only one
// completion per assignment per local day is accepted.
func (w *Workflow) MarkComplete(assignmentID string) (*model.Completion, error) {
	now := w.clock.Now()
	var created *model.Completion

	err := w.stores.InTx(func(tx *store.Stores) error {
		a, err := tx.Assignments.GetByID(assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("assignment %s: %w", assignmentID, ErrNotFound)
		}
		chore, err := tx.Chores.GetByID(a.ChoreID)
		if err != nil {
			return err
		}
		if chore == nil {
			return fmt.Errorf("chore %s: %w", a.ChoreID, ErrNotFound)
		}
		child, err := tx.Children.GetByID(a.ChildID)
		if err != nil {
			return err
		}
		if child == nil {
			return fmt.Errorf("child %s: %w", a.ChildID, ErrNotFound)
		}

		start, end := schedule.DayBounds(now)
		existing, err := tx.Completions.ListForAssignmentInRange(a.ID, start, end)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrAlreadyPending
		}

		created, err = tx.Completions.Create(&model.Completion{
			FamilyID:     child.FamilyID,
			AssignmentID: a.ID,
			ChildID:      child.ID,
			ChoreID:      chore.ID,
			ChoreName:    chore.Name,
			ChoreIcon:    chore.Icon,
			ChorePoints:  chore.PointValue,
			Status:       model.CompletionPending,
			CompletedAt:  now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	w.logger.Info("chore marked complete", "completion_id", created.ID, "child_id", created.ChildID, "chore", created.ChoreName)
	return created, nil
}

// MarkIncomplete undoes a pending completion. Verified work cannot be
// unmarked.
func (w *Workflow) MarkIncomplete(completionID string) error {
	return w.deletePending(completionID, "chore unmarked")
}

// Reject discards a pending completion without awarding points.
func (w *Workflow) Reject(completionID string) error {
	return w.deletePending(completionID, "completion rejected")
}

func (w *Workflow) deletePending(completionID, msg string) error {
	err := w.stores.InTx(func(tx *store.Stores) error {
		c, err := tx.Completions.GetByID(completionID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("completion %s: %w", completionID, ErrNotFound)
		}
		if c.Status != model.CompletionPending {
			return fmt.Errorf("%w: completion is %s", ErrInvalidTransition, c.Status)
		}
		return tx.Completions.Delete(c.ID)
	})
	if err != nil {
		return err
	}
	w.logger.Info(msg, "completion_id", completionID)
	return nil
}

// Verify confirms a pending completion and awards points. A nil points
// awards the chore's value and marks the completion verified; any explicit
// value marks it adjusted.
func (w *Workflow) Verify(completionID string, points *int) (*model.Completion, error) {
	now := w.clock.Now()
	var verified *model.Completion

	err := w.stores.InTx(func(tx *store.Stores) error {
		c, err := tx.Completions.GetByID(completionID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("completion %s: %w", completionID, ErrNotFound)
		}
		if c.Status != model.CompletionPending {
			return fmt.Errorf("%w: completion is %s", ErrInvalidTransition, c.Status)
		}

		status := model.CompletionVerified
		award := c.ChorePoints
		if points != nil {
			status = model.CompletionAdjusted
			award = *points
		} else {
			chore, err := tx.Chores.GetByID(c.ChoreID)
			if err != nil {
				return err
			}
			if chore != nil {
				award = chore.PointValue
			}
		}
		if award < 0 {
			return fmt.Errorf("%w: %d", ledger.ErrInvalidAmount, award)
		}

		ok, err := tx.Completions.MarkVerified(c.ID, status, award, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		if err := ledger.Award(tx, c.ChildID, award); err != nil {
			return err
		}
		if err := w.advanceStreak(tx, c, now); err != nil {
			return err
		}

		verified, err = tx.Completions.GetByID(c.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrInconsistent) {
			w.logger.Error("verify left inconsistent state", "completion_id", completionID, "error", err)
		}
		return nil, err
	}
	w.logger.Info("completion verified",
		"completion_id", verified.ID,
		"child_id", verified.ChildID,
		"status", verified.Status,
		"points", *verified.PointsAwarded,
	)
	return verified, nil
}

// VerifyAll verifies every listed pending completion with default points,
// one at a time. It stops at the first failure; completions verified before
// it stay verified.
func (w *Workflow) VerifyAll() (int, error) {
	pending, err := w.ListPending()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range pending {
		if _, err := w.Verify(p.ID, nil); err != nil {
			return n, fmt.Errorf("verify %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}

// ListPending returns unarchived pending completions newest first. Rows
// whose child or chore no longer exists are left out.
func (w *Workflow) ListPending() ([]Pending, error) {
	completions, err := w.stores.Completions.ListPending()
	if err != nil {
		return nil, err
	}
	children, err := w.stores.Children.List()
	if err != nil {
		return nil, err
	}
	chores, err := w.stores.Chores.List()
	if err != nil {
		return nil, err
	}

	childByID := make(map[string]model.Child, len(children))
	for _, c := range children {
		childByID[c.ID] = c
	}
	choreByID := make(map[string]model.Chore, len(chores))
	for _, c := range chores {
		choreByID[c.ID] = c
	}

	out := make([]Pending, 0, len(completions))
	for _, c := range completions {
		child, ok := childByID[c.ChildID]
		if !ok {
			continue
		}
		chore, ok := choreByID[c.ChoreID]
		if !ok {
			continue
		}
		out = append(out, Pending{Completion: c, Child: child, Chore: chore})
	}
	return out, nil
}

// Today returns completions recorded during now's local day.
func (w *Workflow) Today() ([]model.Completion, error) {
	start, end := schedule.DayBounds(w.clock.Now())
	return w.stores.Completions.ListByDateRange(start, end)
}

func (w *Workflow) History(childID string) ([]model.Completion, error) {
	return w.stores.Completions.ListByChild(childID)
}
