// Package ledger is the only code that moves point balances. A child's
// individual balance and the family pool are separate counters; the only
// operation that raises both is Award.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/store"
)

type Ledger struct {
	stores *store.Stores
	clock  clock.Clock
	logger *slog.Logger
}

func New(stores *store.Stores, clk clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{stores: stores, clock: clk, logger: logger}
}

// Award adds points to the child's balance, the child's lifetime total and
// the family pool. It runs on the caller's stores so it commits together
// with whatever else the caller staged.
func Award(tx *store.Stores, childID string, points int) error {
	if points < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, points)
	}
	child, err := tx.Children.GetByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("child %s: %w", childID, ErrNotFound)
	}
	family, err := tx.Families.GetByID(child.FamilyID)
	if err != nil {
		return err
	}
	if family == nil {
		return fmt.Errorf("family %s: %w", child.FamilyID, ErrNotFound)
	}

	if err := tx.Children.SetPoints(child.ID, child.IndividualPoints+points, child.TotalPointsEarned+points); err != nil {
		return err
	}
	return tx.Families.SetPoints(family.ID, family.Points+points)
}

// Spend deducts points from the child's individual balance only.
func Spend(tx *store.Stores, childID string, points int) (*model.Child, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, points)
	}
	child, err := tx.Children.GetByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, fmt.Errorf("child %s: %w", childID, ErrNotFound)
	}
	if child.IndividualPoints < points {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, child.IndividualPoints, points)
	}
	child.IndividualPoints -= points
	if err := tx.Children.SetPoints(child.ID, child.IndividualPoints, child.TotalPointsEarned); err != nil {
		return nil, err
	}
	return child, nil
}

func (l *Ledger) AwardToChildAndFamily(childID string, points int) error {
	err := l.stores.InTx(func(tx *store.Stores) error {
		return Award(tx, childID, points)
	})
	if err != nil {
		l.logFailure("award", err, "child_id", childID, "points", points)
		return err
	}
	l.logger.Info("points awarded", "child_id", childID, "points", points)
	return nil
}

// SpendFromChild deducts points from one child. Purchases go through the
// shop, which calls Spend inside its own unit of work.
func (l *Ledger) SpendFromChild(childID string, points int) (*model.Child, error) {
	var child *model.Child
	err := l.stores.InTx(func(tx *store.Stores) error {
		var err error
		child, err = Spend(tx, childID, points)
		return err
	})
	if err != nil {
		l.logFailure("spend", err, "child_id", childID, "points", points)
		return nil, err
	}
	return child, nil
}

// ClaimFamilyReward pays the reward's threshold out of the family pool.
func (l *Ledger) ClaimFamilyReward(rewardID string) (*model.FamilyReward, error) {
	var claimed *model.FamilyReward
	err := l.stores.InTx(func(tx *store.Stores) error {
		reward, err := tx.Rewards.GetByID(rewardID)
		if err != nil {
			return err
		}
		if reward == nil {
			return fmt.Errorf("reward %s: %w", rewardID, ErrNotFound)
		}
		if reward.Claimed {
			return ErrAlreadyClaimed
		}
		family, err := tx.Families.GetByID(reward.FamilyID)
		if err != nil {
			return err
		}
		if family == nil {
			return fmt.Errorf("family %s: %w", reward.FamilyID, ErrNotFound)
		}
		if family.Points < reward.PointThreshold {
			return fmt.Errorf("%w: pool %d, threshold %d", ErrInsufficientPoints, family.Points, reward.PointThreshold)
		}

		if err := tx.Families.SetPoints(family.ID, family.Points-reward.PointThreshold); err != nil {
			return err
		}
		now := l.clock.Now()
		if err := tx.Rewards.SetClaimed(reward.ID, true, &now); err != nil {
			return err
		}
		claimed, err = tx.Rewards.GetByID(reward.ID)
		return err
	})
	if err != nil {
		l.logFailure("claim reward", err, "reward_id", rewardID)
		return nil, err
	}
	l.logger.Info("family reward claimed", "reward_id", rewardID, "threshold", claimed.PointThreshold)
	return claimed, nil
}

// ResetFamilyReward makes a claimed reward earnable again. Points are not
// refunded.
func (l *Ledger) ResetFamilyReward(rewardID string) (*model.FamilyReward, error) {
	var reset *model.FamilyReward
	err := l.stores.InTx(func(tx *store.Stores) error {
		reward, err := tx.Rewards.GetByID(rewardID)
		if err != nil {
			return err
		}
		if reward == nil {
			return fmt.Errorf("reward %s: %w", rewardID, ErrNotFound)
		}
		if err := tx.Rewards.SetClaimed(reward.ID, false, nil); err != nil {
			return err
		}
		reset, err = tx.Rewards.GetByID(reward.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reset, nil
}

// NextReward reports progress toward the cheapest unclaimed reward, or nil
// when every reward is claimed.
func (l *Ledger) NextReward() (*model.RewardProgress, error) {
	family, err := l.stores.Families.Get()
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, fmt.Errorf("family: %w", ErrNotFound)
	}
	rewards, err := l.stores.Rewards.List()
	if err != nil {
		return nil, err
	}
	for i := range rewards {
		if rewards[i].Claimed {
			continue
		}
		return Progress(&rewards[i], family.Points), nil
	}
	return nil, nil
}

// Progress computes how far pool is toward reward's threshold.
func Progress(reward *model.FamilyReward, pool int) *model.RewardProgress {
	p := &model.RewardProgress{Reward: reward, FamilyPoints: pool}
	if reward.PointThreshold <= 0 {
		p.Percent = 100
		return p
	}
	p.Percent = min(100, pool*100/reward.PointThreshold)
	p.Remaining = max(0, reward.PointThreshold-pool)
	return p
}

func (l *Ledger) Rewards() ([]model.FamilyReward, error) {
	return l.stores.Rewards.List()
}

func (l *Ledger) CreateReward(description string, threshold int) (*model.FamilyReward, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold %d", ErrInvalidAmount, threshold)
	}
	family, err := l.stores.Families.Get()
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, fmt.Errorf("family: %w", ErrNotFound)
	}
	return l.stores.Rewards.Create(&model.FamilyReward{
		FamilyID:       family.ID,
		Description:    description,
		PointThreshold: threshold,
	})
}

func (l *Ledger) UpdateReward(id, description string, threshold int) (*model.FamilyReward, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold %d", ErrInvalidAmount, threshold)
	}
	reward, err := l.stores.Rewards.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, fmt.Errorf("reward %s: %w", id, ErrNotFound)
	}
	reward.Description = description
	reward.PointThreshold = threshold
	return l.stores.Rewards.Update(reward)
}

func (l *Ledger) DeleteReward(id string) error {
	return l.stores.Rewards.Delete(id)
}

func (l *Ledger) logFailure(op string, err error, args ...any) {
	if errors.Is(err, store.ErrInconsistent) {
		l.logger.Error(op+" left inconsistent state", append(args, "error", err)...)
		return
	}
	l.logger.Debug(op+" rejected", append(args, "error", err)...)
}
