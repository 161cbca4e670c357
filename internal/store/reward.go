package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

type RewardStore struct {
	db DBTX
}

func NewRewardStore(db DBTX) *RewardStore {
	return &RewardStore{db: db}
}

func scanReward(sc scanner) (*model.FamilyReward, error) {
	var r model.FamilyReward
	var claimed int
	var claimedAt sql.NullTime
	err := sc.Scan(&r.ID, &r.FamilyID, &r.Description, &r.PointThreshold, &claimed, &claimedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Claimed = claimed == 1
	r.ClaimedAt = timePtr(claimedAt)
	return &r, nil
}

const rewardCols = `id, family_id, description, point_threshold, claimed, claimed_at, created_at`

func (s *RewardStore) Create(r *model.FamilyReward) (*model.FamilyReward, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO family_rewards (id, family_id, description, point_threshold) VALUES (?, ?, ?, ?)`,
		r.ID, r.FamilyID, r.Description, r.PointThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	return s.GetByID(r.ID)
}

func (s *RewardStore) GetByID(id string) (*model.FamilyReward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM family_rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// List returns rewards ordered by threshold, cheapest first.
func (s *RewardStore) List() ([]model.FamilyReward, error) {
	rows, err := s.db.Query(`SELECT ` + rewardCols + ` FROM family_rewards ORDER BY point_threshold ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.FamilyReward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Update(r *model.FamilyReward) (*model.FamilyReward, error) {
	_, err := s.db.Exec(
		`UPDATE family_rewards SET description = ?, point_threshold = ? WHERE id = ?`,
		r.Description, r.PointThreshold, r.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetByID(r.ID)
}

// SetClaimed flips the claimed flag. A nil at clears claimed_at.
func (s *RewardStore) SetClaimed(id string, claimed bool, at *time.Time) error {
	_, err := s.db.Exec(
		`UPDATE family_rewards SET claimed = ?, claimed_at = ? WHERE id = ?`,
		boolInt(claimed), nullTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("set reward claimed: %w", err)
	}
	return nil
}

func (s *RewardStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM family_rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}
