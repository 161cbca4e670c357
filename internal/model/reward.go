package model

import "time"

// FamilyReward is a shared goal paid for out of the family point pool.
type FamilyReward struct {
	ID             string     `json:"id"`
	FamilyID       string     `json:"family_id"`
	Description    string     `json:"description"`
	PointThreshold int        `json:"point_threshold"`
	Claimed        bool       `json:"claimed"`
	ClaimedAt      *time.Time `json:"claimed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

type RewardProgress struct {
	Reward       *FamilyReward `json:"reward"`
	FamilyPoints int           `json:"family_points"`
	Percent      int           `json:"percent"`
	Remaining    int           `json:"remaining"`
}
