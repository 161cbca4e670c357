package model

import "time"

// Family is the single household account and root of all other records.
type Family struct {
	ID                string    `json:"id"`
	Points            int       `json:"points"`
	StreakBonusPoints int       `json:"streak_bonus_points"`
	AdminPINHash      string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Child struct {
	ID                string       `json:"id"`
	FamilyID          string       `json:"family_id"`
	Name              string       `json:"name"`
	AvatarConfig      AvatarConfig `json:"avatar_config"`
	IndividualPoints  int          `json:"individual_points"`
	TotalPointsEarned int          `json:"total_points_earned"`
	CurrentStreak     int          `json:"current_streak"`
	LastStreakDate    string       `json:"last_streak_date,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
