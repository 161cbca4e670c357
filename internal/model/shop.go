package model

import "time"

type AccessoryCategory string

const (
	CategoryHair        AccessoryCategory = "hair"
	CategoryEyewear     AccessoryCategory = "eyewear"
	CategoryClothing    AccessoryCategory = "clothing"
	CategoryAccessories AccessoryCategory = "accessories"
	CategoryFootwear    AccessoryCategory = "footwear"
)

// Accessory is a cosmetic item a child can buy. Buying it sets
// AvatarProperty to AvatarValue in the child's avatar config.
type Accessory struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Category       AccessoryCategory `json:"category" yaml:"category"`
	AvatarProperty string            `json:"avatar_property" yaml:"property"`
	AvatarValue    string            `json:"avatar_value" yaml:"value"`
	PointCost      int               `json:"point_cost" yaml:"cost"`
	Available      bool              `json:"available" yaml:"-"`
	Owned          bool              `json:"owned,omitempty" yaml:"-"`
}

// AccessorySetting is an admin override of an accessory's price or
// availability for the family.
type AccessorySetting struct {
	AccessoryID string `json:"accessory_id"`
	PointCost   *int   `json:"point_cost"`
	Available   bool   `json:"available"`
}

// StoreSchedule controls when the avatar store accepts purchases. Unlike
// TimePeriod, EndTime is inclusive.
type StoreSchedule struct {
	FamilyID   string   `json:"family_id"`
	DaysOfWeek Weekdays `json:"days_of_week"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
}

type PurchasedAccessory struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"child_id"`
	AccessoryID string    `json:"accessory_id"`
	PointsSpent int       `json:"points_spent"`
	PurchasedAt time.Time `json:"purchased_at"`
}
