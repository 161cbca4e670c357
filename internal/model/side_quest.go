package model

import "time"

type SideQuestStatus string

const (
	SideQuestActive              SideQuestStatus = "active"
	SideQuestPendingVerification SideQuestStatus = "pending_verification"
	SideQuestCompleted           SideQuestStatus = "completed"
)

type SideQuest struct {
	ID          string          `json:"id"`
	FamilyID    string          `json:"family_id"`
	ChildID     string          `json:"child_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon"`
	PointValue  int             `json:"point_value"`
	Status      SideQuestStatus `json:"status"`
	CompletedAt *time.Time      `json:"completed_at"`
	VerifiedAt  *time.Time      `json:"verified_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
