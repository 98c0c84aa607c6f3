package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserProgress is keyed by the owning user's id (1:1 with User).
type UserProgress struct {
	UserID         string                      `gorm:"primaryKey;size:128" json:"-"`
	Progress       float64                     `gorm:"not null" json:"progress"`
	Badges         datatypes.JSONSlice[string] `json:"badges"`
	RecentActivity datatypes.JSON              `json:"recentActivity"`
	UpdatedAt      time.Time                   `json:"-"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
