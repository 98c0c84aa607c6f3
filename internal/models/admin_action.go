package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionUserUpdate     = "user_update"
	ActionReportResolved = "report_resolved"
)

// AdminAction is an append-only audit record of an administrative mutation.
type AdminAction struct {
	ID           string         `gorm:"primaryKey;size:128" json:"id"`
	AdminID      string         `gorm:"size:128;not null;index" json:"adminId"`
	Action       string         `gorm:"size:50;not null" json:"action"`
	TargetUserID *string        `gorm:"size:128;index" json:"targetUserId,omitempty"`
	ReportID     *string        `gorm:"size:128;index" json:"reportId,omitempty"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
	Resolution   string         `gorm:"size:20" json:"resolution,omitempty"`
	Reason       string         `gorm:"size:1000" json:"reason"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

func (a *AdminAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate and BeforeDelete keep the audit trail append-only.
func (a *AdminAction) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditImmutable
}

func (a *AdminAction) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditImmutable
}
