package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContentTypePost    = "post"
	ContentTypeComment = "comment"

	ReportPending   = "pending"
	ReportApproved  = "approved"
	ReportRejected  = "rejected"
	ReportDismissed = "dismissed"
)

// Report is a user complaint about a post or comment. It leaves the pending
// state exactly once.
type Report struct {
	ID          string     `gorm:"primaryKey;size:128" json:"id"`
	ContentType string     `gorm:"size:20;not null" json:"contentType"`
	ContentID   string     `gorm:"size:128;not null;index" json:"contentId"`
	ReportedBy  string     `gorm:"size:128;not null;index" json:"reportedBy"`
	Reason      string     `gorm:"size:500" json:"reason,omitempty"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ReportedAt  time.Time  `gorm:"not null;index" json:"reportedAt"`
	ResolvedBy  *string    `gorm:"size:128" json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	Resolution  string     `gorm:"size:1000" json:"resolution,omitempty"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	if r.ReportedAt.IsZero() {
		r.ReportedAt = time.Now().UTC()
	}
	return nil
}
