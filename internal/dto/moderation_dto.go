package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

type CreateReportRequest struct {
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId"`
	Reason      string `json:"reason"`
}

type ResolveReportRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// ContentPreview is a truncated view of the reported post or comment.
type ContentPreview struct {
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	PostID    string    `json:"postId,omitempty"`
}

type ReportResponse struct {
	models.Report
	ReporterName string          `json:"reporterName"`
	ContentData  *ContentPreview `json:"contentData"`
}

type AdminLogResponse struct {
	models.AdminAction
	AdminName string `json:"adminName"`
}
