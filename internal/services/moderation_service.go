package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidAction         = errors.New("invalid action")
	ErrReportNotFound        = errors.New("report not found")
	ErrReportAlreadyResolved = errors.New("report already resolved")
	ErrInvalidContentType    = errors.New("invalid contentType: must be post or comment")
	ErrContentNotFound       = errors.New("reported content not found")
	ErrMissingContentID      = errors.New("contentId is required")
	ErrReasonTooLong         = errors.New("reason must be at most 500 characters")
)

const (
	previewLength   = 100
	maxReasonLength = 500
	noReasonGiven   = "No reason provided"
)

// resolutions maps a moderator action to the report's terminal status.
var resolutions = map[string]string{
	"approve": models.ReportApproved,
	"reject":  models.ReportRejected,
	"dismiss": models.ReportDismissed,
}

type ModerationService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

func NewModerationService(db *gorm.DB, audit *AuditService) *ModerationService {
	return &ModerationService{db: db, audit: audit, now: time.Now}
}

// CreateReport files a pending report against an existing post or comment.
func (s *ModerationService) CreateReport(ctx context.Context, reporterID string, req *dto.CreateReportRequest) (*models.Report, error) {
	contentID := strings.TrimSpace(req.ContentID)
	if contentID == "" {
		return nil, ErrMissingContentID
	}
	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return nil, ErrReasonTooLong
	}

	db := s.db.WithContext(ctx)
	var err error
	switch req.ContentType {
	case models.ContentTypePost:
		err = db.Select("id").First(&models.Post{}, "id = ?", contentID).Error
	case models.ContentTypeComment:
		_, err = s.FindComment(ctx, contentID)
	default:
		return nil, ErrInvalidContentType
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reported content: %w", err)
	}

	report := models.Report{
		ContentType: req.ContentType,
		ContentID:   contentID,
		ReportedBy:  reporterID,
		Reason:      reason,
		Status:      models.ReportPending,
		ReportedAt:  s.now().UTC(),
	}
	if err := db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

// FindComment resolves a comment by its global id through the primary-key
// index; the parent post comes from the row's PostID.
func (s *ModerationService) FindComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListReports returns reports with the given status, newest first, each
// with the reporter's display name and a preview of the reported content.
func (s *ModerationService) ListReports(ctx context.Context, status string, limit int) ([]dto.ReportResponse, error) {
	db := s.db.WithContext(ctx)

	var reports []models.Report
	if err := db.Where("status = ?", status).
		Order("reported_at DESC").
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	var reporterIDs, postIDs, commentIDs []string
	for _, r := range reports {
		reporterIDs = append(reporterIDs, r.ReportedBy)
		switch r.ContentType {
		case models.ContentTypePost:
			postIDs = append(postIDs, r.ContentID)
		case models.ContentTypeComment:
			commentIDs = append(commentIDs, r.ContentID)
		}
	}

	names, err := lookupDisplayNames(ctx, s.db, reporterIDs)
	if err != nil {
		return nil, err
	}

	posts := make(map[string]models.Post, len(postIDs))
	if len(postIDs) > 0 {
		var rows []models.Post
		if err := db.Where("id IN ?", uniqueStrings(postIDs)).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch reported posts: %w", err)
		}
		for _, p := range rows {
			posts[p.ID] = p
		}
	}

	comments := make(map[string]models.Comment, len(commentIDs))
	if len(commentIDs) > 0 {
		var rows []models.Comment
		if err := db.Where("id IN ?", uniqueStrings(commentIDs)).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch reported comments: %w", err)
		}
		for _, c := range rows {
			comments[c.ID] = c
		}
	}

	out := make([]dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		item := dto.ReportResponse{
			Report:       r,
			ReporterName: names.label(r.ReportedBy, "Anonymous", "Unknown"),
		}
		switch r.ContentType {
		case models.ContentTypePost:
			if p, ok := posts[r.ContentID]; ok {
				item.ContentData = &dto.ContentPreview{
					Content:   preview(p.Content),
					AuthorID:  p.AuthorID,
					CreatedAt: p.CreatedAt,
				}
			}
		case models.ContentTypeComment:
			if c, ok := comments[r.ContentID]; ok {
				item.ContentData = &dto.ContentPreview{
					Content:   preview(c.Content),
					AuthorID:  c.AuthorID,
					CreatedAt: c.CreatedAt,
					PostID:    c.PostID,
				}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ResolveReport moves a pending report to its terminal status. Approving
// also takes the reported content down. The status change, the content
// change and the audit entry commit together; a report that is no longer
// pending is rejected with ErrReportAlreadyResolved.
func (s *ModerationService) ResolveReport(ctx context.Context, reportID, adminID string, req *dto.ResolveReportRequest) (string, error) {
	status, ok := resolutions[req.Action]
	if !ok {
		return "", ErrInvalidAction
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = noReasonGiven
	}
	now := s.now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to load report: %w", err)
		}

		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.ReportPending).
			Updates(map[string]interface{}{
				"status":      status,
				"resolved_by": adminID,
				"resolved_at": now,
				"resolution":  reason,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update report: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrReportAlreadyResolved
		}

		if status == models.ReportApproved {
			if err := takeDown(tx, &report, adminID, now); err != nil {
				return err
			}
		}

		changes, err := json.Marshal(map[string]string{"status": status})
		if err != nil {
			return fmt.Errorf("failed to encode changes: %w", err)
		}
		return s.audit.Record(tx, &models.AdminAction{
			AdminID:    adminID,
			Action:     models.ActionReportResolved,
			ReportID:   &reportID,
			Resolution: req.Action,
			Changes:    datatypes.JSON(changes),
			Reason:     reason,
			Timestamp:  now,
		})
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// takeDown flags the reported content with moderator attribution. Comments
// additionally lose their text to the redaction marker.
func takeDown(tx *gorm.DB, report *models.Report, adminID string, now time.Time) error {
	updates := map[string]interface{}{
		"is_reported":  true,
		"moderated_by": adminID,
		"moderated_at": now,
	}

	var result *gorm.DB
	switch report.ContentType {
	case models.ContentTypePost:
		result = tx.Model(&models.Post{}).Where("id = ?", report.ContentID).Updates(updates)
	case models.ContentTypeComment:
		updates["content"] = models.RedactedContent
		result = tx.Model(&models.Comment{}).Where("id = ?", report.ContentID).Updates(updates)
	default:
		return ErrInvalidContentType
	}
	if result.Error != nil {
		return fmt.Errorf("failed to moderate content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

// preview keeps the first 100 characters and always marks the cut.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes) + "..."
}
