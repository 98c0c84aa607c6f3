package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"gorm.io/gorm"
)

// AuditService appends and reads the admin action trail. Entries are never
// updated or deleted.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends entry using tx, so it commits or rolls back together with
// the mutation it describes.
func (s *AuditService) Record(tx *gorm.DB, entry *models.AdminAction) error {
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record admin action: %w", err)
	}
	return nil
}

// ListLogs returns the newest entries first, each labelled with the acting
// admin's display name.
func (s *AuditService) ListLogs(ctx context.Context, limit int) ([]dto.AdminLogResponse, error) {
	var actions []models.AdminAction
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch admin actions: %w", err)
	}

	adminIDs := make([]string, 0, len(actions))
	for _, a := range actions {
		adminIDs = append(adminIDs, a.AdminID)
	}
	names, err := lookupDisplayNames(ctx, s.db, adminIDs)
	if err != nil {
		return nil, err
	}

	logs := make([]dto.AdminLogResponse, 0, len(actions))
	for _, a := range actions {
		logs = append(logs, dto.AdminLogResponse{
			AdminAction: a,
			AdminName:   names.label(a.AdminID, "Unknown Admin", "Unknown"),
		})
	}
	return logs, nil
}

// displayNames maps user id to display name for the users that exist.
type displayNames map[string]string

// label returns the display name, blank when the user has none, or missing
// when the user does not exist.
func (n displayNames) label(id, blank, missing string) string {
	name, ok := n[id]
	if !ok {
		return missing
	}
	if name == "" {
		return blank
	}
	return name
}

func lookupDisplayNames(ctx context.Context, db *gorm.DB, ids []string) (displayNames, error) {
	names := make(displayNames, len(ids))
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return names, nil
	}

	var users []models.User
	if err := db.WithContext(ctx).
		Select("id", "display_name").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	for _, u := range users {
		names[u.ID] = u.DisplayName
	}
	return names, nil
}
