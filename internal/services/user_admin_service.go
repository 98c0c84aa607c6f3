package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNoValidUpdates = errors.New("no valid updates provided")
	ErrInvalidRole    = errors.New("invalid role: must be student, moderator, or admin")
	ErrUserNotFound   = errors.New("user not found")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var emailPattern = regexp.MustCompile(`(.{2}).*(@.*)`)

type UserAdminService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

func NewUserAdminService(db *gorm.DB, audit *AuditService) *UserAdminService {
	return &UserAdminService{db: db, audit: audit, now: time.Now}
}

// ListUsers returns one page of users, newest first. The pagination total
// counts the same filtered set the page is drawn from.
func (s *UserAdminService) ListUsers(ctx context.Context, q dto.ListUsersQuery) (*dto.ListUsersResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	filter := func(db *gorm.DB) *gorm.DB {
		if q.Role != "" {
			db = db.Where("role = ?", q.Role)
		}
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		return db
	}

	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Scopes(filter).
		Order("joined_date DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, dto.UserSummary{
			ID:           u.ID,
			Role:         u.Role,
			Status:       u.Status,
			DisplayName:  u.DisplayName,
			Email:        RedactEmail(u.Email),
			JoinedDate:   u.JoinedDate,
			LastModified: u.LastModified,
			ModifiedBy:   u.ModifiedBy,
		})
	}

	limit := int64(q.Limit)
	return &dto.ListUsersResponse{
		Users: summaries,
		Pagination: dto.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// RedactEmail keeps the first two characters and the domain:
// "jane@example.com" becomes "ja***@example.com". Addresses the pattern
// does not fit are returned unchanged; an empty address yields nil.
func RedactEmail(email string) *string {
	if email == "" {
		return nil
	}
	redacted := emailPattern.ReplaceAllString(email, "${1}***${2}")
	return &redacted
}

// UpdateUser changes a user's role and/or status on behalf of adminID and
// records the change in the audit trail within the same transaction.
func (s *UserAdminService) UpdateUser(ctx context.Context, userID, adminID string, req *dto.UpdateUserRequest) error {
	changes := map[string]string{}
	if role := strings.TrimSpace(req.Role); role != "" {
		if !models.ValidRole(role) {
			return ErrInvalidRole
		}
		changes["role"] = role
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		changes["status"] = status
	}
	if len(changes) == 0 {
		return ErrNoValidUpdates
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = noReasonGiven
	}
	now := s.now().UTC()

	encoded, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		if err := s.audit.Record(tx, &models.AdminAction{
			AdminID:      adminID,
			Action:       models.ActionUserUpdate,
			TargetUserID: &userID,
			Changes:      datatypes.JSON(encoded),
			Reason:       reason,
			Timestamp:    now,
		}); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"last_modified": now,
			"modified_by":   adminID,
		}
		for k, v := range changes {
			updates[k] = v
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
}
