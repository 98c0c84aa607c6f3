package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidActivity = errors.New("recentActivity must be an array")

type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db, now: time.Now}
}

// GetProgress returns the user's stored progress, or zero values when the
// user has never written any.
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*dto.ProgressResponse, error) {
	var row models.UserProgress
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.ProgressResponse{
			Progress:       0,
			Badges:         []string{},
			RecentActivity: json.RawMessage("[]"),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	resp := &dto.ProgressResponse{
		Progress:       row.Progress,
		Badges:         []string(row.Badges),
		RecentActivity: json.RawMessage(row.RecentActivity),
	}
	if resp.Badges == nil {
		resp.Badges = []string{}
	}
	if len(resp.RecentActivity) == 0 || string(resp.RecentActivity) == "null" {
		resp.RecentActivity = json.RawMessage("[]")
	}
	return resp, nil
}

// SetProgress merges the supplied fields into the user's progress document,
// creating it on first write. Omitted fields keep their stored values.
func (s *ProgressService) SetProgress(ctx context.Context, userID string, req *dto.SetProgressRequest) error {
	row := models.UserProgress{
		UserID:         userID,
		Badges:         datatypes.JSONSlice[string]{},
		RecentActivity: datatypes.JSON("[]"),
		UpdatedAt:      s.now().UTC(),
	}
	columns := []string{"updated_at"}

	if req.Progress != nil {
		row.Progress = *req.Progress
		columns = append(columns, "progress")
	}
	if req.Badges != nil {
		row.Badges = datatypes.JSONSlice[string](uniqueStrings(*req.Badges))
		columns = append(columns, "badges")
	}
	if req.RecentActivity != nil {
		var items []json.RawMessage
		if err := json.Unmarshal(*req.RecentActivity, &items); err != nil {
			return ErrInvalidActivity
		}
		if items == nil {
			items = []json.RawMessage{}
		}
		encoded, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to encode recent activity: %w", err)
		}
		row.RecentActivity = datatypes.JSON(encoded)
		columns = append(columns, "recent_activity")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// uniqueStrings drops repeated badges, keeping first occurrences in order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
