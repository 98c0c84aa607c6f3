package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// periods maps the accepted period names to their window in days. Anything
// else falls back to defaultPeriod.
var periods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

const defaultPeriod = "90d"

type AnalyticsService struct {
	db      *gorm.DB
	started time.Time
	now     func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, started: time.Now(), now: time.Now}
}

// NormalizePeriod returns the period name that will be used and its window
// in days.
func NormalizePeriod(period string) (string, int) {
	if days, ok := periods[period]; ok {
		return period, days
	}
	return defaultPeriod, periods[defaultPeriod]
}

// CommunityStats summarises posting activity inside the period window.
// Comments are counted on posts created in the window; a user who both
// posts and comments is one active user.
func (s *AnalyticsService) CommunityStats(ctx context.Context, period string) (*dto.CommunityStatsResponse, error) {
	period, days := NormalizePeriod(period)
	since := s.now().UTC().AddDate(0, 0, -days)

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	postsInWindow := func() *gorm.DB {
		return db.Model(&models.Post{}).Where("created_at >= ?", since)
	}
	commentsInWindow := func() *gorm.DB {
		return db.Model(&models.Comment{}).
			Where("created_at >= ?", since).
			Where("post_id IN (?)", postsInWindow().Select("id"))
	}

	var (
		totalUsers, totalPosts, totalComments int64
		postAuthors, commentAuthors           []string
	)
	g.Go(func() error {
		return db.Model(&models.User{}).Count(&totalUsers).Error
	})
	g.Go(func() error {
		return postsInWindow().Count(&totalPosts).Error
	})
	g.Go(func() error {
		return commentsInWindow().Count(&totalComments).Error
	})
	g.Go(func() error {
		return postsInWindow().Distinct().Pluck("author_id", &postAuthors).Error
	})
	g.Go(func() error {
		return commentsInWindow().Distinct().Pluck("author_id", &commentAuthors).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get community stats: %w", err)
	}

	active := make(map[string]struct{}, len(postAuthors)+len(commentAuthors))
	for _, id := range postAuthors {
		active[id] = struct{}{}
	}
	for _, id := range commentAuthors {
		active[id] = struct{}{}
	}

	return &dto.CommunityStatsResponse{
		Period:         period,
		TotalUsers:     totalUsers,
		ActiveUsers:    len(active),
		TotalPosts:     totalPosts,
		TotalComments:  totalComments,
		EngagementRate: EngagementRate(len(active), totalUsers),
	}, nil
}

// EngagementRate is active/total as a percentage with two decimals, or 0
// when there are no users.
func EngagementRate(active int, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(active)/float64(total)*100*100) / 100
}

type roleCount struct {
	Role  string
	Count int64
}

// SystemStats aggregates collection-wide counters. Sub-queries run
// concurrently; the first failure cancels the rest and is returned alone.
func (s *AnalyticsService) SystemStats(ctx context.Context) (*dto.SystemStatsResponse, error) {
	now := s.now().UTC()
	weekAgo := now.AddDate(0, 0, -7)

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	var (
		stats dto.SystemStatsResponse
		roles []roleCount
	)
	g.Go(func() error {
		return db.Model(&models.User{}).Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return db.Model(&models.Post{}).Count(&stats.TotalPosts).Error
	})
	g.Go(func() error {
		return db.Model(&models.Report{}).
			Where("status = ?", models.ReportPending).
			Count(&stats.PendingReports).Error
	})
	g.Go(func() error {
		return db.Model(&models.User{}).
			Select("COALESCE(role, '') AS role, COUNT(*) AS count").
			Group("role").
			Scan(&roles).Error
	})
	g.Go(func() error {
		return db.Model(&models.User{}).
			Where("joined_date >= ?", weekAgo).
			Count(&stats.RecentActivity.NewUsers).Error
	})
	g.Go(func() error {
		return db.Model(&models.Post{}).
			Where("created_at >= ?", weekAgo).
			Count(&stats.RecentActivity.NewPosts).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get system stats: %w", err)
	}

	stats.RoleDistribution = make(map[string]int64, len(roles))
	for _, rc := range roles {
		role := (&models.User{Role: rc.Role}).EffectiveRole()
		stats.RoleDistribution[role] += rc.Count
	}
	stats.SystemHealth = dto.SystemHealth{
		Status:    "healthy",
		Uptime:    time.Since(s.started).Seconds(),
		Timestamp: now.Format(time.RFC3339),
	}
	return &stats, nil
}
