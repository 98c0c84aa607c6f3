package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newModerationService(t *testing.T) (*ModerationService, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewModerationService(db, NewAuditService(db)), db
}

func fileReport(t *testing.T, svc *ModerationService, reporter, contentType, contentID string) *models.Report {
	t.Helper()
	report, err := svc.CreateReport(context.Background(), reporter, &dto.CreateReportRequest{
		ContentType: contentType,
		ContentID:   contentID,
		Reason:      "spam",
	})
	require.NoError(t, err)
	return report
}

func TestCreateReport(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "hello", time.Now())

	report := fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, "reporter", report.ReportedBy)
	assert.False(t, report.ReportedAt.IsZero())

	_, err := svc.CreateReport(ctx, "reporter", &dto.CreateReportRequest{ContentType: "video", ContentID: post.ID})
	assert.ErrorIs(t, err, ErrInvalidContentType)

	_, err = svc.CreateReport(ctx, "reporter", &dto.CreateReportRequest{ContentType: models.ContentTypeComment, ContentID: "missing"})
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = svc.CreateReport(ctx, "reporter", &dto.CreateReportRequest{ContentType: models.ContentTypePost, ContentID: " "})
	assert.ErrorIs(t, err, ErrMissingContentID)

	_, err = svc.CreateReport(ctx, "reporter", &dto.CreateReportRequest{
		ContentType: models.ContentTypePost,
		ContentID:   post.ID,
		Reason:      strings.Repeat("x", 501),
	})
	assert.ErrorIs(t, err, ErrReasonTooLong)
}

func TestResolveReport_ApproveCommentRedactsContent(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "hello", time.Now())
	comment := seedComment(t, db, post.ID, "troll", "rude words", time.Now())
	report := fileReport(t, svc, "reporter", models.ContentTypeComment, comment.ID)

	status, err := svc.ResolveReport(ctx, report.ID, "admin1", &dto.ResolveReportRequest{Action: "approve", Reason: "abusive"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, status)

	var stored models.Comment
	require.NoError(t, db.First(&stored, "id = ?", comment.ID).Error)
	assert.Equal(t, models.RedactedContent, stored.Content)
	assert.True(t, stored.IsReported)
	require.NotNil(t, stored.ModeratedBy)
	assert.Equal(t, "admin1", *stored.ModeratedBy)
	assert.NotNil(t, stored.ModeratedAt)

	var resolved models.Report
	require.NoError(t, db.First(&resolved, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportApproved, resolved.Status)
	assert.Equal(t, "abusive", resolved.Resolution)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "admin1", *resolved.ResolvedBy)
}

func TestResolveReport_ApprovePostWritesOneAuditEntry(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "buy cheap pills", time.Now())
	report := fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)

	_, err := svc.ResolveReport(ctx, report.ID, "admin1", &dto.ResolveReportRequest{Action: "approve"})
	require.NoError(t, err)

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.True(t, stored.IsReported)
	assert.Equal(t, "buy cheap pills", stored.Content)

	var actions []models.AdminAction
	require.NoError(t, db.Find(&actions).Error)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionReportResolved, actions[0].Action)
	assert.Equal(t, "approve", actions[0].Resolution)
	assert.Equal(t, "No reason provided", actions[0].Reason)
	require.NotNil(t, actions[0].ReportID)
	assert.Equal(t, report.ID, *actions[0].ReportID)
	assert.JSONEq(t, `{"status":"approved"}`, string(actions[0].Changes))
}

func TestResolveReport_RejectLeavesContentUntouched(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "fine post", time.Now())
	report := fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)

	status, err := svc.ResolveReport(ctx, report.ID, "admin1", &dto.ResolveReportRequest{Action: "dismiss"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportDismissed, status)

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.False(t, stored.IsReported)
	assert.Nil(t, stored.ModeratedBy)
}

func TestResolveReport_InvalidActionChangesNothing(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "hello", time.Now())
	report := fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)

	_, err := svc.ResolveReport(ctx, report.ID, "admin1", &dto.ResolveReportRequest{Action: "delete"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	var stored models.Report
	require.NoError(t, db.First(&stored, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportPending, stored.Status)
	assert.Zero(t, countAdminActions(t, db))
}

func TestResolveReport_SecondResolutionConflicts(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "hello", time.Now())
	report := fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)

	_, err := svc.ResolveReport(ctx, report.ID, "admin1", &dto.ResolveReportRequest{Action: "reject"})
	require.NoError(t, err)
	_, err = svc.ResolveReport(ctx, report.ID, "admin2", &dto.ResolveReportRequest{Action: "approve"})
	assert.ErrorIs(t, err, ErrReportAlreadyResolved)

	var stored models.Report
	require.NoError(t, db.First(&stored, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportRejected, stored.Status)
	assert.Equal(t, int64(1), countAdminActions(t, db))
}

func TestResolveReport_UnknownReport(t *testing.T) {
	svc, _ := newModerationService(t)

	_, err := svc.ResolveReport(context.Background(), "missing", "admin1", &dto.ResolveReportRequest{Action: "approve"})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestResolveReport_ApproveMissingContentRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "hello", time.Now())
	report := fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)
	require.NoError(t, db.Delete(&models.Post{}, "id = ?", post.ID).Error)

	_, err := svc.ResolveReport(ctx, report.ID, "admin1", &dto.ResolveReportRequest{Action: "approve"})
	assert.ErrorIs(t, err, ErrContentNotFound)

	var stored models.Report
	require.NoError(t, db.First(&stored, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportPending, stored.Status)
	assert.Zero(t, countAdminActions(t, db))
}

func TestListReports_EnrichesAndFilters(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	now := time.Now().UTC()
	seedUser(t, db, "named", models.RoleStudent, "Ada", now)
	seedUser(t, db, "blank", models.RoleStudent, "", now)

	long := strings.Repeat("é", 150)
	post := seedPost(t, db, "author", long, now)
	comment := seedComment(t, db, post.ID, "commenter", "short", now)

	older := fileReport(t, svc, "named", models.ContentTypePost, post.ID)
	require.NoError(t, db.Model(older).Update("reported_at", now.Add(-time.Hour)).Error)
	newer := fileReport(t, svc, "blank", models.ContentTypeComment, comment.ID)
	ghost := fileReport(t, svc, "ghost", models.ContentTypePost, post.ID)
	_, err := svc.ResolveReport(ctx, ghost.ID, "admin1", &dto.ResolveReportRequest{Action: "dismiss"})
	require.NoError(t, err)

	reports, err := svc.ListReports(ctx, models.ReportPending, 20)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, newer.ID, reports[0].ID)
	assert.Equal(t, "Anonymous", reports[0].ReporterName)
	require.NotNil(t, reports[0].ContentData)
	assert.Equal(t, "short...", reports[0].ContentData.Content)
	assert.Equal(t, post.ID, reports[0].ContentData.PostID)

	assert.Equal(t, older.ID, reports[1].ID)
	assert.Equal(t, "Ada", reports[1].ReporterName)
	require.NotNil(t, reports[1].ContentData)
	assert.Equal(t, strings.Repeat("é", 100)+"...", reports[1].ContentData.Content)
	assert.Equal(t, "author", reports[1].ContentData.AuthorID)

	dismissed, err := svc.ListReports(ctx, models.ReportDismissed, 20)
	require.NoError(t, err)
	require.Len(t, dismissed, 1)
	assert.Equal(t, "Unknown", dismissed[0].ReporterName)
}

func TestListReports_MissingContentHasNoPreview(t *testing.T) {
	ctx := context.Background()
	svc, db := newModerationService(t)
	post := seedPost(t, db, "author", "hello", time.Now())
	fileReport(t, svc, "reporter", models.ContentTypePost, post.ID)
	require.NoError(t, db.Delete(&models.Post{}, "id = ?", post.ID).Error)

	reports, err := svc.ListReports(ctx, models.ReportPending, 20)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Nil(t, reports[0].ContentData)
}
