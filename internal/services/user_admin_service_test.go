package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserAdminService(t *testing.T) (*UserAdminService, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewUserAdminService(db, NewAuditService(db)), db
}

func TestListUsers_SecondPage(t *testing.T) {
	svc, db := newUserAdminService(t)
	base := time.Now().UTC().Add(-48 * time.Hour)
	for i := 0; i < 25; i++ {
		seedUser(t, db, fmt.Sprintf("user-%02d", i), models.RoleStudent, "", base.Add(time.Duration(i)*time.Minute))
	}

	resp, err := svc.ListUsers(context.Background(), dto.ListUsersQuery{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 5)
	assert.Equal(t, dto.Pagination{Page: 2, Limit: 20, Total: 25, Pages: 2}, resp.Pagination)
	// newest first, so the second page holds the five oldest
	assert.Equal(t, "user-04", resp.Users[0].ID)
	assert.Equal(t, "user-00", resp.Users[4].ID)
}

func TestListUsers_FilteredTotal(t *testing.T) {
	svc, db := newUserAdminService(t)
	now := time.Now().UTC()
	seedUser(t, db, "s1", models.RoleStudent, "", now)
	seedUser(t, db, "s2", models.RoleStudent, "", now)
	seedUser(t, db, "m1", models.RoleModerator, "", now)

	resp, err := svc.ListUsers(context.Background(), dto.ListUsersQuery{Role: models.RoleModerator})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "m1", resp.Users[0].ID)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, DefaultPageSize, resp.Pagination.Limit)
	require.NotNil(t, resp.Users[0].Email)
	assert.Equal(t, "m1***@example.com", *resp.Users[0].Email)
}

func TestListUsers_ClampsLimit(t *testing.T) {
	svc, _ := newUserAdminService(t)

	resp, err := svc.ListUsers(context.Background(), dto.ListUsersQuery{Page: -3, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, MaxPageSize, resp.Pagination.Limit)
	assert.Equal(t, int64(0), resp.Pagination.Pages)
	assert.Empty(t, resp.Users)
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		email string
		want  *string
	}{
		{"jane@example.com", strPtr("ja***@example.com")},
		{"ab@x.io", strPtr("ab***@x.io")},
		{"a@b.c", strPtr("a@b.c")},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactEmail(tt.email))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateUser_RoleChangeIsAudited(t *testing.T) {
	ctx := context.Background()
	svc, db := newUserAdminService(t)
	seedUser(t, db, "u1", models.RoleStudent, "Ada", time.Now())

	err := svc.UpdateUser(ctx, "u1", "admin1", &dto.UpdateUserRequest{Role: models.RoleModerator, Reason: "helpful"})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, models.RoleModerator, user.Role)
	require.NotNil(t, user.ModifiedBy)
	assert.Equal(t, "admin1", *user.ModifiedBy)
	assert.NotNil(t, user.LastModified)

	var actions []models.AdminAction
	require.NoError(t, db.Find(&actions).Error)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionUserUpdate, actions[0].Action)
	assert.Equal(t, "helpful", actions[0].Reason)
	require.NotNil(t, actions[0].TargetUserID)
	assert.Equal(t, "u1", *actions[0].TargetUserID)
	assert.JSONEq(t, `{"role":"moderator"}`, string(actions[0].Changes))
}

func TestUpdateUser_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, db := newUserAdminService(t)
	seedUser(t, db, "u1", models.RoleStudent, "Ada", time.Now())

	err := svc.UpdateUser(ctx, "u1", "admin1", &dto.UpdateUserRequest{Reason: "nothing"})
	assert.ErrorIs(t, err, ErrNoValidUpdates)

	err = svc.UpdateUser(ctx, "u1", "admin1", &dto.UpdateUserRequest{Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	err = svc.UpdateUser(ctx, "ghost", "admin1", &dto.UpdateUserRequest{Status: "banned"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Nil(t, user.ModifiedBy)
	assert.Zero(t, countAdminActions(t, db))
}
