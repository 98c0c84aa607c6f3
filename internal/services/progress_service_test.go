package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func rawPtr(s string) *json.RawMessage {
	m := json.RawMessage(s)
	return &m
}

func TestGetProgress_DefaultsWhenAbsent(t *testing.T) {
	svc := NewProgressService(dbtest.Open(t))

	got, err := svc.GetProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), got.Progress)
	assert.Equal(t, []string{}, got.Badges)
	assert.JSONEq(t, `[]`, string(got.RecentActivity))
}

func TestSetProgress_MergesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc := NewProgressService(dbtest.Open(t))

	require.NoError(t, svc.SetProgress(ctx, "u1", &dto.SetProgressRequest{
		Progress:       floatPtr(42.5),
		RecentActivity: rawPtr(`[{"lesson":"intro"}]`),
	}))
	badges := []string{"first-step", "streak", "first-step"}
	require.NoError(t, svc.SetProgress(ctx, "u1", &dto.SetProgressRequest{Badges: &badges}))

	got, err := svc.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 42.5, got.Progress)
	assert.Equal(t, []string{"first-step", "streak"}, got.Badges)
	assert.JSONEq(t, `[{"lesson":"intro"}]`, string(got.RecentActivity))
}

func TestSetProgress_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	svc := NewProgressService(db)
	req := &dto.SetProgressRequest{Progress: floatPtr(10)}

	require.NoError(t, svc.SetProgress(ctx, "u1", req))
	first, err := svc.GetProgress(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, svc.SetProgress(ctx, "u1", req))
	second, err := svc.GetProgress(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	var rows int64
	require.NoError(t, db.Model(&models.UserProgress{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestSetProgress_ZeroProgressIsStored(t *testing.T) {
	ctx := context.Background()
	svc := NewProgressService(dbtest.Open(t))

	require.NoError(t, svc.SetProgress(ctx, "u1", &dto.SetProgressRequest{Progress: floatPtr(80)}))
	require.NoError(t, svc.SetProgress(ctx, "u1", &dto.SetProgressRequest{Progress: floatPtr(0)}))

	got, err := svc.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), got.Progress)
}

func TestSetProgress_RejectsNonArrayActivity(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	svc := NewProgressService(db)

	err := svc.SetProgress(ctx, "u1", &dto.SetProgressRequest{RecentActivity: rawPtr(`{"lesson":"intro"}`)})
	assert.ErrorIs(t, err, ErrInvalidActivity)

	var rows int64
	require.NoError(t, db.Model(&models.UserProgress{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
