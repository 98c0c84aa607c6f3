package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, id, role, name string, joined time.Time) models.User {
	t.Helper()
	u := models.User{
		ID:          id,
		Role:        role,
		DisplayName: name,
		Email:       id + "@example.com",
		JoinedDate:  joined.UTC(),
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, author, content string, created time.Time) models.Post {
	t.Helper()
	p := models.Post{AuthorID: author, Content: content, CreatedAt: created.UTC()}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedComment(t *testing.T, db *gorm.DB, postID, author, content string, created time.Time) models.Comment {
	t.Helper()
	c := models.Comment{PostID: postID, AuthorID: author, Content: content, CreatedAt: created.UTC()}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func countAdminActions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.AdminAction{}).Count(&n).Error)
	return n
}
