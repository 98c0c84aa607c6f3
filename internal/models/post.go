package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RedactedContent replaces the body of a comment removed by a moderator.
const RedactedContent = "[Content removed by moderator]"

type Post struct {
	ID          string     `gorm:"primaryKey;size:128" json:"id"`
	AuthorID    string     `gorm:"size:128;not null;index" json:"authorId"`
	Content     string     `gorm:"type:text" json:"content"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	IsReported  bool       `gorm:"not null;default:false" json:"isReported"`
	ModeratedBy *string    `gorm:"size:128" json:"moderatedBy,omitempty"`
	ModeratedAt *time.Time `json:"moderatedAt,omitempty"`
}

func (Post) TableName() string {
	return "community_posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Comment lives under a Post. Its primary key doubles as the global
// comment index: a comment id resolves to its parent through PostID.
type Comment struct {
	ID          string     `gorm:"primaryKey;size:128" json:"id"`
	PostID      string     `gorm:"size:128;not null;index" json:"postId"`
	AuthorID    string     `gorm:"size:128;not null;index" json:"authorId"`
	Content     string     `gorm:"type:text" json:"content"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	IsReported  bool       `gorm:"not null;default:false" json:"isReported"`
	ModeratedBy *string    `gorm:"size:128" json:"moderatedBy,omitempty"`
	ModeratedAt *time.Time `json:"moderatedAt,omitempty"`
	Post        Post       `gorm:"foreignKey:PostID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
