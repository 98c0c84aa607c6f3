package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent   = "student"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User is the stored profile of an identity-provider account. The ID is the
// provider's uid (the token subject).
type User struct {
	ID           string     `gorm:"primaryKey;size:128" json:"id"`
	Role         string     `gorm:"size:20;index" json:"role"`
	Status       string     `gorm:"size:20;index" json:"status"`
	DisplayName  string     `gorm:"size:255" json:"displayName"`
	Email        string     `gorm:"size:255" json:"email"`
	JoinedDate   time.Time  `gorm:"not null;index" json:"joinedDate"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	ModifiedBy   *string    `gorm:"size:128" json:"modifiedBy,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.JoinedDate.IsZero() {
		u.JoinedDate = time.Now().UTC()
	}
	return nil
}

// EffectiveRole treats an unset role as a student.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleStudent
	}
	return u.Role
}

// IsStaff reports whether the user may use the admin panel.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
