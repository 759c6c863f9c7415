package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Fullname     string         `gorm:"size:128" json:"fullname"`
	AboutMe      string         `gorm:"size:255" json:"about_me"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Identifier is the display string used when this user is the subject or
// reporter of a notification.
func (u *User) Identifier() string {
	return u.Username
}
