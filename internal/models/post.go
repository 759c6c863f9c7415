package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Title        string         `gorm:"size:100" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags []Tag `gorm:"many2many:post_tags;" json:"tags,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// Identifier is the display string used when this post is the subject of a
// notification.
func (p *Post) Identifier() string {
	return p.Title
}

// Tag names are stored lower-cased; Name carries no leading '#'.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}
