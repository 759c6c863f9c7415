package models

import (
	"time"

	"gorm.io/gorm"
)

type Follow struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FollowerID uint           `gorm:"not null;index:idx_follow_pair,unique" json:"follower_id"`
	FollowedID uint           `gorm:"not null;index:idx_follow_pair,unique" json:"followed_id"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

func (Follow) TableName() string {
	return "follows"
}

type Like struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_like_user_post,unique" json:"user_id"`
	PostID    uint           `gorm:"not null;index:idx_like_user_post,unique" json:"post_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}

type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	Description string         `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// Identifier for comments points at the comment text.
func (c *Comment) Identifier() string {
	return c.Description
}
