package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType is reference data: one row per category of event
// ("follow", "like", ...). Administered out-of-band and read-mostly.
type NotificationType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:32;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Description string    `gorm:"size:255" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (NotificationType) TableName() string {
	return "notification_types"
}

// NotificationSetting holds one user's channel preferences for one
// notification type. Rows are created in bulk right after user creation and
// mutated only by the owning user.
type NotificationSetting struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	NotificationTypeID uint      `gorm:"not null;index:idx_setting_type_user,unique" json:"notification_type_id"`
	UserID             uint      `gorm:"not null;index:idx_setting_type_user,unique" json:"user_id"`
	AllowPush          bool      `gorm:"default:true" json:"allow_push"`
	AllowEmail         bool      `gorm:"default:true" json:"allow_email"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	NotificationType NotificationType `gorm:"foreignKey:NotificationTypeID" json:"notification_type,omitempty"`
	User             User             `gorm:"foreignKey:UserID" json:"-"`
}

func (NotificationSetting) TableName() string {
	return "notification_settings"
}

// Notification is the durable record of one notification event. Append-only;
// the subject it is about is referenced polymorphically by (SubjectType,
// SubjectID). E.g. when someone likes a post, the subject is the Post, not
// the Like.
type Notification struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	NotificationTypeID uint           `gorm:"not null;index" json:"notification_type_id"`
	TemplateOverride   *string        `gorm:"size:100" json:"template_override,omitempty"`
	UserID             uint           `gorm:"not null;index" json:"user_id"`
	ReporterID         *uint          `gorm:"index" json:"reporter_id,omitempty"`
	SubjectType        string         `gorm:"size:30;not null" json:"subject_type"`
	SubjectID          uint           `gorm:"not null;index" json:"subject_id"`
	CreatedAt          time.Time      `json:"created_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	NotificationType NotificationType `gorm:"foreignKey:NotificationTypeID" json:"notification_type,omitempty"`
	User             User             `gorm:"foreignKey:UserID" json:"-"`
	Reporter         *User            `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// PushToken is one registered device for a user. Users may hold several
// (multi-device); stale tokens are rejected by the provider, not expired here.
type PushToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"size:255;not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PushToken) TableName() string {
	return "push_tokens"
}
