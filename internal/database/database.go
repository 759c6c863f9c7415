package database

import (
	"errors"

	"yak/config"
	"yak/internal/domain"
	"yak/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.NotificationType{},
		&models.NotificationSetting{},
		&models.Notification{},
		&models.PushToken{},
	)
}

// SeedNotificationTypes inserts the built-in notification types if they are
// missing. Existing rows are left untouched so deployments can deactivate or
// rename types out-of-band.
func SeedNotificationTypes(db *gorm.DB) error {
	seed := []models.NotificationType{
		{Name: "Follow", Slug: domain.NotificationFollow, Description: "Someone started following you", IsActive: true},
		{Name: "Like", Slug: domain.NotificationLike, Description: "Someone liked your post", IsActive: true},
		{Name: "Comment", Slug: domain.NotificationComment, Description: "Someone commented on your post", IsActive: true},
		{Name: "Mention", Slug: domain.NotificationMention, Description: "Someone mentioned you in a post", IsActive: true},
	}
	for _, nt := range seed {
		var existing models.NotificationType
		err := db.Where("slug = ?", nt.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&nt).Error; err != nil {
			return err
		}
	}
	return nil
}
