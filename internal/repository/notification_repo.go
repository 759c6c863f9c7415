package repository

import (
	"yak/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Preload("NotificationType").Preload("Reporter").
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
