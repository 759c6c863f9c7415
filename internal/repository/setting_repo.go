package repository

import (
	"yak/internal/models"

	"gorm.io/gorm"
)

type NotificationSettingRepository struct {
	db *gorm.DB
}

func NewNotificationSettingRepository(db *gorm.DB) *NotificationSettingRepository {
	return &NotificationSettingRepository{db: db}
}

// BulkCreate inserts settings in one statement; relies on the unique
// (type, user) index for integrity.
func (r *NotificationSettingRepository) BulkCreate(settings []models.NotificationSetting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.Create(&settings).Error
}

func (r *NotificationSettingRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.NotificationSetting{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *NotificationSettingRepository) ListByUserID(userID uint) ([]models.NotificationSetting, error) {
	var list []models.NotificationSetting
	err := r.db.Preload("NotificationType").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *NotificationSettingRepository) GetByTypeAndUser(typeID, userID uint) (*models.NotificationSetting, error) {
	var s models.NotificationSetting
	err := r.db.Where("notification_type_id = ? AND user_id = ?", typeID, userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *NotificationSettingRepository) GetByIDAndUser(id, userID uint) (*models.NotificationSetting, error) {
	var s models.NotificationSetting
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *NotificationSettingRepository) Update(s *models.NotificationSetting) error {
	return r.db.Save(s).Error
}
