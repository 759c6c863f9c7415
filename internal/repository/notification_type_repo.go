package repository

import (
	"sync"

	"yak/internal/models"

	"gorm.io/gorm"
)

// NotificationTypeRepository serves read-mostly reference data. The active
// list is cached in memory and invalidated on any write through this repo.
type NotificationTypeRepository struct {
	db *gorm.DB

	mu     sync.RWMutex
	active []models.NotificationType
}

func NewNotificationTypeRepository(db *gorm.DB) *NotificationTypeRepository {
	return &NotificationTypeRepository{db: db}
}

func (r *NotificationTypeRepository) ListActive() ([]models.NotificationType, error) {
	r.mu.RLock()
	cached := r.active
	r.mu.RUnlock()
	if cached != nil {
		return copyTypes(cached), nil
	}

	var list []models.NotificationType
	if err := r.db.Where("is_active = ?", true).Order("slug ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.active = list
	r.mu.Unlock()
	return copyTypes(list), nil
}

// copyTypes keeps the cached slice private to the repository.
func copyTypes(list []models.NotificationType) []models.NotificationType {
	out := make([]models.NotificationType, len(list))
	copy(out, list)
	return out
}

func (r *NotificationTypeRepository) GetBySlug(slug string) (*models.NotificationType, error) {
	var nt models.NotificationType
	err := r.db.Where("slug = ?", slug).First(&nt).Error
	if err != nil {
		return nil, err
	}
	return &nt, nil
}

func (r *NotificationTypeRepository) Create(nt *models.NotificationType) error {
	if err := r.db.Create(nt).Error; err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *NotificationTypeRepository) Update(nt *models.NotificationType) error {
	if err := r.db.Save(nt).Error; err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *NotificationTypeRepository) invalidate() {
	r.mu.Lock()
	r.active = nil
	r.mu.Unlock()
}
