package repository

import (
	"yak/internal/models"

	"gorm.io/gorm"
)

type PushTokenRepository struct {
	db *gorm.DB
}

func NewPushTokenRepository(db *gorm.DB) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

func (r *PushTokenRepository) Create(t *models.PushToken) error {
	return r.db.Create(t).Error
}

// TokensByUserID returns the raw token strings for all of a user's devices.
func (r *PushTokenRepository) TokensByUserID(userID uint) ([]string, error) {
	var tokens []string
	err := r.db.Model(&models.PushToken{}).Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}
