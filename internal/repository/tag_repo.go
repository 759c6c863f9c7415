package repository

import (
	"errors"

	"yak/internal/models"

	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate returns the tag with the given (lower-cased) name, creating it
// if missing.
func (r *TagRepository) GetOrCreate(name string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.Where("name = ?", name).First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t = models.Tag{Name: name}
	if err := r.db.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) List(limit, offset int) ([]models.Tag, error) {
	var list []models.Tag
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
