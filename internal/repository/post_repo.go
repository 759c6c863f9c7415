package repository

import (
	"yak/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var p models.Post
	err := r.db.Preload("Tags").Preload("User").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) Update(p *models.Post) error {
	return r.db.Save(p).Error
}

func (r *PostRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Post{}).Error
}

func (r *PostRepository) ListByUserID(userID uint, limit, offset int) ([]models.Post, error) {
	var list []models.Post
	err := r.db.Preload("Tags").Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Feed lists the newest posts by the users that userID follows.
func (r *PostRepository) Feed(userID uint, limit, offset int) ([]models.Post, error) {
	var list []models.Post
	err := r.db.Preload("Tags").Preload("User").
		Where("user_id IN (?)", r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ReplaceTags resets the post's tag associations.
func (r *PostRepository) ReplaceTags(p *models.Post, tags []models.Tag) error {
	return r.db.Model(p).Association("Tags").Replace(tags)
}
