package repository

import (
	"yak/internal/models"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(f *models.Follow) error {
	return r.db.Create(f).Error
}

func (r *FollowRepository) Delete(followerID, followedID uint) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (r *FollowRepository) Exists(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&count).Error
	return count > 0, err
}

func (r *FollowRepository) ListFollowers(userID uint, limit, offset int) ([]models.Follow, error) {
	var list []models.Follow
	err := r.db.Preload("Follower").Where("followed_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *FollowRepository) ListFollowing(userID uint, limit, offset int) ([]models.Follow, error) {
	var list []models.Follow
	err := r.db.Preload("Followed").Where("follower_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(l *models.Like) error {
	return r.db.Create(l).Error
}

func (r *LikeRepository) Delete(userID, postID uint) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
}

func (r *LikeRepository) Exists(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *LikeRepository) CountByPostID(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(c *models.Comment) error {
	return r.db.Create(c).Error
}

func (r *CommentRepository) GetByID(id uint) (*models.Comment, error) {
	var c models.Comment
	err := r.db.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByPostID(postID uint, limit, offset int) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.Preload("User").Where("post_id = ?", postID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
