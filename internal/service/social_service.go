package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"yak/internal/models"
)

var (
	ErrSelfFollow     = errors.New("cannot follow yourself")
	ErrAlreadyFollows = errors.New("already following")
	ErrAlreadyLiked   = errors.New("already liked")
)

type FollowStore interface {
	Create(f *models.Follow) error
	Delete(followerID, followedID uint) error
	Exists(followerID, followedID uint) (bool, error)
}

type LikeStore interface {
	Create(l *models.Like) error
	Delete(userID, postID uint) error
	Exists(userID, postID uint) (bool, error)
}

type CommentStore interface {
	Create(c *models.Comment) error
}

// SocialService handles follows, likes and comments, and enqueues the
// notification each produces.
type SocialService struct {
	follows  FollowStore
	likes    LikeStore
	comments CommentStore
	posts    PostStore
	users    UserStore
	notifSvc *NotificationService
	logger   *zap.Logger
}

func NewSocialService(follows FollowStore, likes LikeStore, comments CommentStore, posts PostStore, users UserStore, notifSvc *NotificationService, logger *zap.Logger) *SocialService {
	return &SocialService{
		follows:  follows,
		likes:    likes,
		comments: comments,
		posts:    posts,
		users:    users,
		notifSvc: notifSvc,
		logger:   logger,
	}
}

func (s *SocialService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	if _, err := s.users.GetByID(followedID); err != nil {
		return err
	}
	exists, err := s.follows.Exists(followerID, followedID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollows
	}
	if err := s.follows.Create(&models.Follow{FollowerID: followerID, FollowedID: followedID}); err != nil {
		return err
	}
	s.notifSvc.NotifyFollow(ctx, followedID, followerID)
	return nil
}

func (s *SocialService) Unfollow(followerID, followedID uint) error {
	return s.follows.Delete(followerID, followedID)
}

func (s *SocialService) Like(ctx context.Context, userID, postID uint) error {
	p, err := s.posts.GetByID(postID)
	if err != nil {
		return err
	}
	exists, err := s.likes.Exists(userID, postID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyLiked
	}
	if err := s.likes.Create(&models.Like{UserID: userID, PostID: postID}); err != nil {
		return err
	}
	s.notifSvc.NotifyLike(ctx, p.UserID, userID, postID)
	return nil
}

func (s *SocialService) Unlike(userID, postID uint) error {
	return s.likes.Delete(userID, postID)
}

func (s *SocialService) Comment(ctx context.Context, userID, postID uint, description string) (*models.Comment, error) {
	p, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{UserID: userID, PostID: postID, Description: description}
	if err := s.comments.Create(c); err != nil {
		return nil, err
	}
	s.notifSvc.NotifyComment(ctx, p.UserID, userID, postID)
	return c, nil
}
