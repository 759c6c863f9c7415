package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"yak/internal/domain"
	"yak/internal/models"
	"yak/internal/notify"
	"yak/internal/queue"
)

type TypeLister interface {
	ListActive() ([]models.NotificationType, error)
}

type SettingStore interface {
	CountByUserID(userID uint) (int64, error)
	BulkCreate(settings []models.NotificationSetting) error
}

type TokenStore interface {
	Create(t *models.PushToken) error
}

// NotificationService owns preference initialization, device registration and
// the enqueue side of notification dispatch.
type NotificationService struct {
	types    TypeLister
	settings SettingStore
	tokens   TokenStore
	backend  notify.PushBackend
	enqueuer queue.Enqueuer
	logger   *zap.Logger
}

func NewNotificationService(types TypeLister, settings SettingStore, tokens TokenStore, backend notify.PushBackend, enqueuer queue.Enqueuer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		types:    types,
		settings: settings,
		tokens:   tokens,
		backend:  backend,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// InitSettings creates one default setting per active notification type for a
// freshly created user. Runs synchronously inside the creation flow. If the
// user already has any settings the call is a no-op, which guards against
// re-entry.
func (s *NotificationService) InitSettings(userID uint) error {
	count, err := s.settings.CountByUserID(userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	types, err := s.types.ListActive()
	if err != nil {
		return err
	}
	settings := make([]models.NotificationSetting, 0, len(types))
	for _, nt := range types {
		settings = append(settings, models.NotificationSetting{
			NotificationTypeID: nt.ID,
			UserID:             userID,
			AllowPush:          true,
			AllowEmail:         true,
		})
	}
	return s.settings.BulkCreate(settings)
}

// RegisterDevice registers the token with the push provider, then stores it
// locally. Tokens are never expired locally; the provider rejects stale ones.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID uint, token, hwid, platform, language string) error {
	if platform != domain.PlatformIOS && platform != domain.PlatformAndroid {
		return fmt.Errorf("unsupported platform %q", platform)
	}
	if _, err := s.backend.RegisterDevice(ctx, token, hwid, platform, language); err != nil {
		return err
	}
	return s.tokens.Create(&models.PushToken{UserID: userID, Token: token})
}

func (s *NotificationService) enqueue(ctx context.Context, task queue.NotificationTask) {
	if err := s.enqueuer.EnqueueNotification(ctx, task); err != nil {
		s.logger.Error("enqueue notification failed",
			zap.String("type", task.TypeSlug), zap.Uint("receiver", task.ReceiverID), zap.Error(err))
	}
}

// NotifyFollow tells followedID that followerID started following them.
func (s *NotificationService) NotifyFollow(ctx context.Context, followedID, followerID uint) {
	s.enqueue(ctx, queue.NotificationTask{
		ReceiverID: followedID,
		ReporterID: &followerID,
		Subject:    notify.SubjectRef{Type: domain.SubjectUser, ID: followedID},
		TypeSlug:   domain.NotificationFollow,
	})
}

// NotifyLike tells the post owner about a new like. The subject is the Post,
// not the Like.
func (s *NotificationService) NotifyLike(ctx context.Context, postOwnerID, likerID, postID uint) {
	s.enqueue(ctx, queue.NotificationTask{
		ReceiverID: postOwnerID,
		ReporterID: &likerID,
		Subject:    notify.SubjectRef{Type: domain.SubjectPost, ID: postID},
		TypeSlug:   domain.NotificationLike,
	})
}

// NotifyComment tells the post owner about a new comment.
func (s *NotificationService) NotifyComment(ctx context.Context, postOwnerID, commenterID, postID uint) {
	s.enqueue(ctx, queue.NotificationTask{
		ReceiverID: postOwnerID,
		ReporterID: &commenterID,
		Subject:    notify.SubjectRef{Type: domain.SubjectPost, ID: postID},
		TypeSlug:   domain.NotificationComment,
	})
}

// NotifyMention tells a mentioned user about the post that names them.
func (s *NotificationService) NotifyMention(ctx context.Context, mentionedID, reporterID, postID uint) {
	s.enqueue(ctx, queue.NotificationTask{
		ReceiverID: mentionedID,
		ReporterID: &reporterID,
		Subject:    notify.SubjectRef{Type: domain.SubjectPost, ID: postID},
		TypeSlug:   domain.NotificationMention,
	})
}
