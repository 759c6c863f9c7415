package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yak/config"
	"yak/internal/models"
)

type NotificationStore interface {
	Create(n *models.Notification) error
}

type SettingStore interface {
	GetByTypeAndUser(typeID, userID uint) (*models.NotificationSetting, error)
}

type TypeStore interface {
	GetBySlug(slug string) (*models.NotificationType, error)
}

type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

// Broadcaster pushes the freshly created notification to any live in-app
// connections. Best-effort; never blocks or fails dispatch.
type Broadcaster interface {
	NotifyUser(userID uint, payload interface{})
}

// Dispatcher orchestrates notification creation and fan-out: persist the
// record, check the receiver's preferences, then deliver over push and email.
// It runs off the request path (normally on the task queue); provider and
// template failures propagate to the invoking task without rolling back the
// persisted record.
type Dispatcher struct {
	cfg           *config.NotificationConfig
	notifications NotificationStore
	settings      SettingStore
	types         TypeStore
	users         UserStore
	subjects      *SubjectRegistry
	renderer      *Renderer
	push          PushBackend
	email         EmailSender
	hub           Broadcaster
	logger        *zap.Logger
}

func NewDispatcher(
	cfg *config.NotificationConfig,
	notifications NotificationStore,
	settings SettingStore,
	types TypeStore,
	users UserStore,
	subjects *SubjectRegistry,
	renderer *Renderer,
	push PushBackend,
	email EmailSender,
	hub Broadcaster,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		cfg:           cfg,
		notifications: notifications,
		settings:      settings,
		types:         types,
		users:         users,
		subjects:      subjects,
		renderer:      renderer,
		push:          push,
		email:         email,
		hub:           hub,
		logger:        logger,
	}
}

// CreateNotification persists one notification and fans it out. Self
// notifications (receiver == reporter) are a silent no-op with no record.
// Re-invocation is not idempotent: each call creates a fresh record and may
// re-send, which is the accepted at-least-once behavior of the queue layer.
func (d *Dispatcher) CreateNotification(ctx context.Context, receiverID uint, reporterID *uint, subject SubjectRef, typeSlug string, templateOverride *string, replyTo string) error {
	if reporterID != nil && *reporterID == receiverID {
		return nil
	}

	nt, err := d.types.GetBySlug(typeSlug)
	if err != nil {
		return fmt.Errorf("lookup notification type %q: %w", typeSlug, err)
	}

	record := &models.Notification{
		NotificationTypeID: nt.ID,
		TemplateOverride:   templateOverride,
		UserID:             receiverID,
		ReporterID:         reporterID,
		SubjectType:        subject.Type,
		SubjectID:          subject.ID,
	}
	if err := d.notifications.Create(record); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	setting, err := d.settings.GetByTypeAndUser(nt.ID, receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: type=%s user=%d", ErrSettingMissing, typeSlug, receiverID)
		}
		return fmt.Errorf("load notification setting: %w", err)
	}

	sendPush := d.cfg.AllowPush && setting.AllowPush
	sendEmail := d.cfg.AllowEmail && setting.AllowEmail

	var receiver *models.User
	if sendPush || sendEmail {
		receiver, err = d.users.GetByID(receiverID)
		if err != nil {
			return fmt.Errorf("load receiver: %w", err)
		}
	}
	sendEmail = sendEmail && receiver.Email != ""

	var subjectEntity Subject
	var reporter *models.User
	if sendPush || sendEmail {
		subjectEntity, err = d.subjects.Resolve(subject)
		if err != nil {
			return fmt.Errorf("resolve subject %s/%d: %w", subject.Type, subject.ID, err)
		}
		if reporterID != nil {
			reporter, err = d.users.GetByID(*reporterID)
			if err != nil {
				return fmt.Errorf("load reporter: %w", err)
			}
		}
	}

	if d.hub != nil {
		d.hub.NotifyUser(receiverID, record)
	}

	if sendPush {
		message, err := d.renderer.PushMessage(nt.Slug, templateOverride, subjectEntity, reporter)
		if err != nil {
			return err
		}
		if _, err := d.push.SendPush(ctx, receiverID, message, ""); err != nil {
			return err
		}
		d.logger.Debug("push notification sent",
			zap.Uint("receiver", receiverID), zap.String("type", nt.Slug))
	}

	if sendEmail {
		message, err := d.renderer.EmailMessage(nt.Slug, templateOverride, subjectEntity, reporter)
		if err != nil {
			return err
		}
		if err := d.email.Send(receiver.Email, message, replyTo); err != nil {
			return fmt.Errorf("send notification email: %w", err)
		}
		d.logger.Debug("email notification sent",
			zap.Uint("receiver", receiverID), zap.String("type", nt.Slug))
	}

	return nil
}
