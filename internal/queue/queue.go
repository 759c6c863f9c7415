package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"yak/config"
	"yak/internal/notify"
)

const TypeNotificationDeliver = "notification:deliver"

// NotificationTask is the payload carried onto the queue for one dispatch.
// Delivery is at-least-once with no dedup key, so a redelivered task creates
// a duplicate notification record; that is a known limitation.
type NotificationTask struct {
	ReceiverID       uint              `json:"receiver_id"`
	ReporterID       *uint             `json:"reporter_id,omitempty"`
	Subject          notify.SubjectRef `json:"subject"`
	TypeSlug         string            `json:"type_slug"`
	TemplateOverride *string           `json:"template_override,omitempty"`
	ReplyTo          string            `json:"reply_to,omitempty"`
}

// Enqueuer hands a notification off for background dispatch.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, task NotificationTask) error
}

func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.QueueDB,
	}
}

// AsynqEnqueuer pushes tasks onto a Redis-backed asynq queue.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(cfg *config.RedisConfig) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(RedisOpt(cfg))}
}

func (e *AsynqEnqueuer) EnqueueNotification(ctx context.Context, task NotificationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(TypeNotificationDeliver, payload))
	return err
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}

// InlineEnqueuer dispatches synchronously in-process. Used in development
// when Redis is unavailable, and in tests.
type InlineEnqueuer struct {
	dispatcher *notify.Dispatcher
}

func NewInlineEnqueuer(dispatcher *notify.Dispatcher) *InlineEnqueuer {
	return &InlineEnqueuer{dispatcher: dispatcher}
}

func (e *InlineEnqueuer) EnqueueNotification(ctx context.Context, task NotificationTask) error {
	return e.dispatcher.CreateNotification(ctx, task.ReceiverID, task.ReporterID, task.Subject,
		task.TypeSlug, task.TemplateOverride, task.ReplyTo)
}
