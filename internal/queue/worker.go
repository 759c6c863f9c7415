package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"yak/config"
	"yak/internal/notify"
)

// StartWorker runs the asynq consumer in the background. Task failures are
// logged and retried by asynq; the persisted notification record is never
// rolled back by a delivery failure.
func StartWorker(cfg *config.RedisConfig, dispatcher *notify.Dispatcher, logger *zap.Logger) {
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationDeliver, handleNotificationTask(dispatcher, logger))

	go monitorRedisConnection(cfg, logger)

	go func() {
		logger.Info("notification worker starting")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("notification worker failed", zap.Error(err))
		}
	}()
}

func handleNotificationTask(dispatcher *notify.Dispatcher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var t NotificationTask
		if err := json.Unmarshal(task.Payload(), &t); err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			// A malformed payload never becomes valid on retry.
			return fmt.Errorf("unmarshal notification task: %v: %w", err, asynq.SkipRetry)
		}
		err := dispatcher.CreateNotification(ctx, t.ReceiverID, t.ReporterID, t.Subject,
			t.TypeSlug, t.TemplateOverride, t.ReplyTo)
		if err != nil {
			logger.Error("notification dispatch failed",
				zap.Uint("receiver", t.ReceiverID), zap.String("type", t.TypeSlug), zap.Error(err))
		}
		return err
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(cfg *config.RedisConfig, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.QueueDB,
	})
	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
