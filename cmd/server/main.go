package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"yak/config"
	"yak/internal/database"
	"yak/internal/domain"
	"yak/internal/notify"
	"yak/internal/queue"
	"yak/internal/repository"
	"yak/internal/router"
	"yak/internal/ws"
	"yak/pkg/cloudinary"
	"yak/templates"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Server.Env)
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}
	if err := database.SeedNotificationTypes(db); err != nil {
		logger.Fatal("seed notification types failed", zap.Error(err))
	}

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		logger.Fatal("cloudinary init failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	typeRepo := repository.NewNotificationTypeRepository(db)
	settingRepo := repository.NewNotificationSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)

	backend, err := notify.NewPushBackend(cfg, tokenRepo)
	if err != nil {
		logger.Fatal("push backend init failed", zap.Error(err))
	}

	subjects := notify.NewSubjectRegistry()
	subjects.Register(domain.SubjectPost, func(id uint) (notify.Subject, error) {
		return postRepo.GetByID(id)
	})
	subjects.Register(domain.SubjectComment, func(id uint) (notify.Subject, error) {
		return commentRepo.GetByID(id)
	})
	subjects.Register(domain.SubjectUser, func(id uint) (notify.Subject, error) {
		return userRepo.GetByID(id)
	})

	hub := ws.NewHub()
	renderer := notify.NewRenderer(templates.FS, cfg.Site.Domain)
	email := notify.NewEmailSender(&cfg.Email)

	dispatcher := notify.NewDispatcher(&cfg.Notifications, notificationRepo, settingRepo,
		typeRepo, userRepo, subjects, renderer, backend, email, hub, logger)

	enqueuer := queue.NewAsynqEnqueuer(&cfg.Redis)
	defer enqueuer.Close()
	queue.StartWorker(&cfg.Redis, dispatcher, logger)

	engine := router.Setup(cfg, db, cloud, backend, email, enqueuer, hub, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
