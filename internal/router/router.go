package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yak/config"
	"yak/internal/handler"
	"yak/internal/middleware"
	"yak/internal/notify"
	"yak/internal/queue"
	"yak/internal/repository"
	"yak/internal/service"
	"yak/internal/ws"
	"yak/pkg/cloudinary"
)

func Setup(
	cfg *config.Config,
	db *gorm.DB,
	cloud cloudinary.Client,
	backend notify.PushBackend,
	email notify.EmailSender,
	enqueuer queue.Enqueuer,
	hub *ws.Hub,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	typeRepo := repository.NewNotificationTypeRepository(db)
	settingRepo := repository.NewNotificationSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)

	// Services
	notifSvc := service.NewNotificationService(typeRepo, settingRepo, tokenRepo, backend, enqueuer, logger)
	authSvc := service.NewAuthService(cfg, userRepo, notifSvc, cloud, email, logger)
	postSvc := service.NewPostService(postRepo, tagRepo, userRepo, notifSvc, logger)
	socialSvc := service.NewSocialService(followRepo, likeRepo, commentRepo, postRepo, userRepo, notifSvc, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, postRepo)
	userHandler := handler.NewUserHandler(userRepo, postRepo)
	postHandler := handler.NewPostHandler(postSvc, postRepo, tagRepo, cloud)
	socialHandler := handler.NewSocialHandler(socialSvc, followRepo, likeRepo, commentRepo)
	notificationHandler := handler.NewNotificationHandler(notifSvc, notificationRepo, settingRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/password-reset", authHandler.RequestPasswordReset)
			authGroup.POST("/password-reset/confirm", authHandler.ResetPassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
			authGroup.POST("/google/link", authMw, googleOAuthHandler.Link)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.GET("/feed", meHandler.Feed)
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notification-settings", notificationHandler.Settings)
			me.PATCH("/notification-settings/:id", notificationHandler.UpdateSetting)
			me.POST("/devices", notificationHandler.RegisterDevice)
		}

		users := api.Group("/users")
		users.Use(authMw)
		{
			users.GET("/search", userHandler.Search)
			users.GET("/:id", userHandler.Get)
			users.GET("/:id/posts", userHandler.Posts)
			users.GET("/:id/followers", socialHandler.Followers)
			users.GET("/:id/following", socialHandler.Following)
			users.POST("/:id/follow", socialHandler.Follow)
			users.DELETE("/:id/follow", socialHandler.Unfollow)
		}

		posts := api.Group("/posts")
		posts.Use(authMw)
		{
			posts.POST("", postHandler.Create)
			posts.GET("/:id", postHandler.Get)
			posts.PUT("/:id", postHandler.Update)
			posts.DELETE("/:id", postHandler.Delete)
			posts.POST("/:id/thumbnail", postHandler.UploadThumbnail)
			posts.POST("/:id/like", socialHandler.Like)
			posts.DELETE("/:id/like", socialHandler.Unlike)
			posts.GET("/:id/likes", socialHandler.LikeCount)
			posts.POST("/:id/comments", socialHandler.CreateComment)
			posts.GET("/:id/comments", socialHandler.Comments)
		}

		api.GET("/tags", authMw, postHandler.Tags)
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub))

	return r
}
