package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	OAuth         OAuthConfig
	Cloudinary    CloudinaryConfig
	Site          SiteConfig
	Notifications NotificationConfig
	Pushwoosh     PushwooshConfig
	Firebase      FirebaseConfig
	Email         EmailConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	QueueDB  int
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// SiteConfig identifies the deployment; Domain feeds notification templates.
type SiteConfig struct {
	Name   string
	Domain string
}

// NotificationConfig holds the deployment-level delivery switches and the
// active push backend selector ("pushwoosh" or "fcm").
type NotificationConfig struct {
	AllowPush   bool
	AllowEmail  bool
	PushBackend string
}

type PushwooshConfig struct {
	BaseURL   string
	AppCode   string
	AuthToken string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	Subject  string
}

// Load reads configuration from config.yaml (if present) and the environment,
// with development defaults.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DATABASE_DSN", "yak:yak@tcp(localhost:3306)/yak?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("JWT_ACCESS_SECRET", "change-me-in-production")
	viper.SetDefault("JWT_REFRESH_SECRET", "change-me-refresh")
	viper.SetDefault("SITE_NAME", "Yak")
	viper.SetDefault("SITE_DOMAIN", "localhost:8080")
	viper.SetDefault("ALLOW_PUSH", true)
	viper.SetDefault("ALLOW_EMAIL", true)
	viper.SetDefault("PUSH_BACKEND", "pushwoosh")
	viper.SetDefault("PUSHWOOSH_BASE_URL", "https://cp.pushwoosh.com/json/1.3")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_SUBJECT", "New Notification")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("no config file found, using environment variables only")
	}

	return &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Env:          viper.GetString("SERVER_ENV"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             viper.GetString("DATABASE_DSN"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			QueueDB:  viper.GetInt("REDIS_QUEUE_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:  viper.GetString("JWT_ACCESS_SECRET"),
			RefreshSecret: viper.GetString("JWT_REFRESH_SECRET"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "yak",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
		},
		Site: SiteConfig{
			Name:   viper.GetString("SITE_NAME"),
			Domain: viper.GetString("SITE_DOMAIN"),
		},
		Notifications: NotificationConfig{
			AllowPush:   viper.GetBool("ALLOW_PUSH"),
			AllowEmail:  viper.GetBool("ALLOW_EMAIL"),
			PushBackend: viper.GetString("PUSH_BACKEND"),
		},
		Pushwoosh: PushwooshConfig{
			BaseURL:   viper.GetString("PUSHWOOSH_BASE_URL"),
			AppCode:   viper.GetString("PUSHWOOSH_APP_CODE"),
			AuthToken: viper.GetString("PUSHWOOSH_AUTH_TOKEN"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: viper.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		Email: EmailConfig{
			SMTPHost: viper.GetString("SMTP_HOST"),
			SMTPPort: viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("EMAIL_FROM"),
			Subject:  viper.GetString("EMAIL_SUBJECT"),
		},
	}
}
