package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Newsletter NewsletterConfig
	Inquiry    InquiryConfig
	BotCheck   BotCheckConfig
	MinIO      MinIOConfig
	Keycloak   KeycloakConfig
	JWT        JWTConfig
	FeedSync   FeedSyncConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// UpstreamTimeout bounds every outbound provider call.
	UpstreamTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// NewsletterConfig carries credentials for both signup providers.
// An empty key disables the matching provider.
type NewsletterConfig struct {
	StorageURL   string
	StorageKey   string
	Source       string
	MailchimpKey string
	ListID       string
	ServerPrefix string
	Tags         []string
}

type InquiryConfig struct {
	WebhookURL   string
	WebhookToken string
}

type BotCheckConfig struct {
	Secret    string
	VerifyURL string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	URLExpiry time.Duration
}

type KeycloakConfig struct {
	URL      string
	Realm    string
	ClientID string
}

// FeedSyncConfig drives cmd/feedsync.
type FeedSyncConfig struct {
	URLs     []string
	Schedule string
	// DefaultType is used for entries whose type cannot be inferred.
	DefaultType string
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// StorageEnabled reports whether the centralized storage provider is configured.
func (n NewsletterConfig) StorageEnabled() bool {
	return n.StorageURL != "" && n.StorageKey != ""
}

// MailchimpEnabled reports whether the email-marketing provider is configured.
func (n NewsletterConfig) MailchimpEnabled() bool {
	return n.MailchimpKey != "" && n.ListID != "" && n.ServerPrefix != ""
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 10)
	viper.SetDefault("MONGODB_DATABASE", "halcyon")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("STORAGE_API_SOURCE", "website")
	viper.SetDefault("MAILCHIMP_TAGS", "website")
	viper.SetDefault("BOTCHECK_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	viper.SetDefault("MINIO_BUCKET", "halcyon-media")
	viper.SetDefault("MINIO_URL_EXPIRY_MINUTES", 60)
	viper.SetDefault("JWT_TOKEN_TTL", 60)
	viper.SetDefault("FEEDSYNC_SCHEDULE", "@every 30m")
	viper.SetDefault("FEEDSYNC_DEFAULT_TYPE", "article")

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			UpstreamTimeout: time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Newsletter: NewsletterConfig{
			StorageURL:   viper.GetString("STORAGE_API_URL"),
			StorageKey:   os.Getenv("STORAGE_API_KEY"),
			Source:       viper.GetString("STORAGE_API_SOURCE"),
			MailchimpKey: os.Getenv("MAILCHIMP_API_KEY"),
			ListID:       viper.GetString("MAILCHIMP_LIST_ID"),
			ServerPrefix: viper.GetString("MAILCHIMP_SERVER_PREFIX"),
			Tags:         splitList(viper.GetString("MAILCHIMP_TAGS")),
		},
		Inquiry: InquiryConfig{
			WebhookURL:   viper.GetString("INQUIRY_WEBHOOK_URL"),
			WebhookToken: os.Getenv("INQUIRY_WEBHOOK_TOKEN"),
		},
		BotCheck: BotCheckConfig{
			Secret:    os.Getenv("BOTCHECK_SECRET"),
			VerifyURL: viper.GetString("BOTCHECK_VERIFY_URL"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			URLExpiry: time.Duration(viper.GetInt("MINIO_URL_EXPIRY_MINUTES")) * time.Minute,
		},
		Keycloak: KeycloakConfig{
			URL:      viper.GetString("KEYCLOAK_URL"),
			Realm:    viper.GetString("KEYCLOAK_REALM"),
			ClientID: viper.GetString("KEYCLOAK_CLIENT_ID"),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			TokenTTL: time.Duration(viper.GetInt("JWT_TOKEN_TTL")) * time.Minute,
		},
		FeedSync: FeedSyncConfig{
			URLs:        splitList(viper.GetString("FEEDSYNC_URLS")),
			Schedule:    viper.GetString("FEEDSYNC_SCHEDULE"),
			DefaultType: viper.GetString("FEEDSYNC_DEFAULT_TYPE"),
		},
	}

	if !cfg.Newsletter.StorageEnabled() && !cfg.Newsletter.MailchimpEnabled() {
		logger.Warnf("no newsletter provider configured; /api/newsletter will answer 500")
	}
	if cfg.Inquiry.WebhookURL == "" {
		logger.Warnf("INQUIRY_WEBHOOK_URL is not set; sponsor inquiries are stored but not forwarded")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
