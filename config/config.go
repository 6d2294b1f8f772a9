package config

import (
	"log"
	"os"
	"strconv"
)

const (
	DefaultPort               = "5000"
	DefaultAccessExpiryHours  = 1
	DefaultRefreshExpiryHours = 8760
	DefaultBearerUserPrefix   = "Bearer"
	DefaultBearerAdminPrefix  = "Admin"
	DefaultSMTPPort           = 465
	DefaultImagePromotionSec  = 30
)

type Config struct {
	Env   string
	Port  string
	DBURL string

	// Per-role-per-kind signing secrets. Access and refresh tokens never
	// share a secret, and neither do the user and admin classes.
	UserAccessSecret   string
	AdminAccessSecret  string
	UserRefreshSecret  string
	AdminRefreshSecret string

	// Client-class markers carried as the Authorization header scheme.
	BearerUser  string
	BearerAdmin string

	AccessExpiryHours  int
	RefreshExpiryHours int

	GoogleClientID string

	AWSRegion       string
	AWSAccessKeyID  string
	AWSSecretKey    string
	AWSBucketName   string
	ApplicationName string

	EmailAddress  string
	EmailPassword string
	SMTPHost      string
	SMTPPort      int

	// Seconds to wait before confirming an uploaded profile image exists.
	ImagePromotionDelaySec int
}

func Load() *Config {
	return &Config{
		Env:   getEnv("ENV", "development"),
		Port:  getEnv("PORT", DefaultPort),
		DBURL: mustGetEnv("DB_URL"),

		UserAccessSecret:   mustGetEnv("SIGNATURE_USER_TOKEN"),
		AdminAccessSecret:  mustGetEnv("SIGNATURE_ADMIN_TOKEN"),
		UserRefreshSecret:  mustGetEnv("REFRESH_SIGNATURE_USER_TOKEN"),
		AdminRefreshSecret: mustGetEnv("REFRESH_SIGNATURE_ADMIN_TOKEN"),

		BearerUser:  getEnv("BEARER_USER", DefaultBearerUserPrefix),
		BearerAdmin: getEnv("BEARER_ADMIN", DefaultBearerAdminPrefix),

		AccessExpiryHours:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessExpiryHours),
		RefreshExpiryHours: getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshExpiryHours),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AWSRegion:       getEnv("AWS_REGION", ""),
		AWSAccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSBucketName:   getEnv("AWS_BUCKET_NAME", ""),
		ApplicationName: getEnv("APPLICATION_NAME", "socialMediaApp"),

		EmailAddress:  getEnv("EMAIL", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvAsInt("SMTP_PORT", DefaultSMTPPort),

		ImagePromotionDelaySec: getEnvAsInt("IMAGE_PROMOTION_DELAY", DefaultImagePromotionSec),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
