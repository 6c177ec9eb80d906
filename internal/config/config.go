package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin capability
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Notification destinations (chat-platform webhooks).
	// An empty URL disables that destination.
	ReportWebhookURL   string
	ApprovedWebhookURL string
	RewardWebhookURL   string
	ArchiveWebhookURL  string
	PurchaseWebhookURL string

	// Shop
	PurchaseWindow time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tracker_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		ReportWebhookURL:   getEnv("REPORT_WEBHOOK_URL", ""),
		ApprovedWebhookURL: getEnv("APPROVED_WEBHOOK_URL", ""),
		RewardWebhookURL:   getEnv("REWARD_WEBHOOK_URL", ""),
		ArchiveWebhookURL:  getEnv("ARCHIVE_WEBHOOK_URL", ""),
		PurchaseWebhookURL: getEnv("PURCHASE_WEBHOOK_URL", ""),

		PurchaseWindow: parseDuration(getEnv("PURCHASE_WINDOW", "60s"), 60*time.Second),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
