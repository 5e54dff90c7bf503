package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type Tiktok struct {
	APIBaseURL string
	// Unaudited restricts publishing to private posts until the app passes platform review.
	Unaudited bool
}

type Publish struct {
	PollInterval    time.Duration
	PollMaxInterval time.Duration
	PollMaxAttempts int
	PollTimeout     time.Duration
	ChunkSize       int64
}

type Config struct {
	Port                 string
	AuthAPIURL           string
	AuthAPIKey           string
	AllowedConnections   string
	PostgresURI          string
	RedisURI             string
	FrontendURL          string
	SecretKey            string
	CookieName           string
	SessionTTL           time.Duration
	HistoryRetentionDays int
	Tiktok               Tiktok
	Publish              Publish
	R2                   R2
}

func LoadConfig() *Config {
	return &Config{
		Port:                 getEnv("PORT", "3000"),
		AuthAPIURL:           getEnv("AUTH_API_URL", "http://localhost:4000"),
		AuthAPIKey:           getEnv("AUTH_API_KEY", ""),
		AllowedConnections:   getEnv("ALLOWED_CONNECTIONS", "tiktok"),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:            getEnv("SECRET_KEY", ""),
		CookieName:           getEnv("COOKIE_NAME", ""),
		SessionTTL:           getEnvDuration("PUBLISH_SESSION_TTL", 24*time.Hour),
		HistoryRetentionDays: getEnvInt("HISTORY_RETENTION_DAYS", 90),
		Tiktok: Tiktok{
			APIBaseURL: getEnv("TIKTOK_API_BASE_URL", "https://open.tiktokapis.com"),
			Unaudited:  getEnvBool("TIKTOK_CLIENT_UNAUDITED", true),
		},
		Publish: Publish{
			PollInterval:    getEnvDuration("PUBLISH_POLL_INTERVAL", time.Second),
			PollMaxInterval: getEnvDuration("PUBLISH_POLL_MAX_INTERVAL", 10*time.Second),
			PollMaxAttempts: getEnvInt("PUBLISH_POLL_MAX_ATTEMPTS", 120),
			PollTimeout:     getEnvDuration("PUBLISH_POLL_TIMEOUT", 10*time.Minute),
			ChunkSize:       int64(getEnvInt("PUBLISH_CHUNK_SIZE", 0)),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
