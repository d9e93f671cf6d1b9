package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Sessions
	SessionSecret   string
	SessionTTL      time.Duration
	// SessionLockWait bounds how long a request waits for another request on
	// the same session; it is also the Redis lock expiry.
	SessionLockWait time.Duration
	SessionStore    string
	CookieSecure    bool

	RedisAddr     string
	RedisUsername string
	RedisPassword string

	// AI gateway
	AIProvider string
	AIAPIKey   string
	AIAPIURL   string
	AIModel    string
	AITimeout  time.Duration

	// Hosted speech recognition / synthesis
	SpeechAPIKey  string
	SpeechAPIURL  string
	TTSAPIURL     string
	SpeechTimeout time.Duration

	// File vault
	UploadDir string

	// Variant feature toggles
	AppVariant   string
	FeaturesPath string

	VideoBaseURL string

	// Server
	Port        string
	CORSOrigins string
	BodyLimitMB int
	LogLevel    string
}

func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "healthdesk"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "app_data.db"),

		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionTTL:      parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour),
		SessionLockWait: parseDuration(getEnv("SESSION_LOCK_WAIT", "2m"), 2*time.Minute),
		SessionStore:    strings.ToLower(getEnv("SESSION_STORE", "memory")),
		CookieSecure:    parseBool(getEnv("COOKIE_SECURE", "false")),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AIProvider: strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		AIAPIKey:   getEnv("AI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		AIAPIURL:   getEnv("AI_API_URL", ""),
		AIModel:    getEnv("AI_MODEL", ""),
		AITimeout:  parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		SpeechAPIKey:  getEnv("SPEECH_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		SpeechAPIURL:  getEnv("SPEECH_API_URL", "https://speech.googleapis.com/v1/speech:recognize"),
		TTSAPIURL:     getEnv("TTS_API_URL", "https://texttospeech.googleapis.com/v1/text:synthesize"),
		SpeechTimeout: parseDuration(getEnv("SPEECH_TIMEOUT", "30s"), 30*time.Second),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		AppVariant:   strings.ToLower(getEnv("APP_VARIANT", "companion")),
		FeaturesPath: getEnv("FEATURES_PATH", ""),

		VideoBaseURL: getEnv("VIDEO_BASE_URL", "https://meet.jit.si/"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		BodyLimitMB: parseInt(getEnv("BODY_LIMIT_MB", "25"), 25),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.AIAPIURL == "" {
		cfg.AIAPIURL = defaultAIURL(cfg.AIProvider)
	}
	if cfg.AIModel == "" {
		cfg.AIModel = defaultAIModel(cfg.AIProvider)
	}
	return cfg
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func defaultAIURL(provider string) string {
	if provider == "openai" {
		return "https://api.openai.com/v1/chat/completions"
	}
	return "https://generativelanguage.googleapis.com/v1beta/models"
}

func defaultAIModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.5-pro"
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

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
