package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("AI_API_URL", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("APP_VARIANT", "")
	t.Setenv("BODY_LIMIT_MB", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-2.5-pro", cfg.AIModel)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models", cfg.AIAPIURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.SessionLockWait)
	assert.Equal(t, "companion", cfg.AppVariant)
	assert.Equal(t, 25, cfg.BodyLimitMB)
}

func TestLoadOpenAIProviderDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("AI_API_URL", "")
	t.Setenv("AI_MODEL", "")

	cfg := Load()

	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.AIAPIURL)
	assert.Equal(t, "gpt-4o-mini", cfg.AIModel)
}

func TestAIKeyFallsBackToGoogleKey(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg := Load()

	assert.Equal(t, "g-key", cfg.AIAPIKey)
	assert.Equal(t, "g-key", cfg.SpeechAPIKey)
}

func TestDSN(t *testing.T) {
	sqlite := &Config{DBDriver: "sqlite", SQLitePath: "/tmp/app.db"}
	assert.Equal(t, "/tmp/app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqlite.DSN())

	pg := &Config{
		DBDriver: "postgres", DBHost: "db", DBPort: "5432", DBUser: "u",
		DBPassword: "p", DBName: "hd", DBSSLMode: "disable",
	}
	assert.Equal(t, "host=db user=u password=p dbname=hd port=5432 sslmode=disable TimeZone=UTC", pg.DSN())
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 7, parseInt("7", 1))
	assert.Equal(t, 1, parseInt("-3", 1))
	assert.Equal(t, 1, parseInt("x", 1))
	assert.True(t, parseBool("true"))
	assert.False(t, parseBool("maybe"))
}
