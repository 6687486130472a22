package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.BotOnly)
	assert.Zero(t, cfg.TokenRotationExpirationMinutes)
	assert.Equal(t, 10*time.Minute, cfg.StateTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EVENTGATE_ADDR", ":9090")
	t.Setenv("EVENTGATE_BOT_ONLY", "true")
	t.Setenv("EVENTGATE_TOKEN_ROTATION_EXPIRATION_MINUTES", "30")
	t.Setenv("EVENTGATE_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.BotOnly)
	assert.Equal(t, 30, cfg.TokenRotationExpirationMinutes)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
}

func TestRedis_CarriesURLAndPoolSettings(t *testing.T) {
	t.Setenv("EVENTGATE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EVENTGATE_REDIS_POOL_SIZE", "25")

	rc := FromEnv().Redis()

	assert.Equal(t, "redis://localhost:6379/0", rc.URL)
	assert.Equal(t, 25, rc.PoolSize)
	assert.Equal(t, 2, rc.MinIdleConns)
	assert.Equal(t, 5*time.Second, rc.DialTimeout)
}
