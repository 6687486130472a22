package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr     string
	LogLevel string

	// Platform Web API and app credentials. ClientID/ClientSecret enable
	// token rotation; without them any rotatable record is a deploy error.
	APIBaseURL   string
	ClientID     string
	ClientSecret string

	// Resolver behavior.
	BotOnly                        bool
	CacheEnabled                   bool
	TokenRotationExpirationMinutes int

	// Backing services. Empty values select in-memory fallbacks.
	RedisURL    string
	PostgresDSN string

	KafkaBrokers []string
	AuditTopic   string

	StateTTL        time.Duration
	StateSigningKey string
}

// RedisConfig tunes the shared redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	return Server{
		Addr:     envOr("EVENTGATE_ADDR", ":8080"),
		LogLevel: envOr("EVENTGATE_LOG_LEVEL", "info"),

		APIBaseURL:   os.Getenv("EVENTGATE_API_BASE_URL"),
		ClientID:     os.Getenv("EVENTGATE_CLIENT_ID"),
		ClientSecret: os.Getenv("EVENTGATE_CLIENT_SECRET"),

		BotOnly:                        envBool("EVENTGATE_BOT_ONLY"),
		CacheEnabled:                   envBool("EVENTGATE_CACHE_ENABLED"),
		TokenRotationExpirationMinutes: envInt("EVENTGATE_TOKEN_ROTATION_EXPIRATION_MINUTES", 0),

		RedisURL:    os.Getenv("EVENTGATE_REDIS_URL"),
		PostgresDSN: os.Getenv("EVENTGATE_POSTGRES_DSN"),

		KafkaBrokers: envList("EVENTGATE_KAFKA_BROKERS"),
		AuditTopic:   envOr("EVENTGATE_AUDIT_TOPIC", "eventgate.authz.decisions"),

		StateTTL:        time.Duration(envInt("EVENTGATE_STATE_TTL_SECONDS", 600)) * time.Second,
		StateSigningKey: envOr("EVENTGATE_STATE_SIGNING_KEY", "dev-state-key-change-in-production"),
	}
}

// Redis builds the redis client config for the configured URL.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     envInt("EVENTGATE_REDIS_POOL_SIZE", 10),
		MinIdleConns: envInt("EVENTGATE_REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
