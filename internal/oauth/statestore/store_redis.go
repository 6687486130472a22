package statestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis key prefix for issued state ids.
const stateKeyPrefix = "oauth:state:"

// RedisStore issues signed, single-use state values. The state handed to the
// browser is an HS256 JWT carrying a random id; the id is also written to
// redis with a TTL. Consume verifies the signature and expiry offline, then
// deletes the redis key. Validity requires the key to still be there, which
// makes redemption one-time across all instances sharing the redis.
type RedisStore struct {
	client     *redis.Client
	signingKey []byte
	ttl        time.Duration
	logger     *slog.Logger
}

var _ Store = (*RedisStore)(nil)

type RedisOption func(*RedisStore)

// WithRedisTTL overrides the validity window.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(s *RedisStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedis constructs a redis-backed state store.
func NewRedis(client *redis.Client, signingKey string, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:     client,
		signingKey: []byte(signingKey),
		ttl:        DefaultTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	state, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}

	if err := s.client.Set(ctx, stateKeyPrefix+id, "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("persist state: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Consume(ctx context.Context, state string) (bool, error) {
	id, ok := s.verify(state)
	if !ok {
		return false, nil
	}

	deleted, err := s.client.Del(ctx, stateKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("redeem state: %w", err)
	}
	// DEL's return value decides the race: only the caller that removed the
	// key redeemed the state.
	return deleted > 0, nil
}

// verify checks the signature and expiry offline and extracts the state id.
func (s *RedisStore) verify(state string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		s.logger.Debug("state verification failed", "error", err)
		return "", false
	}
	return claims.ID, true
}
