package statestore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps issued state values in memory for tests/dev.
type MemoryStore struct {
	mu     sync.Mutex
	issued map[string]time.Time
	ttl    time.Duration
	clock  func() time.Time
}

var _ Store = (*MemoryStore)(nil)

type MemoryOption func(*MemoryStore)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(clock func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMemoryTTL overrides the validity window.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewMemory constructs an empty in-memory state store.
func NewMemory(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		issued: make(map[string]time.Time),
		ttl:    DefaultTTL,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) Issue(_ context.Context) (string, error) {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[state] = s.clock()
	return state, nil
}

func (s *MemoryStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issuedAt, ok := s.issued[state]
	if !ok {
		return false, nil
	}
	delete(s.issued, state)
	return s.clock().Before(issuedAt.Add(s.ttl)), nil
}
