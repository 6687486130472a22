//go:build integration

package statestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"eventgate/internal/oauth/statestore"
	"eventgate/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *statestore.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = statestore.NewRedis(s.redis.Client, "integration-signing-key")
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestIssueAndConsume() {
	ctx := context.Background()
	state, err := s.store.Issue(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(state)

	valid, err := s.store.Consume(ctx, state)
	s.Require().NoError(err)
	assert.True(s.T(), valid)
}

func (s *RedisStoreSuite) TestConsumeIsOneTime() {
	ctx := context.Background()
	state, err := s.store.Issue(ctx)
	s.Require().NoError(err)

	first, err := s.store.Consume(ctx, state)
	s.Require().NoError(err)
	require.True(s.T(), first)

	second, err := s.store.Consume(ctx, state)
	s.Require().NoError(err)
	assert.False(s.T(), second)
}

func (s *RedisStoreSuite) TestForgedStateRejected() {
	ctx := context.Background()
	forger := statestore.NewRedis(s.redis.Client, "some-other-key")
	state, err := forger.Issue(ctx)
	s.Require().NoError(err)

	valid, err := s.store.Consume(ctx, state)
	s.Require().NoError(err)
	assert.False(s.T(), valid)
}
