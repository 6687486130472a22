package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"eventgate/internal/authz/models"
	"eventgate/internal/authz/store"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
}

func (s *StoreSuite) TestFindInstallation_Empty() {
	found, err := s.store.FindInstallation(context.Background(), store.InstallationQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), found)
}

func (s *StoreSuite) TestSaveAndFindLatest() {
	ctx := context.Background()
	first := &models.Installation{TeamID: "T001", UserID: "U1", BotToken: "xoxb-1", InstalledAt: time.Now()}
	second := &models.Installation{TeamID: "T001", UserID: "U2", BotToken: "xoxb-2", InstalledAt: time.Now()}
	require.NoError(s.T(), s.store.Save(ctx, first))
	require.NoError(s.T(), s.store.Save(ctx, second))

	latest, err := s.store.FindInstallation(ctx, store.InstallationQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), latest)
	assert.Equal(s.T(), "xoxb-2", latest.BotToken)
	assert.Equal(s.T(), "U2", latest.UserID)
}

func (s *StoreSuite) TestFindInstallation_ByUser() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{TeamID: "T001", UserID: "U1", UserToken: "xoxp-u1"}))
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{TeamID: "T001", UserID: "U2", UserToken: "xoxp-u2"}))

	found, err := s.store.FindInstallation(ctx, store.InstallationQuery{TeamID: "T001", UserID: "U1"})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), "xoxp-u1", found.UserToken)

	missing, err := s.store.FindInstallation(ctx, store.InstallationQuery{TeamID: "T001", UserID: "U3"})
	require.NoError(s.T(), err)
	assert.Nil(s.T(), missing)
}

func (s *StoreSuite) TestSaveDerivesBotRecord() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{
		TeamID:   "T001",
		UserID:   "U1",
		BotToken: "xoxb-1",
		BotID:    "B001",
	}))

	bot, err := s.store.FindBot(ctx, store.BotQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), bot)
	assert.Equal(s.T(), "xoxb-1", bot.BotToken)
	assert.Equal(s.T(), "B001", bot.BotID)
}

func (s *StoreSuite) TestSaveWithoutBotTokenLeavesBotRecord() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{TeamID: "T001", UserID: "U1", BotToken: "xoxb-1"}))
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{TeamID: "T001", UserID: "U2", UserToken: "xoxp-u2"}))

	bot, err := s.store.FindBot(ctx, store.BotQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), bot)
	assert.Equal(s.T(), "xoxb-1", bot.BotToken)
}

func (s *StoreSuite) TestSaveBot() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.SaveBot(ctx, &models.Bot{TeamID: "T001", BotToken: "xoxb-1"}))
	require.NoError(s.T(), s.store.SaveBot(ctx, &models.Bot{TeamID: "T001", BotToken: "xoxb-2"}))

	bot, err := s.store.FindBot(ctx, store.BotQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), bot)
	assert.Equal(s.T(), "xoxb-2", bot.BotToken)
}

func (s *StoreSuite) TestOrgInstallIgnoresTeamDimension() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{
		OrgID:        "E001",
		IsOrgInstall: true,
		UserID:       "U1",
		BotToken:     "xoxb-org",
	}))

	found, err := s.store.FindInstallation(ctx, store.InstallationQuery{
		OrgID:        "E001",
		TeamID:       "T-any",
		IsOrgInstall: true,
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), "xoxb-org", found.BotToken)
}

func (s *StoreSuite) TestFindReturnsCopy() {
	ctx := context.Background()
	require.NoError(s.T(), s.store.Save(ctx, &models.Installation{TeamID: "T001", UserID: "U1", UserToken: "xoxp-1"}))

	found, err := s.store.FindInstallation(ctx, store.InstallationQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	found.UserToken = ""

	again, err := s.store.FindInstallation(ctx, store.InstallationQuery{TeamID: "T001"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "xoxp-1", again.UserToken)
}
