package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/authz/models"
	"eventgate/internal/authz/store"
)

var installationColumns = []string{
	"org_id", "team_id", "is_org_install", "app_id",
	"bot_id", "bot_user_id", "bot_token", "bot_refresh_token", "bot_token_expires_at", "bot_scopes",
	"user_id", "user_token", "user_refresh_token", "user_token_expires_at", "user_scopes",
	"installed_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return New(db, WithClock(func() time.Time { return fixed })), mock
}

func TestFindInstallation_Found(t *testing.T) {
	s, mock := newMockStore(t)
	installedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(findInstallationQuery)).
		WithArgs("", "T001", "").
		WillReturnRows(sqlmock.NewRows(installationColumns).AddRow(
			"", "T001", false, "A001",
			"B001", "W_bot", "xoxb-1", "xoxe-refresh", expires, []byte("{commands,chat:write}"),
			"U1", "xoxp-1", "", nil, []byte("{}"),
			installedAt,
		))

	found, err := s.FindInstallation(context.Background(), store.InstallationQuery{TeamID: "T001"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "xoxb-1", found.BotToken)
	assert.Equal(t, []string{"commands", "chat:write"}, found.BotScopes)
	assert.Equal(t, expires, found.BotTokenExpiresAt.UTC())
	assert.True(t, found.UserTokenExpiresAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInstallation_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(findInstallationQuery)).
		WithArgs("", "T001", "U9").
		WillReturnRows(sqlmock.NewRows(installationColumns))

	found, err := s.FindInstallation(context.Background(), store.InstallationQuery{TeamID: "T001", UserID: "U9"})
	require.NoError(t, err)
	assert.Nil(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInstallation_OrgInstallDropsTeam(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(findInstallationQuery)).
		WithArgs("E001", "", "").
		WillReturnRows(sqlmock.NewRows(installationColumns))

	_, err := s.FindInstallation(context.Background(), store.InstallationQuery{
		OrgID:        "E001",
		TeamID:       "T001",
		IsOrgInstall: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertsInstallationAndBotRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(insertInstallationQuery)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertBotQuery)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Save(context.Background(), &models.Installation{
		TeamID:    "T001",
		UserID:    "U1",
		BotToken:  "xoxb-1",
		BotScopes: []string{"commands"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UserOnlyInstallationSkipsBotRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(insertInstallationQuery)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Save(context.Background(), &models.Installation{
		TeamID:    "T001",
		UserID:    "U1",
		UserToken: "xoxp-1",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBot_Found(t *testing.T) {
	s, mock := newMockStore(t)
	botColumns := []string{
		"org_id", "team_id", "is_org_install", "app_id",
		"bot_id", "bot_user_id", "bot_token", "bot_refresh_token", "bot_token_expires_at", "bot_scopes",
		"installed_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta(findBotQuery)).
		WithArgs("", "T001").
		WillReturnRows(sqlmock.NewRows(botColumns).AddRow(
			"", "T001", false, "A001",
			"B001", "W_bot", "xoxb-1", "", nil, []byte("{}"),
			time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		))

	bot, err := s.FindBot(context.Background(), store.BotQuery{TeamID: "T001"})
	require.NoError(t, err)
	require.NotNil(t, bot)
	assert.Equal(t, "xoxb-1", bot.BotToken)
	assert.True(t, bot.BotTokenExpiresAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
