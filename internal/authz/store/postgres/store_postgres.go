package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventgate/internal/authz/models"
	"eventgate/internal/authz/store"
)

// Store persists installation and bot records in PostgreSQL. Records are
// append-only; "latest" lookups take the most recently inserted row, so the
// grant history stays queryable.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

var _ store.InstallationStore = (*Store)(nil)

type Option func(*Store)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a PostgreSQL-backed installation store.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

const schema = `
CREATE TABLE IF NOT EXISTS installations (
	id BIGSERIAL PRIMARY KEY,
	org_id TEXT NOT NULL DEFAULT '',
	team_id TEXT NOT NULL DEFAULT '',
	is_org_install BOOLEAN NOT NULL DEFAULT FALSE,
	app_id TEXT NOT NULL DEFAULT '',
	bot_id TEXT NOT NULL DEFAULT '',
	bot_user_id TEXT NOT NULL DEFAULT '',
	bot_token TEXT NOT NULL DEFAULT '',
	bot_refresh_token TEXT NOT NULL DEFAULT '',
	bot_token_expires_at TIMESTAMPTZ,
	bot_scopes TEXT[] NOT NULL DEFAULT '{}',
	user_id TEXT NOT NULL DEFAULT '',
	user_token TEXT NOT NULL DEFAULT '',
	user_refresh_token TEXT NOT NULL DEFAULT '',
	user_token_expires_at TIMESTAMPTZ,
	user_scopes TEXT[] NOT NULL DEFAULT '{}',
	installed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS installations_workspace_idx ON installations (org_id, team_id, id DESC);

CREATE TABLE IF NOT EXISTS bots (
	id BIGSERIAL PRIMARY KEY,
	org_id TEXT NOT NULL DEFAULT '',
	team_id TEXT NOT NULL DEFAULT '',
	is_org_install BOOLEAN NOT NULL DEFAULT FALSE,
	app_id TEXT NOT NULL DEFAULT '',
	bot_id TEXT NOT NULL DEFAULT '',
	bot_user_id TEXT NOT NULL DEFAULT '',
	bot_token TEXT NOT NULL DEFAULT '',
	bot_refresh_token TEXT NOT NULL DEFAULT '',
	bot_token_expires_at TIMESTAMPTZ,
	bot_scopes TEXT[] NOT NULL DEFAULT '{}',
	installed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS bots_workspace_idx ON bots (org_id, team_id, id DESC);
`

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure installations schema: %w", err)
	}
	return nil
}

const findInstallationQuery = `
SELECT org_id, team_id, is_org_install, app_id,
	bot_id, bot_user_id, bot_token, bot_refresh_token, bot_token_expires_at, bot_scopes,
	user_id, user_token, user_refresh_token, user_token_expires_at, user_scopes,
	installed_at
FROM installations
WHERE org_id = $1 AND team_id = $2 AND ($3 = '' OR user_id = $3)
ORDER BY id DESC
LIMIT 1`

func (s *Store) FindInstallation(ctx context.Context, q store.InstallationQuery) (*models.Installation, error) {
	teamID := q.TeamID
	if q.IsOrgInstall {
		teamID = ""
	}

	var (
		installation models.Installation
		botExpires   sql.NullTime
		userExpires  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, findInstallationQuery, q.OrgID, teamID, q.UserID).Scan(
		&installation.OrgID, &installation.TeamID, &installation.IsOrgInstall, &installation.AppID,
		&installation.BotID, &installation.BotUserID, &installation.BotToken, &installation.BotRefreshToken,
		&botExpires, pq.Array(&installation.BotScopes),
		&installation.UserID, &installation.UserToken, &installation.UserRefreshToken,
		&userExpires, pq.Array(&installation.UserScopes),
		&installation.InstalledAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find installation: %w", err)
	}
	if botExpires.Valid {
		installation.BotTokenExpiresAt = botExpires.Time
	}
	if userExpires.Valid {
		installation.UserTokenExpiresAt = userExpires.Time
	}
	return &installation, nil
}

const findBotQuery = `
SELECT org_id, team_id, is_org_install, app_id,
	bot_id, bot_user_id, bot_token, bot_refresh_token, bot_token_expires_at, bot_scopes,
	installed_at
FROM bots
WHERE org_id = $1 AND team_id = $2
ORDER BY id DESC
LIMIT 1`

func (s *Store) FindBot(ctx context.Context, q store.BotQuery) (*models.Bot, error) {
	teamID := q.TeamID
	if q.IsOrgInstall {
		teamID = ""
	}

	var (
		bot     models.Bot
		expires sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, findBotQuery, q.OrgID, teamID).Scan(
		&bot.OrgID, &bot.TeamID, &bot.IsOrgInstall, &bot.AppID,
		&bot.BotID, &bot.BotUserID, &bot.BotToken, &bot.BotRefreshToken,
		&expires, pq.Array(&bot.BotScopes),
		&bot.InstalledAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find bot: %w", err)
	}
	if expires.Valid {
		bot.BotTokenExpiresAt = expires.Time
	}
	return &bot, nil
}

const insertInstallationQuery = `
INSERT INTO installations (
	org_id, team_id, is_org_install, app_id,
	bot_id, bot_user_id, bot_token, bot_refresh_token, bot_token_expires_at, bot_scopes,
	user_id, user_token, user_refresh_token, user_token_expires_at, user_scopes,
	installed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

func (s *Store) Save(ctx context.Context, installation *models.Installation) error {
	teamID := installation.TeamID
	if installation.IsOrgInstall {
		teamID = ""
	}
	installedAt := installation.InstalledAt
	if installedAt.IsZero() {
		installedAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, insertInstallationQuery,
		installation.OrgID, teamID, installation.IsOrgInstall, installation.AppID,
		installation.BotID, installation.BotUserID, installation.BotToken, installation.BotRefreshToken,
		nullTime(installation.BotTokenExpiresAt), pq.Array(scopesOrEmpty(installation.BotScopes)),
		installation.UserID, installation.UserToken, installation.UserRefreshToken,
		nullTime(installation.UserTokenExpiresAt), pq.Array(scopesOrEmpty(installation.UserScopes)),
		installedAt,
	)
	if err != nil {
		return fmt.Errorf("save installation: %w", err)
	}

	if installation.BotToken != "" {
		return s.SaveBot(ctx, installation.ToBot())
	}
	return nil
}

const insertBotQuery = `
INSERT INTO bots (
	org_id, team_id, is_org_install, app_id,
	bot_id, bot_user_id, bot_token, bot_refresh_token, bot_token_expires_at, bot_scopes,
	installed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (s *Store) SaveBot(ctx context.Context, bot *models.Bot) error {
	teamID := bot.TeamID
	if bot.IsOrgInstall {
		teamID = ""
	}
	installedAt := bot.InstalledAt
	if installedAt.IsZero() {
		installedAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, insertBotQuery,
		bot.OrgID, teamID, bot.IsOrgInstall, bot.AppID,
		bot.BotID, bot.BotUserID, bot.BotToken, bot.BotRefreshToken,
		nullTime(bot.BotTokenExpiresAt), pq.Array(scopesOrEmpty(bot.BotScopes)),
		installedAt,
	)
	if err != nil {
		return fmt.Errorf("save bot: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func scopesOrEmpty(scopes []string) []string {
	if scopes == nil {
		return []string{}
	}
	return scopes
}
