package store

import (
	"context"

	"eventgate/internal/authz/models"
)

// InstallationQuery narrows an installation lookup. An empty UserID asks for
// the latest installation for the workspace regardless of who installed it.
type InstallationQuery struct {
	OrgID        string
	TeamID       string
	UserID       string
	IsOrgInstall bool
}

// BotQuery narrows a bot lookup. Bot records are workspace-wide, so there is
// no user dimension.
type BotQuery struct {
	OrgID        string
	TeamID       string
	IsOrgInstall bool
}

// Error Contract:
// All store methods follow this pattern:
// - Return (nil, nil) when no record matches; absence is data, not an error
// - Return sentinel.ErrNotImplemented (optionally wrapped) when the store
//   does not support the operation at all; resolvers memoize this and never
//   call the operation again
// - Return wrapped errors with context for infrastructure failures
//
// InstallationStore persists installation and bot records. FindInstallation
// and FindBot are each independently optional; a store that only keeps bot
// records implements FindBot and returns ErrNotImplemented from the rest.
type InstallationStore interface {
	FindInstallation(ctx context.Context, q InstallationQuery) (*models.Installation, error)
	FindBot(ctx context.Context, q BotQuery) (*models.Bot, error)
	Save(ctx context.Context, installation *models.Installation) error
	SaveBot(ctx context.Context, bot *models.Bot) error
}
