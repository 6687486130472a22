package memory

import (
	"context"
	"sync"

	"eventgate/internal/authz/models"
	"eventgate/internal/authz/store"
)

// Store keeps installation and bot records in memory for tests/dev.
// Installations are kept in save order per workspace so "latest" lookups are
// a reverse scan.
type Store struct {
	mu            sync.RWMutex
	installations map[string][]*models.Installation
	bots          map[string]*models.Bot
}

var _ store.InstallationStore = (*Store)(nil)

// New constructs an empty in-memory installation store.
func New() *Store {
	return &Store{
		installations: make(map[string][]*models.Installation),
		bots:          make(map[string]*models.Bot),
	}
}

// workspaceKey flattens org/team coordinates into one map key. Org-wide
// installs are keyed by org alone; the team dimension does not apply.
func workspaceKey(orgID, teamID string, isOrgInstall bool) string {
	if isOrgInstall {
		teamID = ""
	}
	return orgID + "/" + teamID
}

func (s *Store) FindInstallation(_ context.Context, q store.InstallationQuery) (*models.Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.installations[workspaceKey(q.OrgID, q.TeamID, q.IsOrgInstall)]
	for i := len(records) - 1; i >= 0; i-- {
		if q.UserID != "" && records[i].UserID != q.UserID {
			continue
		}
		copied := *records[i]
		return &copied, nil
	}
	return nil, nil
}

func (s *Store) FindBot(_ context.Context, q store.BotQuery) (*models.Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if bot, ok := s.bots[workspaceKey(q.OrgID, q.TeamID, q.IsOrgInstall)]; ok {
		copied := *bot
		return &copied, nil
	}
	return nil, nil
}

func (s *Store) Save(_ context.Context, installation *models.Installation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := workspaceKey(installation.OrgID, installation.TeamID, installation.IsOrgInstall)
	copied := *installation
	s.installations[key] = append(s.installations[key], &copied)
	if installation.BotToken != "" {
		s.bots[key] = installation.ToBot()
	}
	return nil
}

func (s *Store) SaveBot(_ context.Context, bot *models.Bot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *bot
	s.bots[workspaceKey(bot.OrgID, bot.TeamID, bot.IsOrgInstall)] = &copied
	return nil
}
