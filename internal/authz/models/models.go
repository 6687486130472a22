package models

import "time"

// Coordinates identifies one resolution request: which org/workspace the
// inbound event belongs to and which user sent it. All ids are optional;
// TeamID is empty for org-wide installed apps. Immutable per call.
type Coordinates struct {
	OrgID        string
	TeamID       string
	UserID       string
	IsOrgInstall bool
}

// Installation is one completed authorization grant for a workspace,
// possibly scoped to a specific user. A record may carry only a bot token,
// only a user token, or both. A non-empty refresh token means the matching
// access token is expected to rotate before expiry.
type Installation struct {
	OrgID        string    `json:"org_id,omitempty"`
	TeamID       string    `json:"team_id,omitempty"`
	IsOrgInstall bool      `json:"is_org_install,omitempty"`
	AppID        string    `json:"app_id,omitempty"`
	InstalledAt  time.Time `json:"installed_at"`

	BotID             string    `json:"bot_id,omitempty"`
	BotUserID         string    `json:"bot_user_id,omitempty"`
	BotToken          string    `json:"bot_token,omitempty"`
	BotRefreshToken   string    `json:"bot_refresh_token,omitempty"`
	BotTokenExpiresAt time.Time `json:"bot_token_expires_at,omitzero"`
	BotScopes         []string  `json:"bot_scopes,omitempty"`

	// UserID is the installing user, which may differ from the user on an
	// incoming event.
	UserID             string    `json:"user_id,omitempty"`
	UserToken          string    `json:"user_token,omitempty"`
	UserRefreshToken   string    `json:"user_refresh_token,omitempty"`
	UserTokenExpiresAt time.Time `json:"user_token_expires_at,omitzero"`
	UserScopes         []string  `json:"user_scopes,omitempty"`
}

// ToBot projects the bot-scoped half of the installation.
func (i *Installation) ToBot() *Bot {
	return &Bot{
		OrgID:             i.OrgID,
		TeamID:            i.TeamID,
		IsOrgInstall:      i.IsOrgInstall,
		AppID:             i.AppID,
		InstalledAt:       i.InstalledAt,
		BotID:             i.BotID,
		BotUserID:         i.BotUserID,
		BotToken:          i.BotToken,
		BotRefreshToken:   i.BotRefreshToken,
		BotTokenExpiresAt: i.BotTokenExpiresAt,
		BotScopes:         i.BotScopes,
	}
}

// Bot is the simpler record shape: only the bot-scoped grant for a
// workspace, no per-user data.
type Bot struct {
	OrgID        string    `json:"org_id,omitempty"`
	TeamID       string    `json:"team_id,omitempty"`
	IsOrgInstall bool      `json:"is_org_install,omitempty"`
	AppID        string    `json:"app_id,omitempty"`
	InstalledAt  time.Time `json:"installed_at"`

	BotID             string    `json:"bot_id,omitempty"`
	BotUserID         string    `json:"bot_user_id,omitempty"`
	BotToken          string    `json:"bot_token,omitempty"`
	BotRefreshToken   string    `json:"bot_refresh_token,omitempty"`
	BotTokenExpiresAt time.Time `json:"bot_token_expires_at,omitzero"`
	BotScopes         []string  `json:"bot_scopes,omitempty"`
}

// AuthTestResult is the identity the platform reports for a live token.
type AuthTestResult struct {
	URL          string `json:"url,omitempty"`
	OrgID        string `json:"org_id,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	TeamName     string `json:"team,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	UserName     string `json:"user,omitempty"`
	BotID        string `json:"bot_id,omitempty"`
	IsOrgInstall bool   `json:"is_org_install,omitempty"`
}

// AuthorizeResult is the resolver's output: the verified tokens plus the
// identity the verifier resolved for them. At least one of BotToken and
// UserToken is set whenever a result exists.
type AuthorizeResult struct {
	OrgID    string `json:"org_id,omitempty"`
	TeamID   string `json:"team_id,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	URL      string `json:"url,omitempty"`

	BotID     string `json:"bot_id,omitempty"`
	BotUserID string `json:"bot_user_id,omitempty"`
	BotToken  string `json:"bot_token,omitempty"`

	UserID    string `json:"user_id,omitempty"`
	UserToken string `json:"user_token,omitempty"`
}

// NewAuthorizeResult builds a result from a verification response and the
// separately tracked tokens. When the verified token belongs to a bot, the
// reported user id is the bot's own user id; otherwise it is the acting
// user's id.
func NewAuthorizeResult(authTest *AuthTestResult, botToken, userToken string) *AuthorizeResult {
	result := &AuthorizeResult{
		OrgID:     authTest.OrgID,
		TeamID:    authTest.TeamID,
		TeamName:  authTest.TeamName,
		URL:       authTest.URL,
		BotID:     authTest.BotID,
		BotToken:  botToken,
		UserToken: userToken,
	}
	if authTest.BotID != "" {
		result.BotUserID = authTest.UserID
	} else {
		result.UserID = authTest.UserID
	}
	return result
}
