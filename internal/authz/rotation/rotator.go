package rotation

import (
	"context"
	"fmt"
	"time"

	"eventgate/internal/api"
	"eventgate/internal/authz/models"
)

// Rotator refreshes expiring credentials. Implementations are side-effect
// free with respect to storage; persisting a refreshed record is the
// caller's job. A nil result with nil error means no rotation was needed.
type Rotator interface {
	RotateInstallation(ctx context.Context, installation *models.Installation, minutesBeforeExpiration int) (*models.Installation, error)
	RotateBot(ctx context.Context, bot *models.Bot, minutesBeforeExpiration int) (*models.Bot, error)
}

// RefreshClient is the one platform call a rotation needs.
type RefreshClient interface {
	RefreshToken(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error)
}

// TokenRotator exchanges refresh tokens through the platform Web API,
// authenticated by the app's client id/secret pair.
type TokenRotator struct {
	client       RefreshClient
	clientID     string
	clientSecret string
	clock        func() time.Time
}

var _ Rotator = (*TokenRotator)(nil)

type Option func(*TokenRotator)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(r *TokenRotator) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// New constructs a rotator. The client id/secret authenticate every refresh
// exchange.
func New(client RefreshClient, clientID, clientSecret string, opts ...Option) *TokenRotator {
	r := &TokenRotator{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		clock:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RotateInstallation refreshes the bot and user sides independently, since
// either refresh token may be absent. Returns nil when neither side was
// within the expiration threshold.
func (r *TokenRotator) RotateInstallation(ctx context.Context, installation *models.Installation, minutesBeforeExpiration int) (*models.Installation, error) {
	refreshed := *installation
	rotated := false

	if installation.BotRefreshToken != "" && r.expiringSoon(installation.BotTokenExpiresAt, minutesBeforeExpiration) {
		resp, err := r.exchange(ctx, installation.BotRefreshToken)
		if err != nil {
			return nil, fmt.Errorf("rotate bot token: %w", err)
		}
		refreshed.BotToken = resp.AccessToken
		refreshed.BotRefreshToken = resp.RefreshToken
		refreshed.BotTokenExpiresAt = r.clock().Add(time.Duration(resp.ExpiresIn) * time.Second)
		rotated = true
	}

	if installation.UserRefreshToken != "" && r.expiringSoon(installation.UserTokenExpiresAt, minutesBeforeExpiration) {
		resp, err := r.exchange(ctx, installation.UserRefreshToken)
		if err != nil {
			return nil, fmt.Errorf("rotate user token: %w", err)
		}
		refreshed.UserToken = resp.AccessToken
		refreshed.UserRefreshToken = resp.RefreshToken
		refreshed.UserTokenExpiresAt = r.clock().Add(time.Duration(resp.ExpiresIn) * time.Second)
		rotated = true
	}

	if !rotated {
		return nil, nil
	}
	return &refreshed, nil
}

// RotateBot refreshes a bot-only record. Returns nil when the token is not
// within the expiration threshold or carries no refresh token.
func (r *TokenRotator) RotateBot(ctx context.Context, bot *models.Bot, minutesBeforeExpiration int) (*models.Bot, error) {
	if bot.BotRefreshToken == "" || !r.expiringSoon(bot.BotTokenExpiresAt, minutesBeforeExpiration) {
		return nil, nil
	}

	resp, err := r.exchange(ctx, bot.BotRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("rotate bot token: %w", err)
	}
	refreshed := *bot
	refreshed.BotToken = resp.AccessToken
	refreshed.BotRefreshToken = resp.RefreshToken
	refreshed.BotTokenExpiresAt = r.clock().Add(time.Duration(resp.ExpiresIn) * time.Second)
	return &refreshed, nil
}

func (r *TokenRotator) exchange(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	return r.client.RefreshToken(ctx, api.RefreshRequest{
		ClientID:     r.clientID,
		ClientSecret: r.clientSecret,
		RefreshToken: refreshToken,
	})
}

// expiringSoon reports whether the remaining lifetime is below the
// threshold. A zero expiry on a rotatable token counts as expiring; the
// store never learned the lifetime, so assume the worst.
func (r *TokenRotator) expiringSoon(expiresAt time.Time, minutesBeforeExpiration int) bool {
	if expiresAt.IsZero() {
		return true
	}
	return r.clock().Add(time.Duration(minutesBeforeExpiration) * time.Minute).After(expiresAt)
}
