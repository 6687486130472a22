package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eventgate/internal/authz/models"
	"eventgate/internal/authz/rotation"
	"eventgate/internal/authz/store"
	"eventgate/internal/platform/audit"
	"eventgate/internal/platform/metrics"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/sentinel"
)

// DefaultExpirationMinutes is how close to expiry a token may get before a
// resolve proactively rotates it.
const DefaultExpirationMinutes = 120

const rotationConfigMessage = "an installation store with client_id/client_secret is required for token rotation"

// TokenVerifier confirms a bare token is live and resolves its identity.
// A rejection of the token itself surfaces as sentinel.ErrInvalidAuth.
type TokenVerifier interface {
	AuthTest(ctx context.Context, token string) (*models.AuthTestResult, error)
}

// Service resolves which stored credential may act for the workspace an
// inbound event belongs to. It owns the capability flags and the
// verified-result cache for its own lifetime; the store, verifier, and
// rotator are shared collaborators.
//
// Resolve is safe for concurrent use. Capability flags only ever move from
// "assumed available" to "unavailable", so racing writers agree. Two callers
// racing on the same token may both verify it; they converge on the same
// cached result.
type Service struct {
	store    store.InstallationStore
	verifier TokenVerifier
	rotator  rotation.Rotator

	botOnly           bool
	cacheEnabled      bool
	expirationMinutes int

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   audit.Publisher
	tracer  trace.Tracer

	// Lazily discovered store capabilities. Monotone: once an operation
	// reports sentinel.ErrNotImplemented it is never called again for the
	// lifetime of the service.
	installationUnavailable atomic.Bool
	botUnavailable          atomic.Bool

	mu    sync.RWMutex
	cache map[string]*models.AuthorizeResult
}

type Option func(*Service)

// WithBotOnly restricts resolution to the bot-only path even when the store
// supports full installation lookups.
func WithBotOnly(botOnly bool) Option {
	return func(s *Service) {
		s.botOnly = botOnly
	}
}

// WithCache enables the verified-result cache. Entries are never proactively
// expired; revocation shows up when the token is next used and rejected.
func WithCache(enabled bool) Option {
	return func(s *Service) {
		s.cacheEnabled = enabled
	}
}

// WithRotator configures proactive token rotation. Without one, any record
// carrying a refresh token makes Resolve fail with a configuration error.
func WithRotator(rotator rotation.Rotator) Option {
	return func(s *Service) {
		s.rotator = rotator
	}
}

// WithExpirationMinutes overrides the rotation threshold.
func WithExpirationMinutes(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.expirationMinutes = minutes
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer used for resolve spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditPublisher records every granted decision on the audit trail.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.audit = p
		}
	}
}

// New constructs a resolver service.
func New(installations store.InstallationStore, verifier TokenVerifier, opts ...Option) (*Service, error) {
	if installations == nil {
		return nil, errors.New("installation store is required")
	}
	if verifier == nil {
		return nil, errors.New("token verifier is required")
	}

	s := &Service{
		store:             installations,
		verifier:          verifier,
		expirationMinutes: DefaultExpirationMinutes,
		logger:            slog.Default(),
		audit:             audit.Noop{},
		tracer:            otel.Tracer("eventgate/authz"),
		cache:             make(map[string]*models.AuthorizeResult),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Resolve produces the authorization decision for the given coordinates.
// "No usable credential" is a normal outcome and returns (nil, nil); only
// misconfiguration (rotation required but no rotator) or infrastructure
// failure returns an error.
func (s *Service) Resolve(ctx context.Context, coords models.Coordinates) (*models.AuthorizeResult, error) {
	ctx, span := s.tracer.Start(ctx, "authz.Resolve", trace.WithAttributes(
		attribute.String("org_id", coords.OrgID),
		attribute.String("team_id", coords.TeamID),
	))
	defer span.End()

	var botToken, userToken string

	if !s.botOnly && !s.installationUnavailable.Load() {
		bt, ut, err := s.resolveFromInstallations(ctx, coords)
		switch {
		case errors.Is(err, sentinel.ErrNotImplemented):
			s.installationUnavailable.Store(true)
		case err != nil:
			s.metrics.ObserveResolution(metrics.OutcomeError)
			return nil, err
		default:
			botToken, userToken = bt, ut
		}
	}

	runBotPath := s.botOnly ||
		s.installationUnavailable.Load() ||
		(!s.botUnavailable.Load() && botToken == "" && userToken == "")
	if runBotPath {
		bt, err := s.resolveFromBot(ctx, coords)
		switch {
		case errors.Is(err, sentinel.ErrNotImplemented):
			s.botUnavailable.Store(true)
		case dErrors.HasCode(err, dErrors.CodeConfiguration):
			s.metrics.ObserveResolution(metrics.OutcomeError)
			return nil, err
		case err != nil:
			// Degrade, never escalate: a broken bot lookup means no bot
			// token, not a failed resolve.
			s.logger.InfoContext(ctx, "bot lookup failed",
				"org_id", coords.OrgID, "team_id", coords.TeamID, "error", err)
		case bt != "":
			botToken = bt
		}
	}

	token := botToken
	if token == "" {
		token = userToken
	}
	if token == "" {
		s.logger.DebugContext(ctx, "no installation data found",
			"org_id", coords.OrgID, "team_id", coords.TeamID)
		s.metrics.ObserveResolution(metrics.OutcomeNotFound)
		return nil, nil
	}

	if s.cacheEnabled {
		if cached := s.cachedResult(token); cached != nil {
			s.metrics.ObserveCacheHit()
			s.metrics.ObserveResolution(metrics.OutcomeAuthorized)
			return cached, nil
		}
	}

	authTest, err := s.verifier.AuthTest(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidAuth) {
			// Expected steady state: the stored token was revoked or rotated
			// behind our back.
			s.logger.DebugContext(ctx, "stored token is no longer valid",
				"org_id", coords.OrgID, "team_id", coords.TeamID)
			s.metrics.ObserveResolution(metrics.OutcomeInvalidAuth)
			return nil, nil
		}
		s.metrics.ObserveResolution(metrics.OutcomeError)
		return nil, err
	}

	result := models.NewAuthorizeResult(authTest, botToken, userToken)
	if s.cacheEnabled {
		s.storeResult(token, result)
	}
	s.metrics.ObserveResolution(metrics.OutcomeAuthorized)
	s.emitDecision(ctx, coords, result)
	return result, nil
}

// resolveFromInstallations walks the full-installation path: fetch the
// latest installation for the workspace, apply the installer-mismatch
// discard rule, consult the requesting user's own installation, and rotate
// whatever needs rotating. An ErrNotImplemented from the store bubbles up so
// the caller can downgrade the capability flag.
func (s *Service) resolveFromInstallations(ctx context.Context, coords models.Coordinates) (botToken, userToken string, err error) {
	// The latest installation reflects the most recent installer for the
	// workspace, not necessarily the user on this event.
	latest, err := s.store.FindInstallation(ctx, store.InstallationQuery{
		OrgID:        coords.OrgID,
		TeamID:       coords.TeamID,
		IsOrgInstall: coords.IsOrgInstall,
	})
	if err != nil {
		return "", "", err
	}
	if latest == nil {
		return "", "", nil
	}

	botToken = latest.BotToken
	userToken = latest.UserToken

	var userInstallation *models.Installation
	if latest.UserID != coords.UserID {
		// The installer is a different user, so their user token is not
		// valid for this requester.
		latest.UserToken = ""
		latest.UserScopes = nil
		userToken = ""

		userInstallation, err = s.store.FindInstallation(ctx, store.InstallationQuery{
			OrgID:        coords.OrgID,
			TeamID:       coords.TeamID,
			UserID:       coords.UserID,
			IsOrgInstall: coords.IsOrgInstall,
		})
		if err != nil {
			return "", "", err
		}
		if userInstallation != nil {
			userToken = userInstallation.UserToken
			if latest.BotToken == "" {
				// A bot token on the latest installation is canonical for
				// the workspace and is never overwritten.
				botToken = userInstallation.BotToken
			}

			refreshed, err := s.rotateAndSave(ctx, userInstallation)
			if err != nil {
				return "", "", err
			}
			if refreshed != nil {
				userToken = refreshed.UserToken
				if latest.BotToken == "" {
					botToken = refreshed.BotToken
				}
			}
		}
	}

	refreshed, err := s.rotateAndSave(ctx, latest)
	if err != nil {
		return "", "", err
	}
	if refreshed != nil {
		botToken = refreshed.BotToken
		if userInstallation == nil {
			// Without a user-specific record the latest installation's user
			// token is the one for this requester, so track its rotation.
			userToken = refreshed.UserToken
		}
	}
	return botToken, userToken, nil
}

// resolveFromBot walks the bot-only path.
func (s *Service) resolveFromBot(ctx context.Context, coords models.Coordinates) (string, error) {
	bot, err := s.store.FindBot(ctx, store.BotQuery{
		OrgID:        coords.OrgID,
		TeamID:       coords.TeamID,
		IsOrgInstall: coords.IsOrgInstall,
	})
	if err != nil {
		return "", err
	}
	if bot == nil {
		return "", nil
	}

	botToken := bot.BotToken
	if bot.BotRefreshToken != "" {
		if s.rotator == nil {
			return "", dErrors.New(dErrors.CodeConfiguration, rotationConfigMessage)
		}
		refreshed, err := s.rotator.RotateBot(ctx, bot, s.expirationMinutes)
		if err != nil {
			return "", err
		}
		if refreshed != nil {
			if err := s.store.SaveBot(ctx, refreshed); err != nil {
				return "", err
			}
			s.metrics.ObserveRotation()
			botToken = refreshed.BotToken
		}
	}
	return botToken, nil
}

// rotateAndSave refreshes an installation when it carries a refresh token
// and persists the refreshed record for following requests. Returns nil when
// no rotation was needed.
func (s *Service) rotateAndSave(ctx context.Context, installation *models.Installation) (*models.Installation, error) {
	if installation == nil || (installation.UserRefreshToken == "" && installation.BotRefreshToken == "") {
		return nil, nil
	}
	if s.rotator == nil {
		// Rotation is required but this deployment cannot perform it.
		return nil, dErrors.New(dErrors.CodeConfiguration, rotationConfigMessage)
	}

	refreshed, err := s.rotator.RotateInstallation(ctx, installation, s.expirationMinutes)
	if err != nil {
		return nil, err
	}
	if refreshed != nil {
		if err := s.store.Save(ctx, refreshed); err != nil {
			return nil, err
		}
		s.metrics.ObserveRotation()
	}
	return refreshed, nil
}

func (s *Service) cachedResult(token string) *models.AuthorizeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[token]
}

func (s *Service) storeResult(token string, result *models.AuthorizeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[token] = result
}

func (s *Service) emitDecision(ctx context.Context, coords models.Coordinates, result *models.AuthorizeResult) {
	err := s.audit.Emit(ctx, audit.Event{
		Outcome: metrics.OutcomeAuthorized,
		OrgID:   coords.OrgID,
		TeamID:  coords.TeamID,
		UserID:  coords.UserID,
		BotID:   result.BotID,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "emit audit event failed", "error", err)
	}
}
