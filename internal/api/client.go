package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventgate/internal/authz/models"
	"eventgate/pkg/platform/sentinel"
)

// DefaultBaseURL is the production Web API endpoint of the workspace
// platform. Override it in tests or for self-hosted deployments.
const DefaultBaseURL = "https://platform.example.com/api/"

// platform error codes that mean "this token is dead", not "the call
// failed". They map to sentinel.ErrInvalidAuth.
var invalidAuthErrors = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"account_inactive": true,
	"token_revoked":    true,
	"token_expired":    true,
}

// Client is a minimal Web API client for the workspace platform. The
// resolver treats it as a black box that can verify a token and exchange a
// refresh token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Web API client with production defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if !strings.HasSuffix(c.baseURL, "/") {
		c.baseURL += "/"
	}
	return c
}

type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// AuthTest verifies a bare token and returns the identity the platform
// resolved for it. A platform-level rejection of the token itself surfaces
// as sentinel.ErrInvalidAuth.
func (c *Client) AuthTest(ctx context.Context, token string) (*models.AuthTestResult, error) {
	var payload struct {
		apiEnvelope
		models.AuthTestResult
	}
	if err := c.postForm(ctx, "auth.test", token, url.Values{}, &payload); err != nil {
		return nil, err
	}
	if !payload.OK {
		if invalidAuthErrors[payload.Error] {
			return nil, fmt.Errorf("auth.test: %s: %w", payload.Error, sentinel.ErrInvalidAuth)
		}
		return nil, fmt.Errorf("auth.test: platform error: %s", payload.Error)
	}
	result := payload.AuthTestResult
	return &result, nil
}

// RefreshRequest authenticates a refresh-token exchange.
type RefreshRequest struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenResponse is the platform's answer to a refresh exchange: a new
// access/refresh pair and the lifetime of the access token in seconds.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshToken exchanges a refresh token for a fresh access/refresh pair.
func (c *Client) RefreshToken(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", req.ClientID)
	form.Set("client_secret", req.ClientSecret)
	form.Set("refresh_token", req.RefreshToken)

	var payload struct {
		apiEnvelope
		TokenResponse
	}
	if err := c.postForm(ctx, "oauth.access", "", form, &payload); err != nil {
		return nil, err
	}
	if !payload.OK {
		if invalidAuthErrors[payload.Error] {
			return nil, fmt.Errorf("oauth.access: %s: %w", payload.Error, sentinel.ErrInvalidAuth)
		}
		return nil, fmt.Errorf("oauth.access: platform error: %s", payload.Error)
	}
	result := payload.TokenResponse
	return &result, nil
}

func (c *Client) postForm(ctx context.Context, method, token string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("platform API returned non-200", "method", method, "status", resp.StatusCode)
		return fmt.Errorf("call %s: status %d: %w", method, resp.StatusCode, sentinel.ErrUnavailable)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
