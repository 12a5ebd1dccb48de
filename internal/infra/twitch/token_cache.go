// Package twitch manages the application access token shared by the IGDB and Helix clients.
package twitch

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gamecatalog/config"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/service"

	"go.uber.org/fx"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "app-token"

// Params defines the dependencies of the token cache.
type Params struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// TokenCache keeps one client-credentials token in memory and refreshes it
// shortly before it expires. Concurrent refreshes share a single request.
type TokenCache struct {
	credentials *clientcredentials.Config
	httpClient  *http.Client
	grace       time.Duration
	timeout     time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu     sync.RWMutex
	token  string
	expiry time.Time

	group singleflight.Group
}

// New builds the token cache from configuration.
func New(params Params) service.TokenSource {
	return NewTokenCache(
		params.Config.Twitch.ClientID,
		params.Config.Twitch.ClientSecret,
		params.Config.Twitch.TokenURL,
		params.Config.Twitch.ExpiryGrace,
		params.Config.Upstream.Timeout,
		params.HTTPClient,
		params.Logger,
	)
}

// NewTokenCache creates an empty cache. A token is considered expired grace before its real expiry.
func NewTokenCache(clientID, clientSecret, tokenURL string, grace, timeout time.Duration, httpClient *http.Client, logger *slog.Logger) *TokenCache {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = config.DefaultUpstreamTimeout
	}

	return &TokenCache{
		credentials: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
		grace:      grace,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns the cached token, requesting a new one when the slot is empty or expired.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	v, err, _ := c.group.Do(refreshKey, func() (any, error) {
		// Another caller may have refreshed while we waited for the group.
		if token, ok := c.cached(); ok {
			return token, nil
		}

		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Invalidate empties the slot.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiry = time.Time{}
}

func (c *TokenCache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == "" || !c.now().Before(c.expiry) {
		return "", false
	}

	return c.token, true
}

func (c *TokenCache) refresh(ctx context.Context) (string, error) {
	// The request is shared by every waiting caller, so it must outlive the first caller's cancellation.
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	reqCtx = context.WithValue(reqCtx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.credentials.Token(reqCtx)
	if err != nil {
		c.logger.WarnContext(ctx, "Twitch token request failed", slog.Any("error", err))

		return "", domainerrors.ErrAuth.WrapMessage("client credentials request failed: " + err.Error())
	}
	if tok.AccessToken == "" {
		return "", domainerrors.ErrAuth.WrapMessage("identity endpoint returned an empty token")
	}

	issuedAt := c.now()
	expiry := issuedAt
	if !tok.Expiry.IsZero() {
		expiry = issuedAt.Add(time.Until(tok.Expiry)).Add(-c.grace)
	}

	c.mu.Lock()
	c.token = tok.AccessToken
	c.expiry = expiry
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "Twitch token refreshed", slog.Time("usableUntil", expiry))

	return tok.AccessToken, nil
}
