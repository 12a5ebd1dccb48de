// Package helix reads live stream activity from the Twitch Helix API.
package helix

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/service"

	"go.uber.org/fx"
)

// Params defines the dependencies of the Helix client.
type Params struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
	Tokens     service.TokenSource
}

type streamsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		ViewerCount int    `json:"viewer_count"`
	} `json:"data"`
}

type client struct {
	baseURL    string
	clientID   string
	limit      int
	timeout    time.Duration
	tokens     service.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// New builds the Helix client from configuration.
func New(params Params) service.LiveActivityProvider {
	return NewClient(
		params.Config.Upstream.HelixBaseURL,
		params.Config.Twitch.ClientID,
		params.Config.Upstream.StreamsLimit,
		params.Config.Upstream.Timeout,
		params.Tokens,
		params.HTTPClient,
		params.Logger,
	)
}

// NewClient returns a LiveActivityProvider requesting at most limit streams per game.
func NewClient(baseURL, clientID string, limit int, timeout time.Duration, tokens service.TokenSource, httpClient *http.Client, logger *slog.Logger) service.LiveActivityProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = config.DefaultUpstreamTimeout
	}

	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		limit:      limit,
		timeout:    timeout,
		tokens:     tokens,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchStreams lists the live streams currently broadcasting gameID.
func (c *client) FetchStreams(ctx context.Context, gameID int64) ([]entity.Stream, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("game_id", strconv.FormatInt(gameID, 10))
	if c.limit > 0 {
		params.Set("first", strconv.Itoa(c.limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/streams?"+params.Encode(), nil)
	if err != nil {
		return nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("failed to create Helix request: " + err.Error())
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Helix request failed", slog.Int64("gameID", gameID), slog.Any("error", err))

		return nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("Helix streams: " + err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.tokens.Invalidate()

		return nil, domainerrors.ErrAuth.WrapMessage("Helix rejected the access token")
	case resp.StatusCode != http.StatusOK:
		return nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("Helix streams status " + strconv.Itoa(resp.StatusCode))
	}

	var body streamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("failed to decode Helix response: " + err.Error())
	}

	streams := make([]entity.Stream, 0, len(body.Data))
	for _, s := range body.Data {
		streams = append(streams, entity.Stream{Title: s.Title, ViewerCount: s.ViewerCount})
	}

	return streams, nil
}
