// Package igdb is the client of the IGDB v4 metadata API.
package igdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const maxErrorBodyBytes = 512

// Params defines the dependencies of the IGDB client.
type Params struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
	Tokens     service.TokenSource
}

// Client issues apicalypse queries against IGDB. Every request carries the
// Twitch client id and the bearer token from the shared token source.
type Client struct {
	baseURL    string
	clientID   string
	pageSize   int
	timeout    time.Duration
	tokens     service.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// New builds the client from configuration.
func New(params Params) service.MetadataProvider {
	return NewClient(
		params.Config.Upstream.IGDBBaseURL,
		params.Config.Twitch.ClientID,
		params.Config.Upstream.PageSize,
		params.Config.Upstream.Timeout,
		params.Tokens,
		params.HTTPClient,
		params.Logger,
	)
}

func NewClient(baseURL, clientID string, pageSize int, timeout time.Duration, tokens service.TokenSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if pageSize <= 0 {
		pageSize = config.DefaultCatalogPageSize
	}
	if timeout <= 0 {
		timeout = config.DefaultUpstreamTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		pageSize:   pageSize,
		timeout:    timeout,
		tokens:     tokens,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) PageSize() int {
	return c.pageSize
}

// FetchGame requests the full detail record of one game.
func (c *Client) FetchGame(ctx context.Context, id int64) (*service.RawGame, error) {
	var games []service.RawGame
	if err := c.post(ctx, "games", gameByIDQuery(id, gameDetailFields), &games); err != nil {
		return nil, err
	}

	if len(games) == 0 {
		return nil, errors.Wrapf(service.ErrUpstreamRecordNotFound, "game %d", id)
	}

	return &games[0], nil
}

// FetchCatalogPage requests one listing page. Search results are filtered to
// records with a rating signal and ordered by name, since IGDB rejects sort on search.
func (c *Client) FetchCatalogPage(ctx context.Context, q entity.CatalogQuery) ([]service.RawGame, error) {
	var games []service.RawGame
	if err := c.post(ctx, "games", catalogQuery(q, c.pageSize), &games); err != nil {
		return nil, err
	}

	if sanitize(q.Search) == "" {
		return games, nil
	}

	rated := games[:0]
	for _, g := range games {
		if g.HasRatingSignal() {
			rated = append(rated, g)
		}
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(rated, func(i, j int) bool {
		return coll.CompareString(rated[i].Name, rated[j].Name) < 0
	})

	return rated, nil
}

// FetchSuggestions returns autocomplete candidates. An empty term yields no request.
func (c *Client) FetchSuggestions(ctx context.Context, term string) ([]service.RawGame, error) {
	term = sanitize(term)
	if term == "" {
		return []service.RawGame{}, nil
	}

	var games []service.RawGame
	if err := c.post(ctx, "games", suggestionQuery(term), &games); err != nil {
		return nil, err
	}

	return games, nil
}

// FetchFacets lists the values of one facet kind.
func (c *Client) FetchFacets(ctx context.Context, kind entity.FacetKind) ([]service.NamedRef, error) {
	endpoint, ok := facetEndpoints[kind]
	if !ok {
		return nil, errors.Errorf("unknown facet kind %q", kind)
	}

	var refs []service.NamedRef
	if err := c.post(ctx, endpoint, facetQuery(), &refs); err != nil {
		return nil, err
	}

	return refs, nil
}

// FetchGameName returns the display name of a game.
func (c *Client) FetchGameName(ctx context.Context, id int64) (string, error) {
	var games []service.RawGame
	if err := c.post(ctx, "games", gameByIDQuery(id, nameFields), &games); err != nil {
		return "", err
	}

	if len(games) == 0 || games[0].Name == "" {
		return "", errors.Wrapf(service.ErrUpstreamRecordNotFound, "game %d", id)
	}

	return games[0].Name, nil
}

func (c *Client) post(ctx context.Context, endpoint string, q query, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := q.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create IGDB request")
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "IGDB request failed",
			slog.String("endpoint", endpoint),
			slog.Any("error", err),
		)

		return domainerrors.ErrUpstreamUnavailable.WrapMessage("IGDB " + endpoint + ": " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()

		return domainerrors.ErrAuth.WrapMessage("IGDB rejected the access token")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.WarnContext(ctx, "IGDB returned non-success status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)),
		)

		return domainerrors.ErrUpstreamUnavailable.WrapMessage("IGDB " + endpoint + " status " + strconv.Itoa(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domainerrors.ErrUpstreamUnavailable.WrapMessage("failed to decode IGDB " + endpoint + " response: " + err.Error())
	}

	return nil
}
