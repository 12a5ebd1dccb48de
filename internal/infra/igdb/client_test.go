package igdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	token       string
	err         error
	invalidated atomic.Int32
}

func (s *stubTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

func (s *stubTokens) Invalidate() {
	s.invalidated.Add(1)
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordedRequest struct {
	path string
	body string
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(r recordedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, r)
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]recordedRequest(nil), l.requests...)
}

func newIGDBServer(t *testing.T, status int, payload string) (*httptest.Server, *requestLog) {
	t.Helper()

	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		log.add(recordedRequest{path: r.URL.Path, body: string(body)})

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "client-id", r.Header.Get("Client-ID"))
		assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)

	return srv, log
}

func newTestClient(srv *httptest.Server, tokens service.TokenSource) *Client {
	return NewClient(srv.URL+"/v4", "client-id", 500, time.Second, tokens, srv.Client(), newDiscardLogger())
}

func TestClient_FetchGame(t *testing.T) {
	srv, requests := newIGDBServer(t, http.StatusOK, `[{
		"id": 1942,
		"name": "Deus Ex",
		"summary": "A cyberpunk RPG",
		"total_rating": 87.3,
		"total_rating_count": 120,
		"genres": [{"id": 12, "name": "RPG"}],
		"platforms": [{"id": 6, "name": "PC"}],
		"cover": {"url": "//images.igdb.com/igdb/image/upload/t_thumb/abc.jpg"},
		"first_release_date": 946684800,
		"involved_companies": [{"company": {"id": 1, "name": "Ion Storm"}, "developer": true}]
	}]`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	game, err := client.FetchGame(context.Background(), 1942)
	require.NoError(t, err)

	assert.Equal(t, "Deus Ex", game.Name)
	require.NotNil(t, game.TotalRating)
	assert.InDelta(t, 87.3, *game.TotalRating, 1e-9)
	require.NotNil(t, game.FirstReleaseDate)
	assert.Equal(t, int64(946684800), *game.FirstReleaseDate)
	require.Len(t, game.InvolvedCompanies, 1)
	assert.True(t, game.InvolvedCompanies[0].Developer)

	reqs := requests.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v4/games", reqs[0].path)
	assert.Contains(t, reqs[0].body, "involved_companies.developer; where id = 1942;")
}

func TestClient_FetchGame_EmptyResult(t *testing.T) {
	srv, _ := newIGDBServer(t, http.StatusOK, `[]`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	game, err := client.FetchGame(context.Background(), 1)

	assert.Nil(t, game)
	assert.ErrorIs(t, err, service.ErrUpstreamRecordNotFound)
}

func TestClient_FetchCatalogPage_SearchPostFilterAndOrder(t *testing.T) {
	srv, requests := newIGDBServer(t, http.StatusOK, `[
		{"id": 3, "name": "zelda", "total_rating": 90},
		{"id": 4, "name": "Unrated"},
		{"id": 5, "name": "Mario Kart", "aggregated_rating": 80},
		{"id": 6, "name": "alpha", "total_rating": 0}
	]`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	games, err := client.FetchCatalogPage(context.Background(), entity.CatalogQuery{Page: 1, Search: "mario", Platform: "PC"})
	require.NoError(t, err)

	require.Len(t, games, 2)
	assert.Equal(t, "Mario Kart", games[0].Name)
	assert.Equal(t, "zelda", games[1].Name)
	assert.NotContains(t, requests.all()[0].body, "platforms.name =")
}

func TestClient_FetchCatalogPage_ListingKeepsUpstreamOrder(t *testing.T) {
	srv, _ := newIGDBServer(t, http.StatusOK, `[{"id": 2, "name": "b"}, {"id": 1, "name": "A"}]`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	games, err := client.FetchCatalogPage(context.Background(), entity.CatalogQuery{Page: 1})
	require.NoError(t, err)

	require.Len(t, games, 2)
	assert.Equal(t, int64(2), games[0].ID)
}

func TestClient_FetchSuggestions_EmptyTermSkipsRequest(t *testing.T) {
	srv, requests := newIGDBServer(t, http.StatusOK, `[]`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	games, err := client.FetchSuggestions(context.Background(), `  "" `)

	require.NoError(t, err)
	assert.Empty(t, games)
	assert.Empty(t, requests.all())
}

func TestClient_FetchFacets_UsesKindEndpoint(t *testing.T) {
	srv, requests := newIGDBServer(t, http.StatusOK, `[{"id": 1, "name": "Valve"}]`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	refs, err := client.FetchFacets(context.Background(), entity.FacetKindDeveloper)
	require.NoError(t, err)

	assert.Equal(t, []service.NamedRef{{ID: 1, Name: "Valve"}}, refs)
	assert.Equal(t, "/v4/companies", requests.all()[0].path)

	_, err = client.FetchFacets(context.Background(), entity.FacetKind("studio"))
	assert.Error(t, err)
}

func TestClient_UnauthorizedInvalidatesToken(t *testing.T) {
	srv, _ := newIGDBServer(t, http.StatusUnauthorized, `{"message":"Authorization Failure"}`)
	tokens := &stubTokens{token: "app-token"}
	client := newTestClient(srv, tokens)

	_, err := client.FetchGameName(context.Background(), 1942)

	assert.ErrorIs(t, err, domainerrors.ErrAuth)
	assert.Equal(t, int32(1), tokens.invalidated.Load())
}

func TestClient_ServerErrorIsUpstreamUnavailable(t *testing.T) {
	srv, _ := newIGDBServer(t, http.StatusInternalServerError, `oops`)
	client := newTestClient(srv, &stubTokens{token: "app-token"})

	_, err := client.FetchCatalogPage(context.Background(), entity.CatalogQuery{Page: 1})

	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}

func TestClient_TokenFailureAbortsBeforeRequest(t *testing.T) {
	srv, requests := newIGDBServer(t, http.StatusOK, `[]`)
	client := newTestClient(srv, &stubTokens{err: domainerrors.ErrAuth.WrapMessage("bad secret")})

	_, err := client.FetchGame(context.Background(), 1)

	assert.ErrorIs(t, err, domainerrors.ErrAuth)
	assert.Empty(t, requests.all())
}

func TestClient_TimeoutIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "client-id", 500, 50*time.Millisecond, &stubTokens{token: "app-token"}, srv.Client(), newDiscardLogger())

	_, err := client.FetchGameName(context.Background(), 1)

	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}
