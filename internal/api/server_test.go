package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/links"
	"github.com/listenupapp/movielens/internal/metadata"
	"github.com/listenupapp/movielens/internal/ratings"
	"github.com/listenupapp/movielens/internal/result"
	"github.com/listenupapp/movielens/internal/tags"
)

const (
	moviesCSV = "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy\n" +
		"2,Jumanji (1995),Adventure|Children|Fantasy\n" +
		"3,Grumpier Old Men (1995),Comedy|Romance\n" +
		"4,Unrated (2001),Drama\n"

	ratingsCSV = "userId,movieId,rating,timestamp\n" +
		"1,1,4.0,964982703\n" +
		"1,3,4.0,964981247\n" +
		"2,1,5.0,1445714835\n" +
		"2,2,3.0,1445714851\n" +
		"3,1,3.0,1306463578\n"

	tagsCSV = "userId,movieId,tag,timestamp\n" +
		"2,1,pixar,1445714994\n" +
		"2,2,fun family movie,1445714996\n" +
		"3,1,Pixar animation,1445715000\n" +
		"3,2,pixar,1445715010\n"

	linksCSV = "movieId,imdbId,tmdbId\n" +
		"1,0114709,862\n" +
		"2,0113497,8844\n" +
		"3,0113228,15602\n"
)

type stubEnricher struct {
	mu      sync.Mutex
	records map[string]metadata.Record
	calls   []string
}

func (s *stubEnricher) Enrich(_ context.Context, key string) metadata.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, key)
	return s.records[key]
}

type testServer struct {
	*Server
	api      humatest.TestAPI
	enricher *stubEnricher
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	movies := write("movies.csv", moviesCSV)
	ratingsPath := write("ratings.csv", ratingsCSV)
	tagsPath := write("tags.csv", tagsCSV)
	linksPath := write("links.csv", linksCSV)

	enricher := &stubEnricher{records: map[string]metadata.Record{
		"0114709": {Director: "John Lasseter", Budget: 30000000, Gross: 394436586, Runtime: 81},
		"0113497": {Director: "Joe Johnston", Budget: 65000000, Gross: 262821940, Runtime: 104},
	}}
	cache := metadata.NewCache(context.Background(),
		metadata.NewFileStore(filepath.Join(dir, "imdb_cache.json")), enricher, nil)

	services := &Services{
		Catalog: catalog.New(catalog.Paths{Movies: movies, Ratings: ratingsPath, Tags: tagsPath}, 1000, nil),
		Tags:    tags.New(tagsPath, 1000, nil),
		Ratings: ratings.New(ratings.Paths{Ratings: ratingsPath, Movies: movies}, 1000, nil),
		Links:   links.New(links.Paths{Links: linksPath, Movies: movies}, 1000, cache, nil),
		Cache:   cache,
	}

	s := NewServer(services, opts, nil)
	t.Cleanup(s.Close)

	return &testServer{Server: s, api: humatest.Wrap(t, s.API()), enricher: enricher}
}

func decodeTable(t *testing.T, body []byte) result.Table {
	t.Helper()
	var table result.Table
	require.NoError(t, json.Unmarshal(body, &table))
	return table
}

func decodeError(t *testing.T, body []byte) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	return apiErr
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))

	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "3 movies", health.Components["catalog"].Message, "movie 4 has no ratings or tags")
	assert.Equal(t, "0 cached records", health.Components["cache"].Message)
}

func TestHealthCheck_Degraded(t *testing.T) {
	s := NewServer(&Services{}, Options{}, nil)
	t.Cleanup(s.Close)
	api := humatest.Wrap(t, s.API())

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"degraded"`)
}

func TestMovieRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name     string
		path     string
		wantKind result.Kind
		wantRows int
		first    []any
	}{
		{name: "listing", path: "/api/v1/movies", wantKind: result.KindNested, wantRows: 3,
			first: []any{"1", "Toy Story (1995)", "Adventure|Animation|Children|Comedy|Fantasy", 1995.0}},
		{name: "years", path: "/api/v1/movies/distribution/years", wantKind: result.KindMapping, wantRows: 1,
			first: []any{1995.0, 3.0}},
		{name: "genres", path: "/api/v1/movies/distribution/genres", wantKind: result.KindMapping, wantRows: 6,
			first: []any{"Adventure", 2.0}},
		{name: "top by genre count", path: "/api/v1/movies/top/genres?n=1", wantKind: result.KindMapping, wantRows: 1,
			first: []any{"Toy Story (1995)", 5.0}},
		{name: "single movie", path: "/api/v1/movies/2", wantKind: result.KindNested, wantRows: 1,
			first: []any{"2", "Jumanji (1995)", "Adventure|Children|Fantasy", 1995.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			table := decodeTable(t, resp.Body.Bytes())
			assert.Equal(t, tt.wantKind, table.Kind)
			require.Len(t, table.Rows, tt.wantRows)
			assert.Equal(t, tt.first, table.Rows[0])
		})
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/movies/4")
	require.Equal(t, http.StatusNotFound, resp.Code)

	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "movie 4 not found", apiErr.Message)
}

func TestTagRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/tags/top/popular?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"pixar", 2.0}}, decodeTable(t, resp.Body.Bytes()).Rows)

	resp = ts.api.Get("/api/v1/tags/top/words?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"fun family movie", 3.0}}, decodeTable(t, resp.Body.Bytes()).Rows)

	resp = ts.api.Get("/api/v1/tags/top/length?n=2")
	require.Equal(t, http.StatusOK, resp.Code)
	table := decodeTable(t, resp.Body.Bytes())
	assert.Equal(t, result.KindSequence, table.Kind)
	assert.Equal(t, [][]any{{"fun family movie"}, {"Pixar animation"}}, table.Rows)

	resp = ts.api.Get("/api/v1/tags/top/intersection?n=2")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeTable(t, resp.Body.Bytes()).Rows, 2)

	resp = ts.api.Get("/api/v1/tags/search?word=PIXAR")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"Pixar animation"}, {"pixar"}}, decodeTable(t, resp.Body.Bytes()).Rows)
}

func TestTagSearch_RequiresWord(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/tags/search")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
}

func TestRatingRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name  string
		path  string
		first []any
		rows  int
	}{
		{name: "movies by count", path: "/api/v1/ratings/movies/top/count?n=1", first: []any{"Toy Story (1995)", 3.0}, rows: 1},
		{name: "movies by mean", path: "/api/v1/ratings/movies/top/metric?n=1", first: []any{"Toy Story (1995)", 4.0}, rows: 1},
		{name: "movies by median", path: "/api/v1/ratings/movies/top/metric?n=3&metric=median", first: []any{"Toy Story (1995)", 4.0}, rows: 3},
		{name: "movies by variance", path: "/api/v1/ratings/movies/top/variance?n=1", first: []any{"Toy Story (1995)", 0.67}, rows: 1},
		{name: "score distribution", path: "/api/v1/ratings/distribution/scores", first: []any{3.0, 2.0}, rows: 3},
		{name: "users by count", path: "/api/v1/ratings/users/top/count?n=2", first: []any{1.0, 2.0}, rows: 2},
		{name: "users by variance", path: "/api/v1/ratings/users/top/variance?n=1", first: []any{2.0, 1.0}, rows: 1},
		{name: "users count distribution", path: "/api/v1/ratings/users/distribution/count", first: []any{1.0, 1.0}, rows: 2},
		{name: "users metric distribution", path: "/api/v1/ratings/users/distribution/metric?metric=mean", first: []any{3.0, 1.0}, rows: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			table := decodeTable(t, resp.Body.Bytes())
			require.Len(t, table.Rows, tt.rows)
			assert.Equal(t, tt.first, table.Rows[0])
		})
	}
}

func TestRatingRoutes_UnknownMetric(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, path := range []string{
		"/api/v1/ratings/movies/top/metric?metric=mode",
		"/api/v1/ratings/users/top/metric?metric=mode",
		"/api/v1/ratings/users/distribution/metric?metric=mode",
	} {
		resp := ts.api.Get(path)
		require.Equal(t, http.StatusBadRequest, resp.Code, path)
		assert.Contains(t, decodeError(t, resp.Body.Bytes()).Message, "unknown metric mode")
	}
}

func TestTopInput_Bounds(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/ratings/users/top/count?n=5000")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Contains(t, apiErr.Message, "n")
}

func TestLinkRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/links/ids?n=2")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"1"}, {"2"}}, decodeTable(t, resp.Body.Bytes()).Rows)

	resp = ts.api.Get("/api/v1/links/top/budget")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeTable(t, resp.Body.Bytes()).Rows, "rankings never fetch")

	resp = ts.api.Get("/api/v1/links/imdb?ids=1,2,3&fields=Director,Runtime")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	table := decodeTable(t, resp.Body.Bytes())
	assert.Equal(t, result.KindRows, table.Kind)
	assert.Equal(t, []string{"Movie ID", "Title", "Director", "Runtime"}, table.Headers)
	assert.Equal(t, [][]any{
		{"3", "Grumpier Old Men (1995)", nil, 0.0},
		{"2", "Jumanji (1995)", "Joe Johnston", 104.0},
		{"1", "Toy Story (1995)", "John Lasseter", 81.0},
	}, table.Rows)

	resp = ts.api.Get("/api/v1/links/top/budget")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"Jumanji (1995)", 65000000.0}, {"Toy Story (1995)", 30000000.0}},
		decodeTable(t, resp.Body.Bytes()).Rows)

	resp = ts.api.Get("/api/v1/links/top/directors?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeTable(t, resp.Body.Bytes()).Rows, 1)

	resp = ts.api.Get("/api/v1/links/top/profit?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"Toy Story (1995)", 364436586.0}}, decodeTable(t, resp.Body.Bytes()).Rows)

	resp = ts.api.Get("/api/v1/links/top/runtime?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"Jumanji (1995)", 104.0}}, decodeTable(t, resp.Body.Bytes()).Rows)

	resp = ts.api.Get("/api/v1/links/top/cost-per-minute?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, [][]any{{"Jumanji (1995)", 625000.0}}, decodeTable(t, resp.Body.Bytes()).Rows)

	// A second request is served from the cache.
	resp = ts.api.Get("/api/v1/links/imdb?ids=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"0114709", "0113497", "0113228"}, ts.enricher.calls)
}

func TestIMDB_DefaultsToFirstLinkedIDs(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/links/imdb?n=2")
	require.Equal(t, http.StatusOK, resp.Code)

	table := decodeTable(t, resp.Body.Bytes())
	assert.Equal(t, []string{"Movie ID", "Title", "Director", "Budget", "Cumulative Worldwide Gross", "Runtime"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2", table.Rows[0][0])
	assert.Equal(t, "1", table.Rows[1][0])
}

func TestIMDB_RateLimited(t *testing.T) {
	ts := setupTestServer(t, Options{EnrichRequestsPerMinute: 1, EnrichBurst: 1})

	resp := ts.api.Get("/api/v1/links/imdb?ids=1")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/links/imdb?ids=1")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", apiErr.Code)
	assert.Equal(t, "too many enrichment requests, try again later", apiErr.Message)

	resp = ts.api.Get("/api/v1/links/top/directors")
	assert.Equal(t, http.StatusOK, resp.Code, "only enrichment is limited")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, Options{})

	ts.api.Get("/api/v1/movies")
	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, "movielens_api_request_duration_seconds")
	assert.Contains(t, body, `route="/api/v1/movies"`)
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Do(http.MethodOptions, "/api/v1/movies",
		"Origin: https://example.com",
		"Access-Control-Request-Method: GET",
	)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestMovieYearDistribution_Documented(t *testing.T) {
	ts := setupTestServer(t, Options{})

	op := ts.api.OpenAPI().Paths["/api/v1/movies/distribution/years"].Get
	require.NotNil(t, op)
	assert.Contains(t, op.Description, "most frequent year first")
}
