package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/movie-catalog-proxy/internal/application/services"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/movie"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/cache"
	movieHttp "github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/repositories"
	"github.com/avatarctic/movie-catalog-proxy/internal/mocks"
)

type failingChecker struct{}

func (failingChecker) Name() string                    { return "redis" }
func (failingChecker) Check(ctx context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T, movies ports.MovieService, checkers ...ports.HealthChecker) *movieHttp.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return movieHttp.NewServer(&movieHttp.ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, movieHttp.ServerDeps{
		MovieService:       movies,
		IdentityService:    services.NewIdentityService(repositories.NewStaticIdentityRepository(nil), logger),
		RateLimiterService: &mocks.RateLimiterServiceMock{},
		HealthCheckers:     checkers,
	})
}

func do(s *movieHttp.Server, method, target, credential string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if credential != "" {
		req.Header.Set("Authorization", credential)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestPopulars_IsPublic(t *testing.T) {
	svc := &mocks.MovieServiceMock{GetPopularMoviesFn: func(ctx context.Context) ([]movie.Movie, error) {
		env, err := movie.DecodeEnvelope([]byte(`{"results":[{"id":550,"title":"Fight Club","vote_average":8.4}]}`))
		require.NoError(t, err)
		return env.Results, nil
	}}
	s := newTestServer(t, svc)

	rec := do(s, http.MethodGet, "/populars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":550,"title":"Fight Club","vote_average":8.4}]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProtectedRoutes_RequireIdentity(t *testing.T) {
	s := newTestServer(t, &mocks.MovieServiceMock{})
	routes := []struct{ method, path string }{
		{http.MethodGet, "/get_favorite_movies"},
		{http.MethodPost, "/add_favorite/1"},
		{http.MethodDelete, "/delete_favorite/1"},
		{http.MethodPost, "/rate_movie/1/3"},
		{http.MethodGet, "/get_rated_movies"},
		{http.MethodGet, "/get_favorite_movies_by_release_date"},
		{http.MethodGet, "/rated_movies_from_favorites"},
		{http.MethodDelete, "/delete_favorite_movies"},
	}
	for _, r := range routes {
		rec := do(s, r.method, r.path, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, r.path)
		assert.Equal(t, "user id is missing", message(t, rec), r.path)

		rec = do(s, r.method, r.path, "abc")
		assert.Equal(t, http.StatusForbidden, rec.Code, r.path)
		assert.Equal(t, "invalid user id format", message(t, rec), r.path)

		rec = do(s, r.method, r.path, "42")
		assert.Equal(t, http.StatusForbidden, rec.Code, r.path)
		assert.Equal(t, "invalid user id", message(t, rec), r.path)
	}
}

func TestDeleteAllFavorites_RequiresAdmin(t *testing.T) {
	called := 0
	svc := &mocks.MovieServiceMock{DeleteAllFavoriteMoviesFn: func(ctx context.Context) (*movie.BulkDeleteSummary, error) {
		called++
		return &movie.BulkDeleteSummary{Status: "success", Message: services.AllFavoritesDeletedMessage}, nil
	}}
	s := newTestServer(t, svc)

	rec := do(s, http.MethodDelete, "/delete_favorite_movies", "2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "permission denied", message(t, rec))
	assert.Zero(t, called)

	rec = do(s, http.MethodDelete, "/delete_favorite_movies", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"All favorite movies have been deleted"}`, rec.Body.String())
	assert.Equal(t, 1, called)
}

func TestRateMovie_RendersOperationError(t *testing.T) {
	s := newTestServer(t, services.NewMovieService(&mocks.MovieGatewayMock{}, nil))

	rec := do(s, http.MethodPost, "/rate_movie/1/6", "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rating must be between 1 and 5", message(t, rec))

	rec = do(s, http.MethodPost, "/rate_movie/1/3.5", "2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status_code":201,"response":null}`, rec.Body.String())
}

func TestPathParams_Validated(t *testing.T) {
	s := newTestServer(t, &mocks.MovieServiceMock{})

	rec := do(s, http.MethodPost, "/add_favorite/abc", "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "media_id")

	for _, target := range []string{"/add_favorite/0", "/add_favorite/-5", "/rate_movie/-1/3"} {
		rec = do(s, http.MethodPost, target, "2")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, message(t, rec), "must be positive", target)
	}
	rec = do(s, http.MethodDelete, "/delete_favorite/0", "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodPost, "/rate_movie/1/high", "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "rating")
}

func TestFavoriteWrites_ForwardMediaID(t *testing.T) {
	var added, deleted int64
	svc := &mocks.MovieServiceMock{
		AddFavoriteMovieFn: func(ctx context.Context, mediaID int64) (*movie.WriteResult, error) {
			added = mediaID
			return &movie.WriteResult{StatusCode: 201, Response: json.RawMessage(`{"success":true}`)}, nil
		},
		DeleteFavoriteMovieFn: func(ctx context.Context, mediaID int64) (*movie.WriteResult, error) {
			deleted = mediaID
			return nil, movie.NewInternalError("failed to delete favorite movie", movie.ErrNoResponse)
		},
	}
	s := newTestServer(t, svc)

	rec := do(s, http.MethodPost, "/add_favorite/550", "2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status_code":201,"response":{"success":true}}`, rec.Body.String())
	assert.Equal(t, int64(550), added)

	rec = do(s, http.MethodDelete, "/delete_favorite/551", "2")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to delete favorite movie", message(t, rec))
	assert.Equal(t, int64(551), deleted)
}

func TestUnknownRouteIs404(t *testing.T) {
	s := newTestServer(t, &mocks.MovieServiceMock{})
	rec := do(s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &mocks.MovieServiceMock{}, cache.NewMemoryCache())
	rec := do(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	s = newTestServer(t, &mocks.MovieServiceMock{}, failingChecker{})
	rec = do(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"unhealthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &mocks.MovieServiceMock{})
	_ = do(s, http.MethodGet, "/populars", "")

	rec := do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}
