package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/movie-catalog-proxy/internal/application/services"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/movie-catalog-proxy/internal/mocks"
)

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func requireHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	require.Error(t, err)
	htErr, isHTTP := err.(*echo.HTTPError)
	require.True(t, isHTTP, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, htErr.Code)
	if message != "" {
		require.Equal(t, message, htErr.Message)
	}
}

func TestIdentityMiddleware_MissingHeaderReturns403(t *testing.T) {
	e := echo.New()
	m := middleware.NewIdentityMiddleware(&mocks.IdentityServiceMock{}, logrus.New())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := m.RequireIdentity()(ok)(c)
	requireHTTPError(t, err, http.StatusForbidden, "user id is missing")
}

func TestIdentityMiddleware_RejectionMessages(t *testing.T) {
	cases := map[string]struct {
		err     error
		message string
	}{
		"malformed": {fmt.Errorf("%w: %q", services.ErrMalformedCredential, "abc"), "invalid user id format"},
		"unknown":   {fmt.Errorf("%w: 99", services.ErrUnknownIdentity), "invalid user id"},
		"other":     {errors.New("boom"), "invalid user id"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			ids := &mocks.IdentityServiceMock{AuthenticateFn: func(ctx context.Context, credential string) (*user.Identity, error) {
				return nil, tc.err
			}}
			m := middleware.NewIdentityMiddleware(ids, nil)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderAuthorization, "x")
			c := e.NewContext(req, httptest.NewRecorder())

			err := m.RequireIdentity()(ok)(c)
			requireHTTPError(t, err, http.StatusForbidden, tc.message)
		})
	}
}

func TestIdentityMiddleware_StoresIdentity(t *testing.T) {
	e := echo.New()
	ids := &mocks.IdentityServiceMock{AuthenticateFn: func(ctx context.Context, credential string) (*user.Identity, error) {
		assert.Equal(t, "2", credential)
		return &user.Identity{ID: 2, Username: "consumer", Permission: permission.User}, nil
	}}
	m := middleware.NewIdentityMiddleware(ids, logrus.New())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "2")
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *user.Identity
	err := m.RequireIdentity()(func(c echo.Context) error {
		var err error
		seen, err = helpers.GetIdentityFromContext(c)
		return err
	})(c)
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, "consumer", seen.Username)
	assert.Equal(t, "identity:2", helpers.RateLimitSubject(c))
}

func TestPermMiddleware_DeniesWithoutPermission(t *testing.T) {
	e := echo.New()
	m := middleware.NewPermMiddleware(&mocks.IdentityServiceMock{}, logrus.New())
	h := m.RequirePermission(permission.Admin)(ok)
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())

	// no identity stage ran
	requireHTTPError(t, h(c), http.StatusForbidden, "")

	helpers.SetIdentity(c, &user.Identity{ID: 2, Permission: permission.User})
	requireHTTPError(t, h(c), http.StatusForbidden, "permission denied")
}

func TestPermMiddleware_AllowsAdmin(t *testing.T) {
	e := echo.New()
	m := middleware.NewPermMiddleware(&mocks.IdentityServiceMock{}, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	helpers.SetIdentity(c, &user.Identity{ID: 1, Permission: permission.Admin})

	require.NoError(t, m.RequirePermission(permission.Admin)(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware_RejectsWhenNotAllowed(t *testing.T) {
	e := echo.New()
	reset := time.Unix(1700000000, 0)
	rl := &mocks.RateLimiterServiceMock{AllowFn: func(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
		assert.Equal(t, "ip:192.0.2.1", subject)
		return false, 0, 5, reset, nil
	}}
	m := middleware.NewRateLimitMiddleware(rl, nil)
	req := httptest.NewRequest(http.MethodGet, "/populars", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	requireHTTPError(t, m.Handler()(ok)(c), http.StatusTooManyRequests, "rate limit exceeded")
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000000", rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	e := echo.New()
	rl := &mocks.RateLimiterServiceMock{AllowFn: func(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
		return true, 10, 10, time.Now(), errors.New("redis down")
	}}
	m := middleware.NewRateLimitMiddleware(rl, logrus.New())
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, m.Handler()(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware_NilLimiterPassesThrough(t *testing.T) {
	e := echo.New()
	m := middleware.NewRateLimitMiddleware(nil, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, m.Handler()(ok)(c))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestMetricsMiddleware_RecordsErrorStatus(t *testing.T) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_requests_total"}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_request_duration_seconds"}, []string{"method", "route"})
	m := middleware.NewMetricsMiddleware(total, duration)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/rate_movie/1/9", nil), httptest.NewRecorder())
	c.SetPath("/rate_movie/:movie_id/:rating")

	err := m.CollectHTTPMetrics()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	})(c)
	require.Error(t, err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(total)
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	metrics := families[0].GetMetric()
	require.Len(t, metrics, 1)
	labels := map[string]string{}
	for _, l := range metrics[0].GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	assert.Equal(t, map[string]string{"method": "GET", "route": "/rate_movie/:movie_id/:rating", "status": "403"}, labels)
	assert.Equal(t, 1.0, metrics[0].GetCounter().GetValue())
}
