package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/movie"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
)

// MovieGatewayMock is a lightweight mock for MovieGateway that records write calls
type MovieGatewayMock struct {
	GetPopularMoviesFn    func(ctx context.Context) (*movie.Envelope, error)
	GetFavoriteMoviesFn   func(ctx context.Context) (*movie.Envelope, error)
	GetRatedMoviesFn      func(ctx context.Context) (*movie.Envelope, error)
	AddFavoriteMovieFn    func(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error)
	DeleteFavoriteMovieFn func(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error)
	RateMovieFn           func(ctx context.Context, movieID int64, rating float64) (*movie.UpstreamResponse, error)

	mu    sync.Mutex
	Calls []string
}

func (m *MovieGatewayMock) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many recorded calls start with prefix.
func (m *MovieGatewayMock) CallCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (m *MovieGatewayMock) GetPopularMovies(ctx context.Context) (*movie.Envelope, error) {
	m.record("GetPopularMovies")
	if m.GetPopularMoviesFn != nil {
		return m.GetPopularMoviesFn(ctx)
	}
	return &movie.Envelope{Results: []movie.Movie{}}, nil
}
func (m *MovieGatewayMock) GetFavoriteMovies(ctx context.Context) (*movie.Envelope, error) {
	m.record("GetFavoriteMovies")
	if m.GetFavoriteMoviesFn != nil {
		return m.GetFavoriteMoviesFn(ctx)
	}
	return &movie.Envelope{Results: []movie.Movie{}}, nil
}
func (m *MovieGatewayMock) GetRatedMovies(ctx context.Context) (*movie.Envelope, error) {
	m.record("GetRatedMovies")
	if m.GetRatedMoviesFn != nil {
		return m.GetRatedMoviesFn(ctx)
	}
	return &movie.Envelope{Results: []movie.Movie{}}, nil
}
func (m *MovieGatewayMock) AddFavoriteMovie(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error) {
	m.record(fmt.Sprintf("AddFavoriteMovie:%d", mediaID))
	if m.AddFavoriteMovieFn != nil {
		return m.AddFavoriteMovieFn(ctx, mediaID)
	}
	return &movie.UpstreamResponse{StatusCode: 201}, nil
}
func (m *MovieGatewayMock) DeleteFavoriteMovie(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error) {
	m.record(fmt.Sprintf("DeleteFavoriteMovie:%d", mediaID))
	if m.DeleteFavoriteMovieFn != nil {
		return m.DeleteFavoriteMovieFn(ctx, mediaID)
	}
	return &movie.UpstreamResponse{StatusCode: 200}, nil
}
func (m *MovieGatewayMock) RateMovie(ctx context.Context, movieID int64, rating float64) (*movie.UpstreamResponse, error) {
	m.record(fmt.Sprintf("RateMovie:%d", movieID))
	if m.RateMovieFn != nil {
		return m.RateMovieFn(ctx, movieID, rating)
	}
	return &movie.UpstreamResponse{StatusCode: 201}, nil
}

// MovieServiceMock is a lightweight mock for MovieService
type MovieServiceMock struct {
	GetPopularMoviesFn               func(ctx context.Context) ([]movie.Movie, error)
	GetFavoriteMoviesFn              func(ctx context.Context) (*movie.Envelope, error)
	GetRatedMoviesFn                 func(ctx context.Context) (*movie.Envelope, error)
	AddFavoriteMovieFn               func(ctx context.Context, mediaID int64) (*movie.WriteResult, error)
	DeleteFavoriteMovieFn            func(ctx context.Context, mediaID int64) (*movie.WriteResult, error)
	RateMovieFn                      func(ctx context.Context, movieID int64, rating float64) (*movie.WriteResult, error)
	GetFavoriteMoviesByReleaseDateFn func(ctx context.Context) ([]movie.Movie, error)
	GetRatedMoviesFromFavoritesFn    func(ctx context.Context) ([]movie.Movie, error)
	DeleteAllFavoriteMoviesFn        func(ctx context.Context) (*movie.BulkDeleteSummary, error)
}

func (m *MovieServiceMock) GetPopularMovies(ctx context.Context) ([]movie.Movie, error) {
	if m.GetPopularMoviesFn != nil {
		return m.GetPopularMoviesFn(ctx)
	}
	return []movie.Movie{}, nil
}
func (m *MovieServiceMock) GetFavoriteMovies(ctx context.Context) (*movie.Envelope, error) {
	if m.GetFavoriteMoviesFn != nil {
		return m.GetFavoriteMoviesFn(ctx)
	}
	return &movie.Envelope{Results: []movie.Movie{}}, nil
}
func (m *MovieServiceMock) GetRatedMovies(ctx context.Context) (*movie.Envelope, error) {
	if m.GetRatedMoviesFn != nil {
		return m.GetRatedMoviesFn(ctx)
	}
	return &movie.Envelope{Results: []movie.Movie{}}, nil
}
func (m *MovieServiceMock) AddFavoriteMovie(ctx context.Context, mediaID int64) (*movie.WriteResult, error) {
	if m.AddFavoriteMovieFn != nil {
		return m.AddFavoriteMovieFn(ctx, mediaID)
	}
	return &movie.WriteResult{StatusCode: 201}, nil
}
func (m *MovieServiceMock) DeleteFavoriteMovie(ctx context.Context, mediaID int64) (*movie.WriteResult, error) {
	if m.DeleteFavoriteMovieFn != nil {
		return m.DeleteFavoriteMovieFn(ctx, mediaID)
	}
	return &movie.WriteResult{StatusCode: 200}, nil
}
func (m *MovieServiceMock) RateMovie(ctx context.Context, movieID int64, rating float64) (*movie.WriteResult, error) {
	if m.RateMovieFn != nil {
		return m.RateMovieFn(ctx, movieID, rating)
	}
	return &movie.WriteResult{StatusCode: 201}, nil
}
func (m *MovieServiceMock) GetFavoriteMoviesByReleaseDate(ctx context.Context) ([]movie.Movie, error) {
	if m.GetFavoriteMoviesByReleaseDateFn != nil {
		return m.GetFavoriteMoviesByReleaseDateFn(ctx)
	}
	return []movie.Movie{}, nil
}
func (m *MovieServiceMock) GetRatedMoviesFromFavorites(ctx context.Context) ([]movie.Movie, error) {
	if m.GetRatedMoviesFromFavoritesFn != nil {
		return m.GetRatedMoviesFromFavoritesFn(ctx)
	}
	return []movie.Movie{}, nil
}
func (m *MovieServiceMock) DeleteAllFavoriteMovies(ctx context.Context) (*movie.BulkDeleteSummary, error) {
	if m.DeleteAllFavoriteMoviesFn != nil {
		return m.DeleteAllFavoriteMoviesFn(ctx)
	}
	return &movie.BulkDeleteSummary{Status: "success"}, nil
}

// UpstreamClientMock is a lightweight mock for UpstreamClient
type UpstreamClientMock struct {
	CallFn func(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error)
}

func (m *UpstreamClientMock) Call(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	if m.CallFn != nil {
		return m.CallFn(ctx, req)
	}
	return &ports.UpstreamResponse{StatusCode: 200, Body: []byte(`{"results":[]}`)}, nil
}

// IdentityServiceMock is a lightweight mock for IdentityService
type IdentityServiceMock struct {
	AuthenticateFn  func(ctx context.Context, credential string) (*user.Identity, error)
	HasPermissionFn func(identity *user.Identity, p permission.Permission) bool
}

func (m *IdentityServiceMock) Authenticate(ctx context.Context, credential string) (*user.Identity, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, credential)
	}
	return nil, user.ErrNotFound
}
func (m *IdentityServiceMock) HasPermission(identity *user.Identity, p permission.Permission) bool {
	if m.HasPermissionFn != nil {
		return m.HasPermissionFn(identity, p)
	}
	return identity != nil && identity.Permission == p
}

// RateLimiterServiceMock is a lightweight mock for RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 10, 10, time.Now().Add(time.Minute), nil
}

// RateLimitRepositoryMock is a lightweight mock for RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, subject, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

// IdentityRepositoryMock is a lightweight mock for IdentityRepository
type IdentityRepositoryMock struct {
	GetByIDFn func(ctx context.Context, id int) (*user.Identity, error)
}

func (m *IdentityRepositoryMock) GetByID(ctx context.Context, id int) (*user.Identity, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}
