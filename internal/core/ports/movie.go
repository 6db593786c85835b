package ports

import (
	"context"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/movie"
)

// MovieGateway decides cache-vs-upstream for reads and forwards writes upstream.
// A failed call yields a nil value and an error wrapping movie.ErrNoResponse.
type MovieGateway interface {
	GetPopularMovies(ctx context.Context) (*movie.Envelope, error)
	GetFavoriteMovies(ctx context.Context) (*movie.Envelope, error)
	GetRatedMovies(ctx context.Context) (*movie.Envelope, error)
	AddFavoriteMovie(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error)
	DeleteFavoriteMovie(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error)
	RateMovie(ctx context.Context, movieID int64, rating float64) (*movie.UpstreamResponse, error)
}

// MovieService exposes the catalog operations to the route layer.
// Every returned error is a *movie.OperationError.
type MovieService interface {
	GetPopularMovies(ctx context.Context) ([]movie.Movie, error)
	GetFavoriteMovies(ctx context.Context) (*movie.Envelope, error)
	GetRatedMovies(ctx context.Context) (*movie.Envelope, error)
	AddFavoriteMovie(ctx context.Context, mediaID int64) (*movie.WriteResult, error)
	DeleteFavoriteMovie(ctx context.Context, mediaID int64) (*movie.WriteResult, error)
	RateMovie(ctx context.Context, movieID int64, rating float64) (*movie.WriteResult, error)
	GetFavoriteMoviesByReleaseDate(ctx context.Context) ([]movie.Movie, error)
	GetRatedMoviesFromFavorites(ctx context.Context) ([]movie.Movie, error)
	DeleteAllFavoriteMovies(ctx context.Context) (*movie.BulkDeleteSummary, error)
}
