package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/movie"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
)

const (
	msgPopularMovies          = "failed to get popular movies"
	msgFavoriteMovies         = "failed to get favorite movies"
	msgRatedMovies            = "failed to get rated movies"
	msgAddFavorite            = "failed to add favorite movie"
	msgDeleteFavorite         = "failed to delete favorite movie"
	msgRateMovie              = "failed to rate movie"
	msgFavoritesByReleaseDate = "failed to get favorite movies by release date"
	msgRatedFromFavorites     = "failed to get rated movies from favorites"
	msgDeleteAllFavorites     = "failed to delete all favorite movies"
)

// AllFavoritesDeletedMessage is reported by a finished bulk delete.
const AllFavoritesDeletedMessage = "All favorite movies have been deleted"

// MovieService composes gateway calls into the catalog operations and converts
// every failure to a *movie.OperationError.
type MovieService struct {
	gateway ports.MovieGateway
	logger  *logrus.Logger
}

func NewMovieService(gateway ports.MovieGateway, logger *logrus.Logger) ports.MovieService {
	return &MovieService{gateway: gateway, logger: logger}
}

func (s *MovieService) GetPopularMovies(ctx context.Context) ([]movie.Movie, error) {
	env, err := s.gateway.GetPopularMovies(ctx)
	if err != nil {
		return nil, s.internal("get_popular_movies", msgPopularMovies, err)
	}
	return env.Results, nil
}

func (s *MovieService) GetFavoriteMovies(ctx context.Context) (*movie.Envelope, error) {
	env, err := s.gateway.GetFavoriteMovies(ctx)
	if err != nil {
		return nil, s.internal("get_favorite_movies", msgFavoriteMovies, err)
	}
	return env, nil
}

func (s *MovieService) GetRatedMovies(ctx context.Context) (*movie.Envelope, error) {
	env, err := s.gateway.GetRatedMovies(ctx)
	if err != nil {
		return nil, s.internal("get_rated_movies", msgRatedMovies, err)
	}
	return env, nil
}

func (s *MovieService) AddFavoriteMovie(ctx context.Context, mediaID int64) (*movie.WriteResult, error) {
	resp, err := s.gateway.AddFavoriteMovie(ctx, mediaID)
	if err != nil {
		return nil, s.internal("add_favorite_movie", msgAddFavorite, err)
	}
	return writeResult(resp), nil
}

func (s *MovieService) DeleteFavoriteMovie(ctx context.Context, mediaID int64) (*movie.WriteResult, error) {
	resp, err := s.gateway.DeleteFavoriteMovie(ctx, mediaID)
	if err != nil {
		return nil, s.internal("delete_favorite_movie", msgDeleteFavorite, err)
	}
	return writeResult(resp), nil
}

// RateMovie rejects ratings outside [1, 5] before any upstream call.
func (s *MovieService) RateMovie(ctx context.Context, movieID int64, rating float64) (*movie.WriteResult, error) {
	req := movie.RatingRequest{MovieID: movieID, Rating: rating}
	if err := req.Validate(); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"movie_id": movieID, "rating": rating}).Debug("rejected out of range rating")
		}
		return nil, movie.NewBadRequestError(movie.RatingRangeMessage, err)
	}
	resp, err := s.gateway.RateMovie(ctx, req.MovieID, req.Rating)
	if err != nil {
		return nil, s.internal("rate_movie", msgRateMovie, err)
	}
	return writeResult(resp), nil
}

// GetFavoriteMoviesByReleaseDate returns favorites newest first. Equal dates keep
// their upstream order. One missing or malformed date fails the whole call.
func (s *MovieService) GetFavoriteMoviesByReleaseDate(ctx context.Context) ([]movie.Movie, error) {
	env, err := s.gateway.GetFavoriteMovies(ctx)
	if err != nil {
		return nil, s.internal("get_favorite_movies_by_release_date", msgFavoritesByReleaseDate, err)
	}

	type dated struct {
		m movie.Movie
		t time.Time
	}
	items := make([]dated, 0, len(env.Results))
	for _, m := range env.Results {
		t, err := m.ReleaseTime()
		if err != nil {
			return nil, s.internal("get_favorite_movies_by_release_date", msgFavoritesByReleaseDate, err)
		}
		items = append(items, dated{m: m, t: t})
	}
	slices.SortStableFunc(items, func(a, b dated) int {
		return b.t.Compare(a.t)
	})

	out := make([]movie.Movie, len(items))
	for i, it := range items {
		out[i] = it.m
	}
	return out, nil
}

// GetRatedMoviesFromFavorites returns the rated movies that are also favorites,
// in rated order. Rated movies are read first.
func (s *MovieService) GetRatedMoviesFromFavorites(ctx context.Context) ([]movie.Movie, error) {
	rated, err := s.gateway.GetRatedMovies(ctx)
	if err != nil {
		return nil, s.internal("get_rated_movies_from_favorites", msgRatedFromFavorites, err)
	}
	favorites, err := s.gateway.GetFavoriteMovies(ctx)
	if err != nil {
		return nil, s.internal("get_rated_movies_from_favorites", msgRatedFromFavorites, err)
	}

	favoriteIDs := favorites.IDSet()
	out := make([]movie.Movie, 0, len(rated.Results))
	for _, m := range rated.Results {
		if _, ok := favoriteIDs[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// DeleteAllFavoriteMovies unfavorites every current favorite, one call at a time.
// Individual failures are logged and do not change the reported outcome.
func (s *MovieService) DeleteAllFavoriteMovies(ctx context.Context) (*movie.BulkDeleteSummary, error) {
	favorites, err := s.gateway.GetFavoriteMovies(ctx)
	if err != nil {
		return nil, s.internal("delete_all_favorite_movies", msgDeleteAllFavorites, err)
	}

	ids := make([]int64, 0, len(favorites.Results))
	for _, m := range favorites.Results {
		ids = append(ids, m.ID)
	}

	failed := 0
	for _, id := range ids {
		if _, err := s.gateway.DeleteFavoriteMovie(ctx, id); err != nil {
			failed++
			if s.logger != nil {
				s.logger.WithField("media_id", id).WithError(err).Warn("bulk delete: failed to remove favorite")
			}
		}
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"requested": len(ids), "failed": failed}).Info("bulk delete of favorites finished")
	}
	return &movie.BulkDeleteSummary{Status: "success", Message: AllFavoritesDeletedMessage}, nil
}

func (s *MovieService) internal(op, message string, err error) *movie.OperationError {
	if s.logger != nil {
		s.logger.WithField("op", op).WithError(err).Error(message)
	}
	return movie.NewInternalError(message, fmt.Errorf("%s: %w", op, err))
}

func writeResult(resp *movie.UpstreamResponse) *movie.WriteResult {
	return &movie.WriteResult{StatusCode: resp.StatusCode, Response: resp.Body}
}
