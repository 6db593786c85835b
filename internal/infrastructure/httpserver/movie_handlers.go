package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/movie"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getPopularMovies(c echo.Context) error {
	movies, err := s.movieService.GetPopularMovies(c.Request().Context())
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, movies)
}

func (s *Server) getFavoriteMovies(c echo.Context) error {
	env, err := s.movieService.GetFavoriteMovies(c.Request().Context())
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, env)
}

func (s *Server) getRatedMovies(c echo.Context) error {
	env, err := s.movieService.GetRatedMovies(c.Request().Context())
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, env)
}

func (s *Server) addFavoriteMovie(c echo.Context) error {
	mediaID, err := helpers.GetTargetIDParam(c, "media_id")
	if err != nil {
		return err
	}
	res, err := s.movieService.AddFavoriteMovie(c.Request().Context(), mediaID)
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) deleteFavoriteMovie(c echo.Context) error {
	mediaID, err := helpers.GetTargetIDParam(c, "media_id")
	if err != nil {
		return err
	}
	res, err := s.movieService.DeleteFavoriteMovie(c.Request().Context(), mediaID)
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) rateMovie(c echo.Context) error {
	movieID, err := helpers.GetTargetIDParam(c, "movie_id")
	if err != nil {
		return err
	}
	rating, err := helpers.GetRatingParam(c, "rating")
	if err != nil {
		return err
	}
	res, err := s.movieService.RateMovie(c.Request().Context(), movieID, rating)
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getFavoriteMoviesByReleaseDate(c echo.Context) error {
	movies, err := s.movieService.GetFavoriteMoviesByReleaseDate(c.Request().Context())
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, movies)
}

func (s *Server) getRatedMoviesFromFavorites(c echo.Context) error {
	movies, err := s.movieService.GetRatedMoviesFromFavorites(c.Request().Context())
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, movies)
}

func (s *Server) deleteAllFavoriteMovies(c echo.Context) error {
	res, err := s.movieService.DeleteAllFavoriteMovies(c.Request().Context())
	if err != nil {
		return s.operationError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// operationError renders a *movie.OperationError as {"message"} with its status.
// Anything else becomes an opaque 500.
func (s *Server) operationError(c echo.Context, err error) error {
	var opErr *movie.OperationError
	if errors.As(err, &opErr) {
		return c.JSON(opErr.Status, map[string]string{"message": opErr.Message})
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"path": c.Path()}).WithError(err).Error("unexpected error from movie service")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
