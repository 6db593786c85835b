package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
)

// Stages are attached per route. An empty-prefix group would also run them for
// unmatched paths and turn every 404 into a 403.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	limit := s.middleware.RateLimit.Handler()
	s.echo.GET("/populars", s.getPopularMovies, limit)

	// identity first, so the limiter keys on the caller rather than the address
	identified := []echo.MiddlewareFunc{s.middleware.Identity.RequireIdentity(), limit}
	admin := []echo.MiddlewareFunc{s.middleware.Identity.RequireIdentity(), s.middleware.Perm.RequirePermission(permission.Admin), limit}

	s.echo.GET("/get_favorite_movies", s.getFavoriteMovies, identified...)
	s.echo.POST("/add_favorite/:media_id", s.addFavoriteMovie, identified...)
	s.echo.DELETE("/delete_favorite/:media_id", s.deleteFavoriteMovie, identified...)
	s.echo.POST("/rate_movie/:movie_id/:rating", s.rateMovie, identified...)
	s.echo.GET("/get_rated_movies", s.getRatedMovies, identified...)
	s.echo.GET("/get_favorite_movies_by_release_date", s.getFavoriteMoviesByReleaseDate, identified...)
	s.echo.GET("/rated_movies_from_favorites", s.getRatedMoviesFromFavorites, identified...)
	s.echo.DELETE("/delete_favorite_movies", s.deleteAllFavoriteMovies, admin...)
}
