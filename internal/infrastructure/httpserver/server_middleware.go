package httpserver

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	corsCfg := middleware.DefaultCORSConfig
	if len(s.config.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = s.config.AllowedOrigins
	}
	s.echo.Use(middleware.CORSWithConfig(corsCfg))
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))

	s.echo.Use(s.middleware.Metrics.CollectHTTPMetrics())
	s.echo.Use(s.middleware.Logging.RequestLogging())
}
