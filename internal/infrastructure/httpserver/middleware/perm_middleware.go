package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver/helpers"
)

type PermMiddleware struct {
	identityService ports.IdentityService
	logger          *logrus.Logger
}

func NewPermMiddleware(identityService ports.IdentityService, logger *logrus.Logger) *PermMiddleware {
	return &PermMiddleware{identityService: identityService, logger: logger}
}

// RequirePermission must run after RequireIdentity.
func (m *PermMiddleware) RequirePermission(p permission.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := helpers.GetIdentityFromContext(c)
			if err != nil {
				return err
			}
			if !m.identityService.HasPermission(identity, p) {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"identity_id": identity.ID, "required": p, "path": c.Request().URL.Path}).Warn("permission denied")
				}
				return echo.NewHTTPError(http.StatusForbidden, "permission denied")
			}
			return next(c)
		}
	}
}
