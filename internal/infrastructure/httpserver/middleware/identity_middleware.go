package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/movie-catalog-proxy/internal/application/services"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver/helpers"
)

type IdentityMiddleware struct {
	identityService ports.IdentityService
	logger          *logrus.Logger
}

func NewIdentityMiddleware(identityService ports.IdentityService, logger *logrus.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{identityService: identityService, logger: logger}
}

// RequireIdentity resolves the Authorization header to an identity and stores it
// in the context. Every failure is a 403.
func (m *IdentityMiddleware) RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential, err := helpers.GetCredentialFromContext(c)
			if err != nil {
				return err
			}

			identity, err := m.identityService.Authenticate(c.Request().Context(), credential)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).WithError(err).Warn("identity resolution failed")
				}
				return echo.NewHTTPError(http.StatusForbidden, identityRejection(err))
			}

			helpers.SetIdentity(c, identity)
			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"identity_id": identity.ID, "permission": identity.Permission}).Debug("identity resolved")
			}
			return next(c)
		}
	}
}

func identityRejection(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingCredential):
		return "user id is missing"
	case errors.Is(err, services.ErrMalformedCredential):
		return "invalid user id format"
	default:
		return "invalid user id"
	}
}
