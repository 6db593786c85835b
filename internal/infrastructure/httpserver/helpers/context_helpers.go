package helpers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
)

// GetIdentityFromContext returns the caller set by the identity stage.
func GetIdentityFromContext(c echo.Context) (*user.Identity, error) {
	id, ok := GetIdentityRaw(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusForbidden, "identity not resolved")
	}
	return id, nil
}

// GetCredentialFromContext returns the raw Authorization header value.
func GetCredentialFromContext(c echo.Context) (string, error) {
	credential := c.Request().Header.Get(echo.HeaderAuthorization)
	if credential == "" {
		return "", echo.NewHTTPError(http.StatusForbidden, "user id is missing")
	}
	return credential, nil
}

// RateLimitSubject keys the caller for rate limiting: the identity when known, else the client IP.
func RateLimitSubject(c echo.Context) string {
	if id, ok := GetIdentityIDRaw(c); ok {
		return "identity:" + strconv.Itoa(id)
	}
	return "ip:" + c.RealIP()
}
