package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
)

type ctxKey string

const (
	keyIdentity           ctxKey = "identity"
	keyIdentityID         ctxKey = "identity_id"
	keyIdentityPermission ctxKey = "identity_permission"
)

// SetIdentity stores the resolved caller and its id and permission for later stages.
func SetIdentity(c echo.Context, id *user.Identity) {
	c.Set(string(keyIdentity), id)
	if id != nil {
		c.Set(string(keyIdentityID), id.ID)
		c.Set(string(keyIdentityPermission), id.Permission)
	}
}
func GetIdentityRaw(c echo.Context) (*user.Identity, bool) {
	v := c.Get(string(keyIdentity))
	id, ok := v.(*user.Identity)
	return id, ok && id != nil
}

func GetIdentityIDRaw(c echo.Context) (int, bool) {
	v := c.Get(string(keyIdentityID))
	id, ok := v.(int)
	return id, ok
}

func GetIdentityPermissionRaw(c echo.Context) (permission.Permission, bool) {
	v := c.Get(string(keyIdentityPermission))
	p, ok := v.(permission.Permission)
	return p, ok
}
