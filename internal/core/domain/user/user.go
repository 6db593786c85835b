package user

import (
	"errors"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
)

// Identity is the caller resolved from the Authorization header.
type Identity struct {
	ID         int                   `json:"id"`
	Username   string                `json:"username"`
	Permission permission.Permission `json:"permission"`
}

// IsAdmin reports whether the identity carries the ADMIN permission.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Permission == permission.Admin
}

// DefaultIdentities is the built-in identity table.
func DefaultIdentities() map[int]Identity {
	return map[int]Identity{
		1: {ID: 1, Username: "admin", Permission: permission.Admin},
		2: {ID: 2, Username: "consumer", Permission: permission.User},
	}
}

// ErrNotFound is returned when no identity matches a credential.
var ErrNotFound = errors.New("identity not found")
