package ports

import (
	"context"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
)

// IdentityRepository looks up identities by their numeric credential.
type IdentityRepository interface {
	GetByID(ctx context.Context, id int) (*user.Identity, error)
}

// IdentityService resolves credentials and answers permission checks.
type IdentityService interface {
	Authenticate(ctx context.Context, credential string) (*user.Identity, error)
	HasPermission(identity *user.Identity, p permission.Permission) bool
}
