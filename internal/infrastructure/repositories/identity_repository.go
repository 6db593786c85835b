package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
)

// StaticIdentityRepository serves identities from a fixed in-memory table.
type StaticIdentityRepository struct {
	identities map[int]user.Identity
}

// NewStaticIdentityRepository creates a repository over identities; nil means the built-in table.
func NewStaticIdentityRepository(identities map[int]user.Identity) ports.IdentityRepository {
	if identities == nil {
		identities = user.DefaultIdentities()
	}
	return &StaticIdentityRepository{identities: identities}
}

func (r *StaticIdentityRepository) GetByID(ctx context.Context, id int) (*user.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, fmt.Errorf("identity %d: %w", id, user.ErrNotFound)
	}
	return &identity, nil
}

// ParseIdentities parses "id:username:PERMISSION" entries separated by commas.
// An empty string yields the built-in table.
func ParseIdentities(raw string) (map[int]user.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return user.DefaultIdentities(), nil
	}
	out := make(map[int]user.Identity)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("identity entry %q: want id:username:PERMISSION", entry)
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("identity entry %q: invalid id: %w", entry, err)
		}
		perm := permission.Permission(strings.ToUpper(parts[2]))
		if !perm.IsValid() {
			return nil, fmt.Errorf("identity entry %q: unknown permission %q", entry, parts[2])
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("identity entry %q: duplicate id %d", entry, id)
		}
		out[id] = user.Identity{ID: id, Username: parts[1], Permission: perm}
	}
	return out, nil
}
