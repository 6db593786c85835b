package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
)

var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("credential must be a numeric identity id")
	ErrUnknownIdentity     = errors.New("unknown identity")
)

// IdentityService resolves the Authorization credential against the identity table.
type IdentityService struct {
	repo   ports.IdentityRepository
	logger *logrus.Logger
}

func NewIdentityService(repo ports.IdentityRepository, logger *logrus.Logger) ports.IdentityService {
	return &IdentityService{repo: repo, logger: logger}
}

// Authenticate accepts a bare numeric id, optionally prefixed with "Bearer ".
func (s *IdentityService) Authenticate(ctx context.Context, credential string) (*user.Identity, error) {
	credential = strings.TrimSpace(credential)
	if after, ok := strings.CutPrefix(credential, "Bearer "); ok {
		credential = strings.TrimSpace(after)
	}
	if credential == "" {
		return nil, ErrMissingCredential
	}
	id, err := strconv.Atoi(credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedCredential, credential)
	}
	identity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("identity_id", id).WithError(err).Warn("identity lookup failed")
		}
		if errors.Is(err, user.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownIdentity, id)
		}
		return nil, err
	}
	return identity, nil
}

// HasPermission reports whether identity holds p. Admins hold every permission.
func (s *IdentityService) HasPermission(identity *user.Identity, p permission.Permission) bool {
	if identity == nil {
		return false
	}
	if identity.IsAdmin() {
		return true
	}
	return identity.Permission == p
}
