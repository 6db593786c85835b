package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/movie-catalog-proxy/internal/application/services"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/repositories"
	"github.com/avatarctic/movie-catalog-proxy/internal/mocks"
)

func TestAuthenticate_ResolvesBuiltInIdentities(t *testing.T) {
	svc := impl.NewIdentityService(repositories.NewStaticIdentityRepository(nil), nil)

	admin, err := svc.Authenticate(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, permission.Admin, admin.Permission)

	consumer, err := svc.Authenticate(context.Background(), "Bearer 2")
	require.NoError(t, err)
	assert.Equal(t, permission.User, consumer.Permission)
}

func TestAuthenticate_Rejections(t *testing.T) {
	svc := impl.NewIdentityService(repositories.NewStaticIdentityRepository(nil), nil)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, impl.ErrMissingCredential)
	_, err = svc.Authenticate(ctx, "abc")
	assert.ErrorIs(t, err, impl.ErrMalformedCredential)
	_, err = svc.Authenticate(ctx, "99")
	assert.ErrorIs(t, err, impl.ErrUnknownIdentity)
}

func TestAuthenticate_RepositoryErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	svc := impl.NewIdentityService(&mocks.IdentityRepositoryMock{GetByIDFn: func(ctx context.Context, id int) (*user.Identity, error) {
		return nil, boom
	}}, nil)

	_, err := svc.Authenticate(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, impl.ErrUnknownIdentity)
}

func TestHasPermission(t *testing.T) {
	svc := impl.NewIdentityService(repositories.NewStaticIdentityRepository(nil), nil)
	admin := &user.Identity{ID: 1, Permission: permission.Admin}
	consumer := &user.Identity{ID: 2, Permission: permission.User}

	assert.True(t, svc.HasPermission(admin, permission.Admin))
	assert.True(t, svc.HasPermission(admin, permission.User))
	assert.True(t, svc.HasPermission(consumer, permission.User))
	assert.False(t, svc.HasPermission(consumer, permission.Admin))
	assert.False(t, svc.HasPermission(nil, permission.User))
}

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	count := 0
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		assert.Equal(t, "identity:2", subject)
		assert.Equal(t, "ratelimit:caller", keyPrefix)
		assert.Equal(t, 2*window, ttl)
		count++
		return count, time.Unix(0, 0), nil
	}}
	svc := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{DefaultRequestsPerMinute: 2, BurstMultiplier: 1.5}, nil)

	allowed, remaining, limit, reset, err := svc.Allow(context.Background(), "identity:2")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
	assert.Equal(t, 2, limit)
	assert.Equal(t, time.Unix(60, 0), reset)

	for i := 0; i < 2; i++ {
		allowed, _, _, _, _ = svc.Allow(context.Background(), "identity:2")
		assert.True(t, allowed)
	}
	allowed, remaining, _, _, err = svc.Allow(context.Background(), "identity:2")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		return 0, time.Now(), errors.New("redis down")
	}}
	svc := impl.NewRateLimiterService(repo, nil, nil)

	allowed, _, limit, _, err := svc.Allow(context.Background(), "ip:10.0.0.1")
	assert.Error(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 120, limit)
}
