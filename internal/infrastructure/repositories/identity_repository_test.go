package repositories_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/permission"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/user"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/repositories"
)

func TestStaticIdentityRepository_Defaults(t *testing.T) {
	repo := repositories.NewStaticIdentityRepository(nil)

	admin, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, permission.Admin, admin.Permission)

	_, err = repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestParseIdentities(t *testing.T) {
	ids, err := repositories.ParseIdentities(" 7:ops:admin, 8:viewer:USER ")
	require.NoError(t, err)
	assert.Equal(t, map[int]user.Identity{
		7: {ID: 7, Username: "ops", Permission: permission.Admin},
		8: {ID: 8, Username: "viewer", Permission: permission.User},
	}, ids)

	ids, err = repositories.ParseIdentities("")
	require.NoError(t, err)
	assert.Equal(t, user.DefaultIdentities(), ids)
}

func TestParseIdentities_Invalid(t *testing.T) {
	for _, raw := range []string{"1:admin", "x:admin:ADMIN", "1:admin:ROOT", "1:a:ADMIN,1:b:USER"} {
		_, err := repositories.ParseIdentities(raw)
		assert.Error(t, err, raw)
	}
}

func TestRateLimitRedisRepository_UnreachableReturnsError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	repo := repositories.NewRateLimitRedisRepository(client)

	_, start, err := repo.IncrementWindow(context.Background(), "identity:1", time.Minute, "ratelimit:caller", 2*time.Minute)
	assert.Error(t, err)
	assert.Equal(t, start, start.Truncate(time.Minute))
}
