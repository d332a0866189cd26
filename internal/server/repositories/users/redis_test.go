package users

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRepository(client, "", testHasher(t)), mr
}

func TestRedisRepository_Contract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) Repository {
		repo, _ := newRedisRepo(t)
		return repo
	})
}

func TestRedisRepository_KeyLayout(t *testing.T) {
	repo, mr := newRedisRepo(t)

	u, err := repo.Create(context.Background(), &models.User{
		UserName: "Alice",
		Email:    "Alice@X.com",
		Roles:    []string{"admin"},
	}, "pw")
	require.NoError(t, err)

	id, err := mr.Get("gophauth:username:alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	id, err = mr.Get("gophauth:email:alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	assert.Equal(t, "Alice", mr.HGet("gophauth:user:"+u.ID, "username"))
	assert.NotEqual(t, "pw", mr.HGet("gophauth:user:"+u.ID, "password_hash"))

	roles, err := mr.List("gophauth:roles:" + u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)
}

func TestRedisRepository_DanglingIndexIsNotFound(t *testing.T) {
	repo, mr := newRedisRepo(t)
	require.NoError(t, mr.Set("gophauth:username:ghost", "missing-id"))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedisRepository_ServerDown(t *testing.T) {
	repo, mr := newRedisRepo(t)
	mr.Close()

	_, err := repo.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
