package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher(t *testing.T) cryptox.PasswordHasher {
	t.Helper()
	h, err := cryptox.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

// runRepositoryContract checks the behaviour every store must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create then find by username and email", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, &models.User{
			UserName:      "alice",
			Email:         "alice@x.com",
			SecurityStamp: "stamp-1",
			Roles:         []string{"admin", "user", "admin"},
		}, "correct")
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.NotEqual(t, "correct", created.PasswordHash)

		byName, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		byEmail, err := repo.FindByEmail(ctx, "alice@x.com")
		require.NoError(t, err)

		assert.Equal(t, created.ID, byName.ID)
		assert.Equal(t, created.ID, byEmail.ID)
		assert.Equal(t, "alice", byName.UserName)
		assert.Equal(t, "alice@x.com", byName.Email)
		assert.Equal(t, "stamp-1", byName.SecurityStamp)

		roles, err := repo.GetRoles(ctx, byName)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "user"}, roles)
	})

	t.Run("lookups are case-insensitive", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, &models.User{UserName: "Bob", Email: "Bob@X.com"}, "pw")
		require.NoError(t, err)

		u, err := repo.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "Bob", u.UserName)

		_, err = repo.FindByEmail(ctx, "BOB@x.COM")
		require.NoError(t, err)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		_, err = repo.FindByEmail(ctx, "ghost@x.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("duplicates are rejected email first", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, &models.User{UserName: "bob", Email: "bob@x.com"}, "pw")
		require.NoError(t, err)

		_, err = repo.Create(ctx, &models.User{UserName: "bob", Email: "bob@x.com"}, "pw")
		assert.ErrorIs(t, err, common.ErrDuplicateEmail)

		_, err = repo.Create(ctx, &models.User{UserName: "BOB", Email: "other@x.com"}, "pw")
		assert.ErrorIs(t, err, common.ErrDuplicateUsername)

		_, err = repo.FindByEmail(ctx, "other@x.com")
		assert.ErrorIs(t, err, common.ErrorNotFound, "failed create must leave nothing behind")
	})

	t.Run("verify password", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, &models.User{UserName: "carol", Email: "carol@x.com"}, "correct")
		require.NoError(t, err)
		u, err := repo.FindByUsername(ctx, "carol")
		require.NoError(t, err)

		ok, err := repo.VerifyPassword(ctx, u, "correct")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.VerifyPassword(ctx, u, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.VerifyPassword(ctx, nil, "correct")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("user without roles", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, &models.User{UserName: "dave", Email: "dave@x.com"}, "pw")
		require.NoError(t, err)

		roles, err := repo.GetRoles(ctx, created)
		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("concurrent registrations of one username", func(t *testing.T) {
		repo := newRepo(t)

		const n = 8
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Create(ctx, &models.User{
					UserName: "racer",
					Email:    "racer" + string(rune('a'+i)) + "@x.com",
				}, "pw")
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, common.ErrDuplicateUsername), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)
	})
}
