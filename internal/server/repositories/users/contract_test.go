package users

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behaviour every Repository must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Create(ctx, &models.User{
			Username: "michael", Email: "michael@mherman.org", PasswordHash: "hash", Active: true,
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.RegisteredAt.IsZero())

		byID, err := r.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "michael", byID.Username)
		assert.Equal(t, "hash", byID.PasswordHash)
		assert.True(t, byID.Active)
		assert.False(t, byID.Admin)
		assert.True(t, created.RegisteredAt.Equal(byID.RegisteredAt))

		byEmail, err := r.GetUserByEmail(ctx, "michael@mherman.org")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byName, err := r.GetUserByUsername(ctx, "michael")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
	})

	t.Run("absent records", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		_, err = r.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		_, err = r.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("email lookup is case sensitive", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Create(ctx, &models.User{Username: "m", Email: "Michael@mherman.org", PasswordHash: "h"})
		require.NoError(t, err)

		_, err = r.GetUserByEmail(ctx, "michael@mherman.org")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Create(ctx, &models.User{Username: "michael", Email: "michael@mherman.org", PasswordHash: "h"})
		require.NoError(t, err)

		_, err = r.Create(ctx, &models.User{Username: "other", Email: "michael@mherman.org", PasswordHash: "h"})
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)

		_, err = r.Create(ctx, &models.User{Username: "michael", Email: "other@mherman.org", PasswordHash: "h"})
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	})

	t.Run("list in registration order", func(t *testing.T) {
		r := newRepo(t)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, name := range []string{"c", "a", "b"} {
			_, err := r.Create(ctx, &models.User{
				Username: name, Email: name + "@example.com", PasswordHash: "h",
				RegisteredAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		list, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "c", list[0].Username)
		assert.Equal(t, "a", list[1].Username)
		assert.Equal(t, "b", list[2].Username)
	})

	t.Run("update status", func(t *testing.T) {
		r := newRepo(t)

		u, err := r.Create(ctx, &models.User{Username: "m", Email: "m@example.com", PasswordHash: "h", Active: true})
		require.NoError(t, err)

		yes, no := true, false
		updated, err := r.UpdateStatus(ctx, u.ID, models.StatusUpdate{Admin: &yes})
		require.NoError(t, err)
		assert.True(t, updated.Admin)
		assert.True(t, updated.Active)

		updated, err = r.UpdateStatus(ctx, u.ID, models.StatusUpdate{Active: &no})
		require.NoError(t, err)
		assert.True(t, updated.Admin)
		assert.False(t, updated.Active)

		stored, err := r.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, stored.Admin)
		assert.False(t, stored.Active)

		_, err = r.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", models.StatusUpdate{Admin: &yes})
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("concurrent duplicate creates", func(t *testing.T) {
		r := newRepo(t)

		const n = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			dups      int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := r.Create(ctx, &models.User{
					Username: fmt.Sprintf("racer%d", i), Email: "race@example.com", PasswordHash: "h",
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case assert.ErrorIs(t, err, common.ErrorAlreadyExists):
					dups++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, n-1, dups)
	})
}
