package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reprasp/internal/models"
	"reprasp/internal/storage/storagetest"
)

func TestAdminRegistry(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Admins

	ok, err := repo.IsAdmin(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Add(ctx, 42))
	require.NoError(t, repo.Add(ctx, 42))
	require.NoError(t, repo.Add(ctx, 7))

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 42}, ids)

	require.NoError(t, repo.Remove(ctx, 42))
	require.NoError(t, repo.Remove(ctx, 42))
	ok, err = repo.IsAdmin(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminInitializeAndPrimaryProtection(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Admins

	_, err := repo.Primary(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	changed, err := repo.Initialize(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Initialize(ctx, 2002)
	require.NoError(t, err)
	assert.False(t, changed)

	primary, err := repo.Primary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), primary)

	err = repo.Remove(ctx, 1001)
	assert.ErrorIs(t, err, models.ErrForbidden)

	ok, err := repo.IsAdmin(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(ctx, 2002)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminInitializePromotesExistingRow(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Admins

	require.NoError(t, repo.Add(ctx, 5))
	changed, err := repo.Initialize(ctx, 5)
	require.NoError(t, err)
	assert.True(t, changed)

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)
	assert.ErrorIs(t, repo.Remove(ctx, 5), models.ErrForbidden)
}

func TestAdminInitializeRejectsZero(t *testing.T) {
	_, err := storagetest.NewRepositories(t).Admins.Initialize(context.Background(), 0)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}
