package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reprasp/internal/models"
	"reprasp/internal/storage"
	"reprasp/internal/storage/storagetest"
)

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := storagetest.NewRepositories(t)
	at := time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)

	id, _, err := repos.Requests.Enqueue(ctx, &models.PendingRequest{GroupName: "BandX", TargetTime: at, Action: models.ActionAdd})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repos.Transaction(ctx, func(tx *storage.Repositories) error {
		if _, err := tx.Requests.Resolve(ctx, id); err != nil {
			return err
		}
		if err := tx.Schedule.Add(ctx, "BandX", at); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Requests.Get(ctx, id)
	assert.NoError(t, err)
	n, err := repos.Schedule.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDropTables(t *testing.T) {
	repos := storagetest.NewRepositories(t)
	require.NoError(t, repos.DropTables())
	require.NoError(t, repos.MigrateTables())
}
