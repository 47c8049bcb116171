package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reprasp/internal/models"
	"reprasp/internal/storage/storagetest"
)

func newRequest(group string, at time.Time, action models.Action) *models.PendingRequest {
	return &models.PendingRequest{GroupName: group, TargetTime: at, Action: action, RequestedBy: 1}
}

func TestEnqueueIsIdempotentOnKey(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Requests
	at := time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)

	id1, created, err := repo.Enqueue(ctx, newRequest("BandX", at, models.ActionAdd))
	require.NoError(t, err)
	assert.True(t, created)

	dup := newRequest("BandX", at, models.ActionAdd)
	dup.RequestedBy = 99
	id2, created, err := repo.Enqueue(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)
	assert.Equal(t, int64(1), dup.RequestedBy)

	id3, created, err := repo.Enqueue(ctx, newRequest("BandX", at, models.ActionDelete))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, id1, id3)

	reqs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, reqs, 2)
}

func TestEnqueueRejectsUnknownAction(t *testing.T) {
	_, _, err := storagetest.NewRepositories(t).Requests.Enqueue(context.Background(),
		newRequest("BandX", time.Now(), models.Action("rename")))
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}

func TestResolveConsumesOnce(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Requests
	at := time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)

	id, _, err := repo.Enqueue(ctx, newRequest("BandX", at, models.ActionAdd))
	require.NoError(t, err)

	req, err := repo.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "BandX", req.GroupName)
	assert.Equal(t, models.ActionAdd, req.Action)
	assert.Equal(t, models.SourceBot, req.Source)

	_, err = repo.Resolve(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConcurrentResolveHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Requests

	id, _, err := repo.Enqueue(ctx, newRequest("BandX", time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC), models.ActionAdd))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Resolve(ctx, id); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestRequestListOrder(t *testing.T) {
	ctx := context.Background()
	repo := storagetest.NewRepositories(t).Requests
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := repo.Enqueue(ctx, newRequest("Late", base.Add(time.Hour), models.ActionAdd))
	require.NoError(t, err)
	_, _, err = repo.Enqueue(ctx, newRequest("Early", base, models.ActionDelete))
	require.NoError(t, err)

	reqs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Early", reqs[0].GroupName)
	assert.Equal(t, "Late", reqs[1].GroupName)
}
