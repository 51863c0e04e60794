package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

func Test_SyncLog_BeginPending(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	entry, err := repo.Begin(ctx, "user-1", model.SyncFull, &model.ClientMeta{
		IPHash:    "abcdef123456",
		UserAgent: "Whitelist/1.0",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, model.SyncPending, entry.Status)
	assert.False(t, entry.Status.Terminal())
	assert.Zero(t, entry.Counters.Synced)
	assert.Nil(t, entry.ResolvedAt)
	require.NotNil(t, entry.UserAgent)
	assert.Equal(t, "Whitelist/1.0", *entry.UserAgent)
}

func Test_SyncLog_BeginRejectsUnknownKind(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)

	_, err := repo.Begin(context.Background(), "user-1", model.SyncKind("sideways"), nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidSyncKind)
}

func Test_SyncLog_Complete(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	entry, err := repo.Begin(ctx, "user-1", model.SyncPartial, nil)
	require.NoError(t, err)

	done, err := repo.Complete(ctx, entry.ID, model.SyncCounters{Synced: 2, Added: 1, Deleted: 1})
	require.NoError(t, err)
	assert.Equal(t, model.SyncSuccess, done.Status)
	assert.True(t, done.Status.Terminal())
	assert.Equal(t, 2, done.Counters.Synced)
	assert.Equal(t, 1, done.Counters.Added)
	assert.Equal(t, 1, done.Counters.Deleted)
	require.NotNil(t, done.ResolvedAt)
}

func Test_SyncLog_Fail(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	entry, err := repo.Begin(ctx, "user-1", model.SyncFull, nil)
	require.NoError(t, err)

	failed, err := repo.Fail(ctx, entry.ID, "connection reset during batch")
	require.NoError(t, err)
	assert.Equal(t, model.SyncFailed, failed.Status)
	require.NotNil(t, failed.ErrorDetail)
	assert.Equal(t, "connection reset during batch", *failed.ErrorDetail)
	require.NotNil(t, failed.ResolvedAt)
}

func Test_SyncLog_TerminalStatesAreImmutable(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	entry, err := repo.Begin(ctx, "user-1", model.SyncFull, nil)
	require.NoError(t, err)
	_, err = repo.Complete(ctx, entry.ID, model.SyncCounters{Synced: 3})
	require.NoError(t, err)

	// Once resolved, neither outcome can be rewritten.
	_, err = repo.Complete(ctx, entry.ID, model.SyncCounters{Synced: 99})
	assert.ErrorIs(t, err, apperr.ErrSyncLogResolved)
	_, err = repo.Fail(ctx, entry.ID, "late failure")
	assert.ErrorIs(t, err, apperr.ErrSyncLogResolved)

	kept, err := repo.Find(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SyncSuccess, kept.Status)
	assert.Equal(t, 3, kept.Counters.Synced)
}

func Test_SyncLog_ResolveMissing(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	_, err := repo.Complete(ctx, uuid.New(), model.SyncCounters{})
	assert.ErrorIs(t, err, apperr.ErrSyncLogNotFound)
	_, err = repo.Fail(ctx, uuid.New(), "whatever")
	assert.ErrorIs(t, err, apperr.ErrSyncLogNotFound)
}

func Test_SyncLog_RejectsNegativeCounters(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	entry, err := repo.Begin(ctx, "user-1", model.SyncFull, nil)
	require.NoError(t, err)

	_, err = repo.Complete(ctx, entry.ID, model.SyncCounters{Synced: -1})
	assert.Equal(t, apperr.CodeInvalidValue, apperr.CodeOf(err))

	// The failed transition left the log pending.
	kept, err := repo.Find(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SyncPending, kept.Status)
}

func Test_SyncLog_ListByOwner(t *testing.T) {
	cleanTables(t)
	repo := NewSyncLogRepo(testPool)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Begin(ctx, "user-1", model.SyncPartial, nil)
		require.NoError(t, err)
	}
	_, err := repo.Begin(ctx, "user-2", model.SyncFull, nil)
	require.NoError(t, err)

	logs, err := repo.ListByOwner(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, "user-1", l.OwnerID)
	}

	limited, err := repo.ListByOwner(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
