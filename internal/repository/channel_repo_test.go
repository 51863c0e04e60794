package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

func Test_AddChannel(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	subs := int64(1200)
	rec, err := repo.Add(ctx, "user-1", model.AddChannelRequest{
		ChannelID:       "UCuAXFkgsw1L7xaCfnd5JJOw",
		ChannelName:     "Rick Astley",
		ChannelURL:      "https://youtube.com/@RickAstley",
		SubscriberCount: &subs,
		IsActive:        true,
	})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "user-1", rec.OwnerID)
	assert.Equal(t, "Rick Astley", rec.ChannelName)
	require.NotNil(t, rec.SubscriberCount)
	assert.EqualValues(t, 1200, *rec.SubscriberCount)
	assert.True(t, rec.IsActive)
	assert.Nil(t, rec.LastCheckedAt)
	assert.False(t, rec.CreatedAt.IsZero())
}

func Test_AddChannel_DuplicatePerOwner(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC123", true)

	_, err := repo.Add(ctx, "user-1", model.AddChannelRequest{
		ChannelID:   "UC123",
		ChannelName: "same channel again",
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateChannel)

	// A different user may whitelist the same external channel.
	rec, err := repo.Add(ctx, "user-2", model.AddChannelRequest{
		ChannelID:   "UC123",
		ChannelName: "independent copy",
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-2", rec.OwnerID)
}

func Test_UpdateChannel(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	orig := mustAddChannel(t, repo, "user-1", "UC123", true)

	name := "renamed"
	vids := int64(42)
	rec, err := repo.Update(ctx, "user-1", "UC123", model.ChannelPatch{
		ChannelName: &name,
		VideoCount:  &vids,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", rec.ChannelName)
	require.NotNil(t, rec.VideoCount)
	assert.EqualValues(t, 42, *rec.VideoCount)

	// Unpatched fields keep their values.
	assert.Equal(t, orig.ChannelURL, rec.ChannelURL)
	assert.True(t, rec.IsActive)
	assert.False(t, rec.UpdatedAt.Before(orig.UpdatedAt))
}

func Test_UpdateChannel_NotFound(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)

	name := "x"
	_, err := repo.Update(context.Background(), "user-1", "UC-missing", model.ChannelPatch{ChannelName: &name})
	assert.ErrorIs(t, err, apperr.ErrChannelNotFound)
}

func Test_UpdateChannel_OwnerScoped(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC123", true)

	// Another user cannot touch it; from their view the record does not exist.
	name := "hijacked"
	_, err := repo.Update(ctx, "user-2", "UC123", model.ChannelPatch{ChannelName: &name})
	assert.ErrorIs(t, err, apperr.ErrChannelNotFound)

	rec, err := repo.FindByChannelID(ctx, "user-1", "UC123")
	require.NoError(t, err)
	assert.Equal(t, "UC123 name", rec.ChannelName)
}

func Test_MarkChecked(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC123", true)

	require.NoError(t, repo.MarkChecked(ctx, "user-1", "UC123"))

	rec, err := repo.FindByChannelID(ctx, "user-1", "UC123")
	require.NoError(t, err)
	require.NotNil(t, rec.LastCheckedAt)
	assert.Equal(t, "UC123 name", rec.ChannelName)

	assert.ErrorIs(t, repo.MarkChecked(ctx, "user-1", "UC-missing"), apperr.ErrChannelNotFound)
}

func Test_UpdateChannel_RejectsBlankName(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC123", true)

	for _, blank := range []string{"", "   "} {
		name := blank
		_, err := repo.Update(ctx, "user-1", "UC123", model.ChannelPatch{ChannelName: &name})
		assert.Equal(t, apperr.CodeInvalidValue, apperr.CodeOf(err))
	}

	rec, err := repo.FindByChannelID(ctx, "user-1", "UC123")
	require.NoError(t, err)
	assert.Equal(t, "UC123 name", rec.ChannelName)
}

func Test_MarkCheckedBatch(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC-a", true)
	mustAddChannel(t, repo, "user-1", "UC-b", true)

	checked, err := repo.MarkCheckedBatch(ctx, "user-1", []string{"UC-a", "UC-b"})
	require.NoError(t, err)
	assert.Equal(t, 2, checked)

	for _, id := range []string{"UC-a", "UC-b"} {
		rec, err := repo.FindByChannelID(ctx, "user-1", id)
		require.NoError(t, err)
		assert.NotNil(t, rec.LastCheckedAt)
	}
}

func Test_MarkCheckedBatch_FailureRollsBackWholeBatch(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC-a", true)
	mustAddChannel(t, repo, "user-1", "UC-b", true)

	// UC-a would be marked first; the missing id fails the batch and no mark
	// may survive.
	checked, err := repo.MarkCheckedBatch(ctx, "user-1", []string{"UC-a", "UC-missing", "UC-b"})
	assert.ErrorIs(t, err, apperr.ErrChannelNotFound)
	assert.Zero(t, checked)

	for _, id := range []string{"UC-a", "UC-b"} {
		rec, err := repo.FindByChannelID(ctx, "user-1", id)
		require.NoError(t, err)
		assert.Nil(t, rec.LastCheckedAt)
	}
}

func Test_RemoveChannel_Strict(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC123", true)

	require.NoError(t, repo.Remove(ctx, "user-1", "UC123"))

	// Removing again reports the absence instead of succeeding silently.
	assert.ErrorIs(t, repo.Remove(ctx, "user-1", "UC123"), apperr.ErrChannelNotFound)
}

func Test_ListByOwner(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC-a", true)
	mustAddChannel(t, repo, "user-1", "UC-b", false)
	mustAddChannel(t, repo, "user-1", "UC-c", true)
	mustAddChannel(t, repo, "user-2", "UC-other", true)

	all, err := repo.ListByOwner(ctx, "user-1", model.ChannelListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first; equal timestamps fall back to id order.
	assert.Equal(t, "UC-c", all[0].ChannelID)
	assert.Equal(t, "UC-a", all[2].ChannelID)

	active := true
	onlyActive, err := repo.ListByOwner(ctx, "user-1", model.ChannelListFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 2)
	for _, rec := range onlyActive {
		assert.True(t, rec.IsActive)
	}

	inactive := false
	onlyInactive, err := repo.ListByOwner(ctx, "user-1", model.ChannelListFilter{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, onlyInactive, 1)
	assert.Equal(t, "UC-b", onlyInactive[0].ChannelID)
}

func Test_PurgeOwner(t *testing.T) {
	cleanTables(t)
	channels := NewChannelRepo(testPool)
	categories := NewCategoryRepo(testPool)
	prefs := NewPreferencesRepo(testPool)
	logs := NewSyncLogRepo(testPool)
	ctx := context.Background()

	rec := mustAddChannel(t, channels, "user-1", "UC123", true)
	cat, err := categories.Create(ctx, "user-1", "Music")
	require.NoError(t, err)
	require.NoError(t, categories.AddMember(ctx, cat.ID, rec.ID))
	_, err = prefs.Get(ctx, "user-1")
	require.NoError(t, err)
	entry, err := logs.Begin(ctx, "user-1", model.SyncFull, nil)
	require.NoError(t, err)

	mustAddChannel(t, channels, "user-2", "UC-other", true)

	require.NoError(t, channels.PurgeOwner(ctx, "user-1"))

	_, err = channels.FindByChannelID(ctx, "user-1", "UC123")
	assert.ErrorIs(t, err, apperr.ErrChannelNotFound)
	cats, err := categories.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cats)

	var prefRows int
	require.NoError(t, testPool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_preferences WHERE owner_id = 'user-1'`).Scan(&prefRows))
	assert.Zero(t, prefRows)

	// Sync history survives the purge.
	kept, err := logs.Find(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", kept.OwnerID)

	// Other users are untouched.
	other, err := channels.FindByChannelID(ctx, "user-2", "UC-other")
	require.NoError(t, err)
	assert.Equal(t, "UC-other", other.ChannelID)
}

func Test_CountActive(t *testing.T) {
	cleanTables(t)
	repo := NewChannelRepo(testPool)
	ctx := context.Background()

	mustAddChannel(t, repo, "user-1", "UC-a", true)
	mustAddChannel(t, repo, "user-1", "UC-b", false)
	mustAddChannel(t, repo, "user-1", "UC-c", true)

	count, err := repo.CountActive(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
