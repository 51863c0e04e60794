package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

func Test_CreateCategory(t *testing.T) {
	cleanTables(t)
	repo := NewCategoryRepo(testPool)
	ctx := context.Background()

	cat, err := repo.Create(ctx, "user-1", "Music")
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)
	assert.Equal(t, "Music", cat.Name)

	_, err = repo.Create(ctx, "user-1", "Music")
	assert.ErrorIs(t, err, apperr.ErrDuplicateCategory)

	// Names are only unique per user.
	_, err = repo.Create(ctx, "user-2", "Music")
	require.NoError(t, err)
}

func Test_RenameCategory(t *testing.T) {
	cleanTables(t)
	repo := NewCategoryRepo(testPool)
	ctx := context.Background()

	cat, err := repo.Create(ctx, "user-1", "Music")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "user-1", "Science")
	require.NoError(t, err)

	require.NoError(t, repo.Rename(ctx, "user-1", cat.ID, "Tunes"))

	renamed, err := repo.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tunes", renamed.Name)

	// Renaming onto an existing name hits the uniqueness constraint.
	assert.ErrorIs(t, repo.Rename(ctx, "user-1", cat.ID, "Science"), apperr.ErrDuplicateCategory)

	// Other users' categories are invisible to rename.
	assert.ErrorIs(t, repo.Rename(ctx, "user-2", cat.ID, "Stolen"), apperr.ErrCategoryNotFound)
}

func Test_DeleteCategory_KeepsRecords(t *testing.T) {
	cleanTables(t)
	categories := NewCategoryRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()

	rec := mustAddChannel(t, channels, "user-1", "UC123", true)
	cat, err := categories.Create(ctx, "user-1", "Music")
	require.NoError(t, err)
	require.NoError(t, categories.AddMember(ctx, cat.ID, rec.ID))

	require.NoError(t, categories.Delete(ctx, "user-1", cat.ID))

	// The edge is gone, the record survives.
	var edges int
	require.NoError(t, testPool.QueryRow(ctx,
		`SELECT COUNT(*) FROM category_members WHERE category_id = $1`, cat.ID).Scan(&edges))
	assert.Zero(t, edges)

	_, err = channels.FindByChannelID(ctx, "user-1", "UC123")
	require.NoError(t, err)
}

func Test_RemoveChannel_DetachesFromCategories(t *testing.T) {
	cleanTables(t)
	categories := NewCategoryRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()

	rec := mustAddChannel(t, channels, "user-1", "UC123", true)
	cat, err := categories.Create(ctx, "user-1", "Music")
	require.NoError(t, err)
	require.NoError(t, categories.AddMember(ctx, cat.ID, rec.ID))

	require.NoError(t, channels.Remove(ctx, "user-1", "UC123"))

	members, err := categories.ListMembers(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	// The category itself remains.
	_, err = categories.FindByID(ctx, cat.ID)
	require.NoError(t, err)
}

func Test_AddMember(t *testing.T) {
	cleanTables(t)
	categories := NewCategoryRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()

	rec := mustAddChannel(t, channels, "user-1", "UC123", true)
	cat, err := categories.Create(ctx, "user-1", "Music")
	require.NoError(t, err)

	require.NoError(t, categories.AddMember(ctx, cat.ID, rec.ID))
	// Re-attaching is a no-op, not an error.
	require.NoError(t, categories.AddMember(ctx, cat.ID, rec.ID))

	members, err := categories.ListMembers(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "UC123", members[0].ChannelID)
}

func Test_AddMember_OwnerMismatch(t *testing.T) {
	cleanTables(t)
	categories := NewCategoryRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()

	rec := mustAddChannel(t, channels, "user-1", "UC123", true)
	otherCat, err := categories.Create(ctx, "user-2", "Theirs")
	require.NoError(t, err)

	assert.ErrorIs(t, categories.AddMember(ctx, otherCat.ID, rec.ID), apperr.ErrOwnerMismatch)
	assert.ErrorIs(t, categories.RemoveMember(ctx, otherCat.ID, rec.ID), apperr.ErrOwnerMismatch)

	members, err := categories.ListMembers(ctx, otherCat.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func Test_RemoveMember_AbsentEdgeIsNoop(t *testing.T) {
	cleanTables(t)
	categories := NewCategoryRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()

	rec := mustAddChannel(t, channels, "user-1", "UC123", true)
	cat, err := categories.Create(ctx, "user-1", "Music")
	require.NoError(t, err)

	require.NoError(t, categories.RemoveMember(ctx, cat.ID, rec.ID))
}

func Test_TotalActiveChannels(t *testing.T) {
	cleanTables(t)
	categories := NewCategoryRepo(testPool)
	channels := NewChannelRepo(testPool)
	ctx := context.Background()

	active := mustAddChannel(t, channels, "user-1", "UC-active", true)
	inactive := mustAddChannel(t, channels, "user-1", "UC-inactive", false)
	cat, err := categories.Create(ctx, "user-1", "Mixed")
	require.NoError(t, err)
	require.NoError(t, categories.AddMember(ctx, cat.ID, active.ID))
	require.NoError(t, categories.AddMember(ctx, cat.ID, inactive.ID))

	count, err := categories.TotalActiveChannels(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
