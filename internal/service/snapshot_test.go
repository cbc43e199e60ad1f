package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbot/internal/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	src, _ := newTestService(t)
	ctx := context.Background()

	_, err := src.InitSession(ctx, alice, "alice", "Alice", 1001)
	require.NoError(t, err)
	_, err = src.InitSession(ctx, bob, "bob", "Bob", 1002)
	require.NoError(t, err)
	require.NoError(t, src.BanActor(ctx, alice, honoree, "Grandpa"))
	require.NoError(t, src.PromoteAdmin(ctx, alice, bob, "Bob"))

	free, err := src.CreateGift(ctx, alice, "Alice", "Socks", nil, "")
	require.NoError(t, err)

	claimed, err := src.CreateGift(ctx, alice, "Alice", "Drill", intPtr(9000), models.CategoryHome)
	require.NoError(t, err)
	_, err = src.Claim(ctx, bob, "Bob", claimed.ID)
	require.NoError(t, err)
	require.NoError(t, src.SetPledge(ctx, bob, claimed.ID, 9000))

	_, err = src.AddFact(ctx, bob, "tells the same joke every year")
	require.NoError(t, err)

	snap, err := src.Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Gifts, 2)
	require.Len(t, snap.Contributions, 1)
	assert.False(t, snap.ExportedAt.IsZero())

	// Restore into a fresh store.
	dst, dstStore := newTestService(t)
	require.NoError(t, dst.Import(ctx, snap))

	gifts, err := dstStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, gifts, 2)

	byName := map[string]*models.Gift{}
	for _, g := range gifts {
		byName[g.Name] = g
	}
	require.Contains(t, byName, free.Name)
	require.Contains(t, byName, claimed.Name)
	assert.Equal(t, models.GiftStatusAvailable, byName["Socks"].Status)
	assert.Equal(t, models.GiftStatusClaimed, byName["Drill"].Status)

	// The contribution followed its gift onto the new id.
	contribs, err := dstStore.ListByGift(ctx, byName["Drill"].ID)
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Equal(t, bob, contribs[0].UserID)
	require.NotNil(t, contribs[0].Amount)
	assert.Equal(t, 9000, *contribs[0].Amount)

	banned, err := dstStore.IsBanned(ctx, honoree)
	require.NoError(t, err)
	assert.True(t, banned)

	isAdmin, err := dstStore.IsAdmin(ctx, bob)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	facts, err := dstStore.ListFacts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "tells the same joke every year", facts[0].Text)
}

func TestSnapshotImportReportsOrphanContribution(t *testing.T) {
	src, _ := newTestService(t)
	ctx := context.Background()

	snap, err := src.Export(ctx)
	require.NoError(t, err)
	snap.Contributions = append(snap.Contributions, &models.Contribution{
		GiftID: 77, UserID: bob, UserName: "Bob",
	})

	dst, dstStore := newTestService(t)
	err = dst.Import(ctx, snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gift 77")

	// The rest of the import still landed.
	gifts, err := dstStore.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, gifts)
}
