package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbot/internal/service"
)

func TestBootstrapFirstAdmin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	session, err := svc.InitSession(ctx, alice, "alice", "Alice", 1001)
	require.NoError(t, err)
	assert.True(t, session.BecameAdmin)
	assert.True(t, session.Admin)
	assert.False(t, session.Banned)

	// The second actor stays ordinary.
	session, err = svc.InitSession(ctx, bob, "bob", "Bob", 1002)
	require.NoError(t, err)
	assert.False(t, session.BecameAdmin)
	assert.False(t, session.Admin)

	// A repeat session by the first actor does not re-bootstrap.
	session, err = svc.InitSession(ctx, alice, "alice", "Alice", 1001)
	require.NoError(t, err)
	assert.False(t, session.BecameAdmin)
	assert.True(t, session.Admin)

	admins, err := store.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, alice, admins[0].UserID)
}

func TestInitSessionRecordsBannedParticipant(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitSession(ctx, alice, "alice", "Alice", 1001)
	require.NoError(t, err)
	require.NoError(t, svc.BanActor(ctx, alice, honoree, "Grandpa"))

	session, err := svc.InitSession(ctx, honoree, "grandpa", "Grandpa", 1009)
	require.NoError(t, err)
	assert.True(t, session.Banned)

	// Still visible in the directory for later moderation.
	p, err := store.GetParticipant(ctx, honoree)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(1009), p.ChatID)
}

func TestBannedActorIsBlockedEverywhere(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Slippers", nil, "")
	require.NoError(t, err)
	require.NoError(t, store.BanUser(ctx, honoree, "Grandpa"))

	_, err = svc.CreateGift(ctx, honoree, "Grandpa", "Yacht", nil, "")
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.ListGifts(ctx, honoree)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.GetGift(ctx, honoree, gift.ID)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.MyGifts(ctx, honoree)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.Claim(ctx, honoree, "Grandpa", gift.ID)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.Join(ctx, honoree, "Grandpa", gift.ID)
	assert.ErrorIs(t, err, service.ErrBanned)
	err = svc.SetPledge(ctx, honoree, gift.ID, 100)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.Withdraw(ctx, honoree, gift.ID)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.MarkBought(ctx, honoree, gift.ID)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.MarkAlreadyHas(ctx, honoree, gift.ID)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.Stats(ctx, honoree)
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.AddFact(ctx, honoree, "loves fishing trips")
	assert.ErrorIs(t, err, service.ErrBanned)
	_, err = svc.ListFacts(ctx, honoree)
	assert.ErrorIs(t, err, service.ErrBanned)
}

func TestModerationRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.BanActor(ctx, bob, honoree, "Grandpa")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	err = svc.UnbanActor(ctx, bob, honoree)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	err = svc.PromoteAdmin(ctx, bob, carol, "Carol")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	_, err = svc.ListBanned(ctx, bob)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	_, err = svc.ListAdmins(ctx, bob)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestSelfBanRejected(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.AddAdmin(ctx, alice, "Alice"))

	err := svc.BanActor(ctx, alice, alice, "Alice")
	assert.ErrorIs(t, err, service.ErrSelfBan)

	banned, err := store.IsBanned(ctx, alice)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBanAndUnbanRoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.AddAdmin(ctx, alice, "Alice"))
	require.NoError(t, svc.BanActor(ctx, alice, bob, "Bob"))

	_, err := svc.ListGifts(ctx, bob)
	assert.ErrorIs(t, err, service.ErrBanned)

	banned, err := svc.ListBanned(ctx, alice)
	require.NoError(t, err)
	require.Len(t, banned, 1)
	assert.Equal(t, bob, banned[0].UserID)

	require.NoError(t, svc.UnbanActor(ctx, alice, bob))

	_, err = svc.ListGifts(ctx, bob)
	assert.NoError(t, err)
}

func TestBanningAnotherAdminAllowed(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.AddAdmin(ctx, alice, "Alice"))
	require.NoError(t, store.AddAdmin(ctx, bob, "Bob"))

	require.NoError(t, svc.BanActor(ctx, alice, bob, "Bob"))

	// Bob keeps the admin capability but loses feature access.
	isAdmin, err := svc.IsAdmin(ctx, bob)
	require.NoError(t, err)
	assert.True(t, isAdmin)
	_, err = svc.ListGifts(ctx, bob)
	assert.ErrorIs(t, err, service.ErrBanned)
}

func TestPromoteAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitSession(ctx, alice, "alice", "Alice", 1001)
	require.NoError(t, err)

	require.NoError(t, svc.PromoteAdmin(ctx, alice, bob, "Bob"))

	isAdmin, err := svc.IsAdmin(ctx, bob)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	admins, err := svc.ListAdmins(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, admins, 2)
}

func TestSuperAdminAlwaysAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	isAdmin, err := svc.IsAdmin(ctx, service.SuperAdminID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// Capability works without a store record.
	require.NoError(t, svc.BanActor(ctx, service.SuperAdminID, honoree, "Grandpa"))
}
