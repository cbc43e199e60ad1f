package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbot/internal/models"
	"giftbot/internal/service"
)

func TestCreateGift(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Espresso machine", intPtr(12000), models.CategoryHome)
	require.NoError(t, err)

	assert.Equal(t, "Espresso machine", gift.Name)
	assert.Equal(t, models.GiftStatusAvailable, gift.Status)
	assert.Equal(t, models.CategoryHome, gift.Category)
	require.NotNil(t, gift.Price)
	assert.Equal(t, 12000, *gift.Price)
	assert.Equal(t, alice, gift.AddedByID)
}

func TestCreateGiftValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateGift(ctx, alice, "Alice", "   ", nil, "")
	assert.ErrorIs(t, err, service.ErrEmptyName)

	_, err = svc.CreateGift(ctx, alice, "Alice", "Book", intPtr(-5), "")
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = svc.CreateGift(ctx, alice, "Alice", "Book", nil, models.GiftCategory("weird"))
	assert.ErrorIs(t, err, service.ErrBadCategory)

	// A zero price means "unknown" and is stored as no price at all.
	gift, err := svc.CreateGift(ctx, alice, "Alice", "Book", intPtr(0), "")
	require.NoError(t, err)
	assert.Nil(t, gift.Price)
	assert.Equal(t, models.CategoryOther, gift.Category)
}

func TestSoloClaimLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Headphones", intPtr(8000), models.CategoryTech)
	require.NoError(t, err)

	gift, err = svc.Claim(ctx, bob, "Bob", gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusClaimed, gift.Status)
	require.Len(t, gift.Contributions, 1)
	assert.Equal(t, bob, gift.Contributions[0].UserID)
	assert.Nil(t, gift.Contributions[0].Amount)

	require.NoError(t, svc.SetPledge(ctx, bob, gift.ID, 8000))

	gift, err = svc.MarkBought(ctx, bob, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusBought, gift.Status)

	// The purchase record survives the terminal transition.
	require.Len(t, gift.Contributions, 1)
	require.NotNil(t, gift.Contributions[0].Amount)
	assert.Equal(t, 8000, *gift.Contributions[0].Amount)
}

func TestCoFunding(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Road bike", intPtr(60000), models.CategoryHobby)
	require.NoError(t, err)

	_, err = svc.Claim(ctx, alice, "Alice", gift.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SetPledge(ctx, alice, gift.ID, 20000))

	gift, err = svc.Join(ctx, bob, "Bob", gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusClaimed, gift.Status)
	require.Len(t, gift.Contributions, 2)

	require.NoError(t, svc.SetPledge(ctx, bob, gift.ID, 15000))

	// Joining twice is reported, not silently absorbed.
	_, err = svc.Join(ctx, bob, "Bob", gift.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyJoined)

	// One contributor leaving keeps the gift claimed for the rest.
	gift, err = svc.Withdraw(ctx, alice, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusClaimed, gift.Status)
	require.Len(t, gift.Contributions, 1)
	assert.Equal(t, bob, gift.Contributions[0].UserID)

	// The last contributor leaving frees the gift again.
	gift, err = svc.Withdraw(ctx, bob, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusAvailable, gift.Status)
	assert.Empty(t, gift.Contributions)
}

func TestSetPledgeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Scarf", nil, models.CategoryFashion)
	require.NoError(t, err)

	err = svc.SetPledge(ctx, bob, gift.ID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	err = svc.SetPledge(ctx, bob, gift.ID, -100)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	// No pledge without a contribution first.
	err = svc.SetPledge(ctx, bob, gift.ID, 500)
	assert.ErrorIs(t, err, service.ErrNoContribution)
}

func TestWithdrawWithoutContribution(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Mug", nil, "")
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, bob, gift.ID)
	assert.ErrorIs(t, err, service.ErrNoContribution)
}

func TestAlreadyHasWipesContributions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Kindle", intPtr(14000), models.CategoryTech)
	require.NoError(t, err)

	_, err = svc.Claim(ctx, alice, "Alice", gift.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SetPledge(ctx, alice, gift.ID, 7000))
	_, err = svc.Join(ctx, bob, "Bob", gift.ID)
	require.NoError(t, err)

	gift, err = svc.MarkAlreadyHas(ctx, carol, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusAlreadyHas, gift.Status)
	assert.Empty(t, gift.Contributions)

	// The invalidated pledges no longer count toward anything.
	stats, err := svc.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAmount)
	assert.Equal(t, 0, stats.Participants)
}

func TestDeleteGift(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Lamp", nil, models.CategoryHome)
	require.NoError(t, err)
	_, err = svc.Claim(ctx, bob, "Bob", gift.ID)
	require.NoError(t, err)

	// Ordinary actors cannot delete.
	err = svc.DeleteGift(ctx, bob, gift.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	require.NoError(t, store.AddAdmin(ctx, alice, "Alice"))
	require.NoError(t, svc.DeleteGift(ctx, alice, gift.ID))

	_, err = svc.GetGift(ctx, alice, gift.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// The cascade removed Bob's contribution too.
	mine, err := svc.MyGifts(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestActionsOnMissingGift(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.AddAdmin(ctx, alice, "Alice"))

	_, err := svc.GetGift(ctx, alice, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.Claim(ctx, alice, "Alice", 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.Join(ctx, alice, "Alice", 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.Withdraw(ctx, alice, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.MarkBought(ctx, alice, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.MarkAlreadyHas(ctx, alice, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	err = svc.DeleteGift(ctx, alice, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListGiftsOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	banjo, err := svc.CreateGift(ctx, alice, "Alice", "Banjo", nil, models.CategoryHobby)
	require.NoError(t, err)
	_, err = svc.CreateGift(ctx, alice, "Alice", "Apron", nil, models.CategoryHome)
	require.NoError(t, err)
	_, err = svc.CreateGift(ctx, alice, "Alice", "Teapot", nil, models.CategoryHome)
	require.NoError(t, err)

	// A claimed gift sorts after every available one.
	_, err = svc.Claim(ctx, bob, "Bob", banjo.ID)
	require.NoError(t, err)

	gifts, err := svc.ListGifts(ctx, alice)
	require.NoError(t, err)
	require.Len(t, gifts, 3)
	assert.Equal(t, "Apron", gifts[0].Name)
	assert.Equal(t, "Teapot", gifts[1].Name)
	assert.Equal(t, "Banjo", gifts[2].Name)
}

func TestMyGiftsCarriesViewerAmount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, alice, "Alice", "Backpack", nil, "")
	require.NoError(t, err)
	_, err = svc.Claim(ctx, bob, "Bob", gift.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SetPledge(ctx, bob, gift.ID, 4500))

	mine, err := svc.MyGifts(ctx, bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].ViewerAmount)
	assert.Equal(t, 4500, *mine[0].ViewerAmount)

	other, err := svc.MyGifts(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, other)
}
