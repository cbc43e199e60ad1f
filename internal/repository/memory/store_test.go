package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbot/internal/models"
)

func TestGiftCreateForcesAvailable(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	gift, err := store.Create(ctx, &models.Gift{
		Name:   "Drill",
		Status: models.GiftStatusBought,
	})
	require.NoError(t, err)

	assert.Equal(t, models.GiftStatusAvailable, gift.Status)
	assert.Equal(t, models.CategoryOther, gift.Category)
	assert.NotZero(t, gift.ID)
	assert.False(t, gift.CreatedAt.IsZero())
}

func TestGiftGetByIDMissingIsNilNil(t *testing.T) {
	store := NewStore()

	gift, err := store.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, gift)
}

func TestGiftListOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	zither, err := store.Create(ctx, &models.Gift{Name: "Zither", Category: models.CategoryHobby})
	require.NoError(t, err)
	_, err = store.Create(ctx, &models.Gift{Name: "Apron", Category: models.CategoryHome})
	require.NoError(t, err)
	_, err = store.Create(ctx, &models.Gift{Name: "Teapot", Category: models.CategoryHome})
	require.NoError(t, err)

	// Status rank dominates category and name.
	require.NoError(t, store.SetStatus(ctx, zither.ID, models.GiftStatusClaimed))

	gifts, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, gifts, 3)
	assert.Equal(t, "Apron", gifts[0].Name)
	assert.Equal(t, "Teapot", gifts[1].Name)
	assert.Equal(t, "Zither", gifts[2].Name)
}

func TestContributionUpsertIsUniquePerGiftAndUser(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	gift, err := store.Create(ctx, &models.Gift{Name: "Drill"})
	require.NoError(t, err)

	first, err := store.Upsert(ctx, &models.Contribution{GiftID: gift.ID, UserID: 100, UserName: "Alice"})
	require.NoError(t, err)

	amount := 500
	second, err := store.Upsert(ctx, &models.Contribution{
		GiftID: gift.ID, UserID: 100, UserName: "Alice A.", Amount: &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	contribs, err := store.ListByGift(ctx, gift.ID)
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Equal(t, "Alice A.", contribs[0].UserName)
	require.NotNil(t, contribs[0].Amount)
	assert.Equal(t, 500, *contribs[0].Amount)
}

func TestWithdrawResetsStatusWhenLastContributorLeaves(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	gift, err := store.Create(ctx, &models.Gift{Name: "Drill"})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: gift.ID, UserID: 100})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: gift.ID, UserID: 200})
	require.NoError(t, err)
	require.NoError(t, store.SetStatus(ctx, gift.ID, models.GiftStatusClaimed))

	require.NoError(t, store.Withdraw(ctx, gift.ID, 100))
	g, err := store.GetByID(ctx, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusClaimed, g.Status)

	require.NoError(t, store.Withdraw(ctx, gift.ID, 200))
	g, err = store.GetByID(ctx, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusAvailable, g.Status)
}

func TestMarkAlreadyHasDeletesContributions(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	gift, err := store.Create(ctx, &models.Gift{Name: "Radio"})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: gift.ID, UserID: 100})
	require.NoError(t, err)

	require.NoError(t, store.MarkAlreadyHas(ctx, gift.ID))

	g, err := store.GetByID(ctx, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusAlreadyHas, g.Status)

	contribs, err := store.ListByGift(ctx, gift.ID)
	require.NoError(t, err)
	assert.Empty(t, contribs)
}

func TestDeleteCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	gift, err := store.Create(ctx, &models.Gift{Name: "Lamp"})
	require.NoError(t, err)
	other, err := store.Create(ctx, &models.Gift{Name: "Mug"})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: gift.ID, UserID: 100})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: other.ID, UserID: 100})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, gift.ID))

	g, err := store.GetByID(ctx, gift.ID)
	require.NoError(t, err)
	assert.Nil(t, g)

	mine, err := store.ListByContributor(ctx, 100)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, other.ID, mine[0].ID)
}

func TestParticipantUpsertUpdatesInPlace(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertParticipant(ctx, &models.Participant{
		UserID: 100, Username: "alice", Name: "Alice", ChatID: 1,
	}))
	first, err := store.GetParticipant(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, store.UpsertParticipant(ctx, &models.Participant{
		UserID: 100, Username: "alice_new", Name: "Alice", ChatID: 2,
	}))

	p, err := store.GetParticipant(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "alice_new", p.Username)
	assert.Equal(t, int64(2), p.ChatID)
	assert.Equal(t, first.FirstSeen, p.FirstSeen)

	participants, err := store.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Len(t, participants, 1)
}

func TestUnbanUnknownUserFails(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.Error(t, store.UnbanUser(ctx, 100))

	require.NoError(t, store.BanUser(ctx, 100, "Alice"))
	require.NoError(t, store.UnbanUser(ctx, 100))

	banned, err := store.IsBanned(ctx, 100)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestStatsAggregation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{}, stats)

	a, err := store.Create(ctx, &models.Gift{Name: "A"})
	require.NoError(t, err)
	b, err := store.Create(ctx, &models.Gift{Name: "B"})
	require.NoError(t, err)
	require.NoError(t, store.SetStatus(ctx, b.ID, models.GiftStatusClaimed))

	amount := 700
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: a.ID, UserID: 100, Amount: &amount})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &models.Contribution{GiftID: b.ID, UserID: 100})
	require.NoError(t, err)

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Available)
	assert.Equal(t, 1, stats.Claimed)
	assert.Equal(t, 1, stats.Participants)
	assert.Equal(t, 700, stats.TotalAmount)
}
