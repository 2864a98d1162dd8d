package usecase

import (
	"context"
	"testing"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemReward(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.store.addUser("jane@example.com", 600)
	reward := f.store.addReward("5% Discount", 200, true)

	resp, err := f.svc.Loyalty.RedeemReward(ctx, user.ID, reward.ID)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.PointsSpent)
	assert.Equal(t, 400, resp.LoyaltyPoints)
	assert.Equal(t, entity.TierBronze, resp.Tier)
	assert.Equal(t, 400, f.store.user(user.ID).LoyaltyPoints)
	assert.Equal(t, 400, f.store.ledgerSum(user.ID))

	ledger := f.store.ledgerFor(user.ID)
	last := ledger[len(ledger)-1]
	assert.Equal(t, entity.TransactionRedeemed, last.Type)
	assert.Equal(t, -200, last.Points)
	assert.Equal(t, "Redeemed: 5% Discount", last.Description)
}

func TestRedeemReward_InsufficientPoints(t *testing.T) {
	f := newFixture()
	user := f.store.addUser("jane@example.com", 150)
	reward := f.store.addReward("Free Add-on", 200, true)

	_, err := f.svc.Loyalty.RedeemReward(context.Background(), user.ID, reward.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "insufficient points", PublicMessage(err))

	assert.Equal(t, 150, f.store.user(user.ID).LoyaltyPoints)
	assert.Len(t, f.store.ledgerFor(user.ID), 1)
}

func TestRedeemReward_InactiveOrMissing(t *testing.T) {
	f := newFixture()
	user := f.store.addUser("jane@example.com", 1000)
	retired := f.store.addReward("Retired", 100, false)

	_, err := f.svc.Loyalty.RedeemReward(context.Background(), user.ID, retired.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Loyalty.RedeemReward(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1000, f.store.user(user.ID).LoyaltyPoints)
}

func TestGetSummary(t *testing.T) {
	f := newFixture()
	user := f.store.addUser("jane@example.com", 1600)

	summary, err := f.svc.Loyalty.GetSummary(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1600, summary.Points)
	assert.Equal(t, entity.TierGold, summary.Tier)
	assert.Equal(t, entity.TierGold.Benefits(), summary.Benefits)
	require.NotNil(t, summary.NextTier)
	assert.Equal(t, entity.TierPlatinum, *summary.NextTier)
	assert.Equal(t, 2400, summary.PointsToNextTier)
	assert.Len(t, summary.Tiers, 4)
	assert.Len(t, summary.RecentTransactions, 1)
}

func TestGetSummary_TopTier(t *testing.T) {
	f := newFixture()
	user := f.store.addUser("vip@example.com", 5000)

	summary, err := f.svc.Loyalty.GetSummary(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TierPlatinum, summary.Tier)
	assert.Nil(t, summary.NextTier)
	assert.Zero(t, summary.PointsToNextTier)
}

func TestRewardCatalogue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Loyalty.CreateReward(ctx, &request.CreateRewardRequest{
		Name: "Free Fridge Clean", Description: "Add-on on your next visit", PointsRequired: 300,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	rewards, err := f.svc.Loyalty.GetRewards(ctx)
	require.NoError(t, err)
	assert.Len(t, rewards, 1)

	off := false
	require.NoError(t, f.svc.Loyalty.SetRewardActive(ctx, uuid.MustParse(created.ID), &request.SetRewardActiveRequest{Active: &off}))

	rewards, err = f.svc.Loyalty.GetRewards(ctx)
	require.NoError(t, err)
	assert.Empty(t, rewards)

	all, err := f.svc.Loyalty.GetAllRewards(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = f.svc.Loyalty.SetRewardActive(ctx, uuid.MustParse(created.ID), &request.SetRewardActiveRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}
