package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		points int
		want   LoyaltyTier
	}{
		{-10, TierBronze},
		{0, TierBronze},
		{499, TierBronze},
		{500, TierSilver},
		{1499, TierSilver},
		{1500, TierGold},
		{3999, TierGold},
		{4000, TierPlatinum},
		{100000, TierPlatinum},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(tt.points), "points=%d", tt.points)
	}
}

func TestTierOf_GreatestThresholdNotAbove(t *testing.T) {
	for p := 0; p <= 5000; p += 7 {
		got := TierOf(p)

		var want TierThreshold
		for _, th := range TierThresholds {
			if th.Points <= p {
				want = th
			}
		}
		assert.Equal(t, want.Tier, got, "points=%d", p)
	}
}

func TestNextTier(t *testing.T) {
	next, remaining, ok := NextTier(120)
	assert.True(t, ok)
	assert.Equal(t, TierSilver, next)
	assert.Equal(t, 380, remaining)

	next, remaining, ok = NextTier(1500)
	assert.True(t, ok)
	assert.Equal(t, TierPlatinum, next)
	assert.Equal(t, 2500, remaining)

	_, _, ok = NextTier(4000)
	assert.False(t, ok)
}

func TestNextTier_NegativeCountsAsBronze(t *testing.T) {
	assert.Equal(t, TierBronze, TierOf(-5))

	next, remaining, ok := NextTier(-5)
	assert.True(t, ok)
	assert.Equal(t, TierSilver, next)
	assert.Equal(t, 500, remaining)
}

func TestTierBenefits(t *testing.T) {
	for _, th := range TierThresholds {
		assert.NotEmpty(t, th.Tier.Benefits())
	}
}

func TestBookingTransitions(t *testing.T) {
	b := &Booking{Status: BookingStatusPending}
	assert.True(t, b.CanTransitionTo(BookingStatusConfirmed))
	assert.True(t, b.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, b.CanTransitionTo(BookingStatusPending))

	b.Status = BookingStatusConfirmed
	assert.True(t, b.CanTransitionTo(BookingStatusCompleted))
	assert.False(t, b.CanTransitionTo(BookingStatusPending))

	for _, terminal := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled} {
		b.Status = terminal
		for _, next := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled} {
			assert.False(t, b.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}
