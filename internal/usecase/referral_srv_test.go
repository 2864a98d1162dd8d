package usecase

import (
	"context"
	"testing"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sequence(codes ...string) func() string {
	i := 0
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}

func TestGetOrCreateCode(t *testing.T) {
	ctx := context.Background()

	t.Run("retries on collision", func(t *testing.T) {
		store := newMemStore()
		taken := store.addUser("old@example.com", 0)
		code := "CHUBAAAAAA"
		store.users[taken.ID].ReferralCode = &code
		user := store.addUser("jane@example.com", 0)

		svc := NewReferralService(store.repository(), newFakeNotifier(), zap.NewNop()).(*referralService)
		svc.newCode = sequence("CHUBAAAAAA", "CHUBBBBBBB")

		resp, err := svc.GetOrCreateCode(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "CHUBBBBBBB", resp.Code)
		assert.Equal(t, "CHUBBBBBBB", *store.user(user.ID).ReferralCode)
	})

	t.Run("returns existing code", func(t *testing.T) {
		store := newMemStore()
		user := store.addUser("jane@example.com", 0)
		code := "CHUBZZZZZZ"
		store.users[user.ID].ReferralCode = &code

		svc := NewReferralService(store.repository(), newFakeNotifier(), zap.NewNop())
		resp, err := svc.GetOrCreateCode(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, code, resp.Code)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		store := newMemStore()
		taken := store.addUser("old@example.com", 0)
		code := "CHUBAAAAAA"
		store.users[taken.ID].ReferralCode = &code
		user := store.addUser("jane@example.com", 0)

		svc := NewReferralService(store.repository(), newFakeNotifier(), zap.NewNop()).(*referralService)
		svc.newCode = sequence("CHUBAAAAAA")

		_, err := svc.GetOrCreateCode(ctx, user.ID)
		assert.ErrorIs(t, err, ErrPersistence)
		assert.Nil(t, store.user(user.ID).ReferralCode)
	})

	t.Run("generated codes use the prefix", func(t *testing.T) {
		f := newFixture()
		user := f.store.addUser("jane@example.com", 0)

		resp, err := f.svc.Referral.GetOrCreateCode(ctx, user.ID)
		require.NoError(t, err)
		assert.Regexp(t, `^CHUB[A-Z0-9]{6}$`, resp.Code)
	})
}

func TestReferral_CreditedOnceOnFirstCompletedBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	referrer := f.store.addUser("ref@example.com", 0)
	code, err := f.svc.Referral.GetOrCreateCode(ctx, referrer.ID)
	require.NoError(t, err)

	registered, err := f.svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:         "New Customer",
		Email:        "new@example.com",
		Password:     "secret123",
		ReferralCode: &code.Code,
	}, ClientInfo{})
	require.NoError(t, err)

	newUser, err := f.store.repository().User.FindByEmail(ctx, registered.Email)
	require.NoError(t, err)
	require.NotNil(t, newUser)

	first := f.store.addBooking(&newUser.ID, entity.BookingStatusConfirmed)
	second := f.store.addBooking(&newUser.ID, entity.BookingStatusConfirmed)

	_, err = f.svc.Booking.UpdateBookingStatus(ctx, first.ID, &request.UpdateBookingStatusRequest{Status: "completed"})
	require.NoError(t, err)

	assert.Equal(t, entity.ReferralBonusPoints, f.store.user(referrer.ID).LoyaltyPoints)
	ledger := f.store.ledgerFor(referrer.ID)
	require.Len(t, ledger, 1)
	assert.Equal(t, "Referral bonus: new@example.com", ledger[0].Description)
	assert.Equal(t, 1, f.notifier.referralsComplete)

	_, err = f.svc.Booking.UpdateBookingStatus(ctx, second.ID, &request.UpdateBookingStatusRequest{Status: "completed"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Referral.CompleteOnFirstBooking(ctx, newUser.ID))

	assert.Equal(t, entity.ReferralBonusPoints, f.store.user(referrer.ID).LoyaltyPoints)
	assert.Len(t, f.store.ledgerFor(referrer.ID), 1)

	summary, err := f.svc.Referral.ListReferrals(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalReferrals)
	assert.Equal(t, 1, summary.CompletedReferrals)
	assert.Equal(t, entity.ReferralBonusPoints, summary.PointsEarned)
}

func TestReferral_NoReferralIsNoop(t *testing.T) {
	f := newFixture()
	user := f.store.addUser("jane@example.com", 0)
	f.store.addBooking(&user.ID, entity.BookingStatusCompleted)

	require.NoError(t, f.svc.Referral.CompleteOnFirstBooking(context.Background(), user.ID))
	assert.Equal(t, 0, f.notifier.referralsComplete)
}
