package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore backs every fake repository. A Repository built from it has no
// database handle; WithTx goes through atomic, which restores a snapshot when
// the callback fails.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	sessions  map[uuid.UUID]*entity.Session
	otps      map[uuid.UUID]*entity.OTP
	bookings  map[string]*entity.Booking
	reviews   map[uuid.UUID]*entity.Review
	referrals map[uuid.UUID]*entity.Referral
	ledger    []*entity.LoyaltyTransaction
	rewards   map[uuid.UUID]*entity.LoyaltyReward

	bookingErr  error
	referralErr error
	sessionErr  error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]*entity.User{},
		sessions:  map[uuid.UUID]*entity.Session{},
		otps:      map[uuid.UUID]*entity.OTP{},
		bookings:  map[string]*entity.Booking{},
		reviews:   map[uuid.UUID]*entity.Review{},
		referrals: map[uuid.UUID]*entity.Referral{},
		rewards:   map[uuid.UUID]*entity.LoyaltyReward{},
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:     &fakeUserRepo{m},
		Session:  &fakeSessionRepo{m},
		OTP:      &fakeOTPRepo{m},
		Booking:  &fakeBookingRepo{m},
		Review:   &fakeReviewRepo{m},
		Referral: &fakeReferralRepo{m},
		Loyalty:  &fakeLoyaltyRepo{m},
		Reward:   &fakeRewardRepo{m},
		Atomic:   m.atomic,
	}
}

type memSnapshot struct {
	users     map[uuid.UUID]*entity.User
	sessions  map[uuid.UUID]*entity.Session
	otps      map[uuid.UUID]*entity.OTP
	bookings  map[string]*entity.Booking
	reviews   map[uuid.UUID]*entity.Review
	referrals map[uuid.UUID]*entity.Referral
	ledger    []*entity.LoyaltyTransaction
	rewards   map[uuid.UUID]*entity.LoyaltyReward
}

func cloneMap[K comparable, V any](src map[K]*V) map[K]*V {
	out := make(map[K]*V, len(src))
	for k, v := range src {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (m *memStore) atomic(_ context.Context, fn func() error) error {
	m.mu.Lock()
	snap := memSnapshot{
		users:     cloneMap(m.users),
		sessions:  cloneMap(m.sessions),
		otps:      cloneMap(m.otps),
		bookings:  cloneMap(m.bookings),
		reviews:   cloneMap(m.reviews),
		referrals: cloneMap(m.referrals),
		ledger:    append([]*entity.LoyaltyTransaction(nil), m.ledger...),
		rewards:   cloneMap(m.rewards),
	}
	m.mu.Unlock()

	if err := fn(); err != nil {
		m.mu.Lock()
		m.users, m.sessions, m.otps, m.bookings = snap.users, snap.sessions, snap.otps, snap.bookings
		m.reviews, m.referrals, m.ledger, m.rewards = snap.reviews, snap.referrals, snap.ledger, snap.rewards
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) findUserByEmail(email string) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (m *memStore) addUser(email string, points int) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &entity.User{
		Base:          entity.NewBase(time.Now()),
		Name:          strings.Split(email, "@")[0],
		Email:         email,
		Role:          entity.RoleCustomer,
		LoyaltyPoints: points,
		IsActive:      true,
	}
	m.users[u.ID] = u
	if points != 0 {
		m.ledger = append(m.ledger, &entity.LoyaltyTransaction{
			BaseSimple: entity.NewBaseSimple(time.Now()),
			UserID:     u.ID, Type: entity.TransactionEarned, Points: points, Description: "seed",
		})
	}
	cp := *u
	return &cp
}

func (m *memStore) addBooking(userID *uuid.UUID, status entity.BookingStatus) *entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	b := &entity.Booking{
		ID:            utils.GenerateBookingID(now),
		UserID:        userID,
		ServiceID:     "deep-cleaning",
		ServiceName:   "Deep Cleaning",
		Date:          "2025-02-01",
		Time:          "10:00",
		Duration:      240,
		Price:         25000,
		CustomerName:  "Jane",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+2348000000000",
		Status:        status,
		Channel:       entity.ChannelWebsite,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethodOffline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.bookings[b.ID] = b
	cp := *b
	return &cp
}

func (m *memStore) addReward(name string, cost int, active bool) *entity.LoyaltyReward {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &entity.LoyaltyReward{BaseSimple: entity.NewBaseSimple(time.Now()), Name: name, PointsRequired: cost, Active: active}
	m.rewards[r.ID] = r
	cp := *r
	return &cp
}

func (m *memStore) user(id uuid.UUID) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *memStore) booking(id string) entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.bookings[id]
}

func (m *memStore) ledgerFor(userID uuid.UUID) []entity.LoyaltyTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.LoyaltyTransaction
	for _, t := range m.ledger {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out
}

func (m *memStore) ledgerSum(userID uuid.UUID) int {
	sum := 0
	for _, t := range m.ledgerFor(userID) {
		sum += t.Points
	}
	return sum
}

// ---- users ----

type fakeUserRepo struct{ m *memStore }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	r.m.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.DeletedAt == nil && match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *fakeUserRepo) FindByReferralCode(_ context.Context, code string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ReferralCode != nil && *u.ReferralCode == code }), nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.User
	for _, u := range r.m.users {
		if u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	users, _ := r.FindAll(ctx, 1<<30, 0)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.users[u.ID]
	if !ok {
		return errors.New("user not found")
	}
	existing.Name, existing.Phone, existing.Role = u.Name, u.Phone, u.Role
	existing.EmailVerified, existing.IsActive, existing.UpdatedAt = u.EmailVerified, u.IsActive, u.UpdatedAt
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return errors.New("user not found")
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

// AddPoints mirrors `WHERE deleted_at IS NULL AND loyalty_points + $2 >= 0`.
func (r *fakeUserRepo) AddPoints(_ context.Context, id uuid.UUID, delta int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok || u.DeletedAt != nil {
		return 0, errors.New("user not found")
	}
	if u.LoyaltyPoints+delta < 0 {
		return 0, repository.ErrInsufficientPoints
	}
	u.LoyaltyPoints += delta
	return u.LoyaltyPoints, nil
}

// SetReferralCode mirrors `WHERE referral_code IS NULL` plus the UNIQUE
// constraint on referral_code.
func (r *fakeUserRepo) SetReferralCode(_ context.Context, id uuid.UUID, code string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.ReferralCode != nil && *u.ReferralCode == code {
			return false, repository.ErrDuplicate
		}
	}
	u, ok := r.m.users[id]
	if !ok || u.ReferralCode != nil {
		return false, nil
	}
	u.ReferralCode = &code
	return true, nil
}

// ---- sessions and otps ----

type fakeSessionRepo struct{ m *memStore }

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.sessionErr != nil {
		return r.m.sessionErr
	}
	cp := *s
	r.m.sessions[s.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[token]
	if !ok || s.RevokedAt != nil || s.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := time.Now()
	for _, s := range r.m.sessions {
		if s.UserID == userID {
			s.RevokedAt = &now
		}
	}
	return nil
}

type fakeOTPRepo struct{ m *memStore }

func (r *fakeOTPRepo) Create(_ context.Context, o *entity.OTP) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *o
	r.m.otps[o.ID] = &cp
	return nil
}

func (r *fakeOTPRepo) FindValidOTP(_ context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.otps {
		if strings.EqualFold(o.Email, email) && o.Code == code && o.Type == otpType && !o.IsUsed && o.ExpiresAt.After(time.Now()) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOTPRepo) Consume(_ context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.otps[id]
	if !ok || o.IsUsed {
		return false, nil
	}
	o.IsUsed = true
	return true, nil
}

// ---- bookings ----

type fakeBookingRepo struct{ m *memStore }

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.bookingErr != nil {
		return r.m.bookingErr
	}
	cp := *b
	r.m.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) filter(match func(*entity.Booking) bool) []*entity.Booking {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.m.bookings {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return page(r.filter(func(b *entity.Booking) bool { return b.IsOwnedBy(userID) }), limit, offset), nil
}

func (r *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b *entity.Booking) bool { return b.IsOwnedBy(userID) }))), nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	return page(r.filter(func(b *entity.Booking) bool { return status == "" || b.Status == status }), limit, offset), nil
}

func (r *fakeBookingRepo) CountAll(_ context.Context, status entity.BookingStatus) (int64, error) {
	return int64(len(r.filter(func(b *entity.Booking) bool { return status == "" || b.Status == status }))), nil
}

func (r *fakeBookingRepo) FindReviewable(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	return r.filter(func(b *entity.Booking) bool {
		return b.IsOwnedBy(userID) && b.Status == entity.BookingStatusCompleted && b.ReviewID == nil
	}), nil
}

func (r *fakeBookingRepo) CountCompletedByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b *entity.Booking) bool {
		return b.IsOwnedBy(userID) && b.Status == entity.BookingStatusCompleted
	}))), nil
}

// UpdateStatus mirrors `WHERE id = $1 AND status = $2`.
func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, from, to entity.BookingStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

// AttachReview mirrors `WHERE id = $1 AND review_id IS NULL AND status = 'completed'`.
func (r *fakeBookingRepo) AttachReview(_ context.Context, id string, reviewID uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok || b.ReviewID != nil || b.Status != entity.BookingStatusCompleted {
		return false, nil
	}
	b.ReviewID = &reviewID
	return true, nil
}

func (r *fakeBookingRepo) DetachReview(_ context.Context, id string, reviewID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if b, ok := r.m.bookings[id]; ok && b.ReviewID != nil && *b.ReviewID == reviewID {
		b.ReviewID = nil
	}
	return nil
}

// ---- reviews ----

type fakeReviewRepo struct{ m *memStore }

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.reviews {
		if existing.BookingID == review.BookingID {
			return repository.ErrDuplicate
		}
	}
	cp := *review
	r.m.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	review, ok := r.m.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *review
	return &cp, nil
}

func (r *fakeReviewRepo) byUser(userID uuid.UUID) []*entity.Review {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.m.reviews {
		if review.UserID == userID {
			cp := *review
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeReviewRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return page(r.byUser(userID), limit, offset), nil
}

func (r *fakeReviewRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.byUser(userID))), nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.reviews[review.ID]
	if !ok {
		return errors.New("review not found")
	}
	existing.Rating, existing.Title, existing.Comment, existing.UpdatedAt = review.Rating, review.Title, review.Comment, review.UpdatedAt
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviews[id]; !ok {
		return errors.New("review not found")
	}
	delete(r.m.reviews, id)
	return nil
}

// ---- referrals ----

type fakeReferralRepo struct{ m *memStore }

func (r *fakeReferralRepo) Create(_ context.Context, ref *entity.Referral) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.referralErr != nil {
		return r.m.referralErr
	}
	for _, existing := range r.m.referrals {
		if existing.ReferredUserID == ref.ReferredUserID {
			return repository.ErrDuplicate
		}
	}
	cp := *ref
	r.m.referrals[ref.ID] = &cp
	return nil
}

func (r *fakeReferralRepo) FindPendingByReferredUser(_ context.Context, userID uuid.UUID) (*entity.Referral, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ref := range r.m.referrals {
		if ref.ReferredUserID == userID && ref.Status == entity.ReferralStatusPending {
			cp := *ref
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReferralRepo) FindByReferrer(_ context.Context, referrerID uuid.UUID) ([]*entity.Referral, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Referral
	for _, ref := range r.m.referrals {
		if ref.ReferrerID == referrerID {
			cp := *ref
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Complete mirrors `WHERE id = $1 AND status = 'pending'`.
func (r *fakeReferralRepo) Complete(_ context.Context, id uuid.UUID, points int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ref, ok := r.m.referrals[id]
	if !ok || ref.Status != entity.ReferralStatusPending {
		return false, nil
	}
	now := time.Now()
	ref.Status, ref.PointsAwarded, ref.CompletedAt = entity.ReferralStatusCompleted, points, &now
	return true, nil
}

// ---- ledger and rewards ----

type fakeLoyaltyRepo struct{ m *memStore }

func (r *fakeLoyaltyRepo) CreateTransaction(_ context.Context, t *entity.LoyaltyTransaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *t
	r.m.ledger = append(r.m.ledger, &cp)
	return nil
}

func (r *fakeLoyaltyRepo) FindTransactionsByUser(_ context.Context, userID uuid.UUID, limit int) ([]*entity.LoyaltyTransaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.LoyaltyTransaction
	for i := len(r.m.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.m.ledger[i].UserID == userID {
			cp := *r.m.ledger[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLoyaltyRepo) HasReference(_ context.Context, userID uuid.UUID, ref string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.ledger {
		if t.UserID == userID && t.ReferenceID != nil && *t.ReferenceID == ref {
			return true, nil
		}
	}
	return false, nil
}

type fakeRewardRepo struct{ m *memStore }

func (r *fakeRewardRepo) Create(_ context.Context, reward *entity.LoyaltyReward) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *reward
	r.m.rewards[reward.ID] = &cp
	return nil
}

func (r *fakeRewardRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.LoyaltyReward, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	reward, ok := r.m.rewards[id]
	if !ok {
		return nil, nil
	}
	cp := *reward
	return &cp, nil
}

func (r *fakeRewardRepo) list(activeOnly bool) []*entity.LoyaltyReward {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.LoyaltyReward
	for _, reward := range r.m.rewards {
		if !activeOnly || reward.Active {
			cp := *reward
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PointsRequired < out[j].PointsRequired })
	return out
}

func (r *fakeRewardRepo) FindActive(context.Context) ([]*entity.LoyaltyReward, error) {
	return r.list(true), nil
}

func (r *fakeRewardRepo) FindAll(context.Context) ([]*entity.LoyaltyReward, error) {
	return r.list(false), nil
}

func (r *fakeRewardRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	reward, ok := r.m.rewards[id]
	if !ok {
		return errors.New("reward not found")
	}
	reward.Active = active
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ---- notifier ----

type fakeNotifier struct {
	mu                sync.Mutex
	created           []entity.Booking
	statusChanged     []entity.Booking
	codes             map[string]string
	reviews           int
	referralsComplete int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{codes: map[string]string{}}
}

func (n *fakeNotifier) BookingCreated(b *entity.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, *b)
}

func (n *fakeNotifier) BookingStatusChanged(b *entity.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanged = append(n.statusChanged, *b)
}

func (n *fakeNotifier) VerificationCode(email, _, code string, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
}

func (n *fakeNotifier) ReviewCreated(*entity.Review, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviews++
}

func (n *fakeNotifier) ReferralCompleted(*entity.Referral) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.referralsComplete++
}

func (n *fakeNotifier) Wait() {}

// ---- fixture ----

type fixture struct {
	store    *memStore
	notifier *fakeNotifier
	config   *utils.Config
	svc      *Service
}

func newFixture() *fixture {
	store := newMemStore()
	notifier := newFakeNotifier()
	config := &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
	}

	return &fixture{
		store:    store,
		notifier: notifier,
		config:   config,
		svc:      NewService(store.repository(), notifier, config, zap.NewNop()),
	}
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}
	return id
}
