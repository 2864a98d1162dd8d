package repository

import (
	"context"
	"errors"
	"fmt"

	"cleaning-hub/pkg/database"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientPoints is returned when a debit would take a balance below zero.
	ErrInsufficientPoints = errors.New("insufficient points")
)

type Repository struct {
	db  database.PgxIface
	log *zap.Logger

	User     UserRepository
	Session  SessionRepository
	OTP      OTPRepository
	Booking  BookingRepository
	Review   ReviewRepository
	Referral ReferralRepository
	Loyalty  LoyaltyRepository
	Reward   RewardRepository

	// Atomic gives a Repository without a database handle all-or-nothing
	// WithTx semantics. It is ignored when db is set.
	Atomic func(ctx context.Context, fn func() error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	r := newRepositories(db, log)
	r.db = db
	return r
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		log:      log,
		User:     NewUserRepository(q, log),
		Session:  NewSessionRepository(q, log),
		OTP:      NewOTPRepository(q, log),
		Booking:  NewBookingRepository(q, log),
		Review:   NewReviewRepository(q, log),
		Referral: NewReferralRepository(q, log),
		Loyalty:  NewLoyaltyRepository(q, log),
		Reward:   NewRewardRepository(q, log),
	}
}

// WithTx runs fn against repositories bound to a single transaction and
// commits when fn returns nil. A Repository assembled without a database
// handle (in-memory implementations) runs fn against itself, through Atomic
// when one is set.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		if r.Atomic != nil {
			return r.Atomic(ctx, func() error { return fn(r) })
		}
		return fn(r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepositories(tx, r.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping reports database reachability for health checks.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
