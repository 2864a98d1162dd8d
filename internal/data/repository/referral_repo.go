package repository

import (
	"context"
	"errors"
	"fmt"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReferralRepository interface {
	// Create returns ErrDuplicate when the referred user already has a referral.
	Create(ctx context.Context, referral *entity.Referral) error
	FindPendingByReferredUser(ctx context.Context, userID uuid.UUID) (*entity.Referral, error)
	FindByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.Referral, error)
	// Complete marks a pending referral completed. It reports false when the
	// referral was already completed.
	Complete(ctx context.Context, id uuid.UUID, points int) (bool, error)
}

type referralRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReferralRepository(db database.Querier, log *zap.Logger) ReferralRepository {
	return &referralRepository{
		db:  db,
		log: log.With(zap.String("repository", "referral")),
	}
}

const referralColumns = `id, referrer_id, referred_user_id, referred_email, status, points_awarded,
	created_at, completed_at`

func scanReferral(row pgx.Row) (*entity.Referral, error) {
	var r entity.Referral
	err := row.Scan(
		&r.ID,
		&r.ReferrerID,
		&r.ReferredUserID,
		&r.ReferredEmail,
		&r.Status,
		&r.PointsAwarded,
		&r.CreatedAt,
		&r.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (rr *referralRepository) Create(ctx context.Context, referral *entity.Referral) error {
	query := `
		INSERT INTO referrals (` + referralColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := rr.db.Exec(ctx, query,
		referral.ID,
		referral.ReferrerID,
		referral.ReferredUserID,
		referral.ReferredEmail,
		referral.Status,
		referral.PointsAwarded,
		referral.CreatedAt,
		referral.CompletedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create referral for %s: %w", referral.ReferredEmail, ErrDuplicate)
	}
	if err != nil {
		rr.log.Error("Failed to create referral", zap.Error(err), zap.String("referrer_id", referral.ReferrerID.String()))
		return fmt.Errorf("create referral for %s: %w", referral.ReferredEmail, err)
	}

	return nil
}

func (rr *referralRepository) FindPendingByReferredUser(ctx context.Context, userID uuid.UUID) (*entity.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referred_user_id = $1 AND status = 'pending'`

	referral, err := scanReferral(rr.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		rr.log.Error("Failed to find pending referral", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find pending referral for user %s: %w", userID, err)
	}
	return referral, nil
}

func (rr *referralRepository) FindByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_id = $1 ORDER BY created_at DESC`

	rows, err := rr.db.Query(ctx, query, referrerID)
	if err != nil {
		rr.log.Error("Failed to find referrals", zap.Error(err), zap.String("referrer_id", referrerID.String()))
		return nil, fmt.Errorf("find referrals by %s: %w", referrerID, err)
	}
	defer rows.Close()

	var referrals []*entity.Referral
	for rows.Next() {
		referral, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral row: %w", err)
		}
		referrals = append(referrals, referral)
	}

	return referrals, rows.Err()
}

func (rr *referralRepository) Complete(ctx context.Context, id uuid.UUID, points int) (bool, error) {
	result, err := rr.db.Exec(ctx, `
		UPDATE referrals
		SET status = 'completed', points_awarded = $2, completed_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		id, points,
	)
	if err != nil {
		rr.log.Error("Failed to complete referral", zap.Error(err), zap.String("referral_id", id.String()))
		return false, fmt.Errorf("complete referral %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}
