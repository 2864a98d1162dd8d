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

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindValidOTP(ctx context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error)
	// Consume marks the code used and reports false if it already was.
	Consume(ctx context.Context, otpID uuid.UUID) (bool, error)
}

type otpRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOTPRepository(db database.Querier, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, user_id, email, otp_code, otp_type, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.Email,
		otp.Code,
		otp.Type,
		otp.ExpiresAt,
		otp.IsUsed,
		otp.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create OTP", zap.Error(err), zap.String("email", otp.Email))
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	return nil
}

func (r *otpRepository) FindValidOTP(ctx context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	query := `
		SELECT id, user_id, email, otp_code, otp_type, expires_at, is_used, created_at
		FROM otps
		WHERE LOWER(email) = LOWER($1) AND otp_code = $2 AND otp_type = $3
		  AND is_used = false AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, email, code, otpType).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Email,
		&otp.Code,
		&otp.Type,
		&otp.ExpiresAt,
		&otp.IsUsed,
		&otp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find valid OTP for %s: %w", email, err)
	}

	return &otp, nil
}

func (r *otpRepository) Consume(ctx context.Context, otpID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `UPDATE otps SET is_used = true WHERE id = $1 AND is_used = false`, otpID)
	if err != nil {
		r.log.Error("Failed to consume OTP", zap.Error(err), zap.String("otp_id", otpID.String()))
		return false, fmt.Errorf("consume OTP %s: %w", otpID, err)
	}
	return result.RowsAffected() == 1, nil
}
