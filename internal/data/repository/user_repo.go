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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByReferralCode(ctx context.Context, code string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddPoints applies delta atomically and returns the new balance.
	// A debit that would go below zero fails with ErrInsufficientPoints.
	AddPoints(ctx context.Context, id uuid.UUID, delta int) (int, error)
	// SetReferralCode stores code only if the user has none yet. It reports
	// whether the row was updated and returns ErrDuplicate if the code is taken.
	SetReferralCode(ctx context.Context, id uuid.UUID, code string) (bool, error)
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, name, email, password, phone, role, loyalty_points, referral_code,
	email_verified, is_active, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&user.LoyaltyPoints,
		&user.ReferralCode,
		&user.EmailVerified,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password, phone, role, loyalty_points,
		                   referral_code, email_verified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.LoyaltyPoints,
		user.ReferralCode,
		user.EmailVerified,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, "id = $1", id)
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}
	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "LOWER(email) = LOWER($1)", email)
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "referral_code = $1", code)
	if err != nil {
		ur.log.Error("Failed to find user by referral code", zap.Error(err), zap.String("code", code))
		return nil, fmt.Errorf("find user by referral code %s: %w", code, err)
	}
	return user, nil
}

func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := ur.db.Query(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := ur.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}
	return count, nil
}

// Update writes profile and account flags. Points and referral code have
// their own conditional writes and are not touched here.
func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, role = $4, email_verified = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Role,
		user.EmailVerified,
		user.IsActive,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", user.ID)
	}

	return nil
}

func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := ur.db.Exec(ctx, `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	return nil
}

func (ur *userRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE users
		SET loyalty_points = loyalty_points + $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND loyalty_points + $2 >= 0
		RETURNING loyalty_points
	`

	var balance int
	err := ur.db.QueryRow(ctx, query, id, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		if delta < 0 {
			return 0, fmt.Errorf("debit %d points from user %s: %w", -delta, id, ErrInsufficientPoints)
		}
		return 0, fmt.Errorf("user %s not found", id)
	}
	if err != nil {
		ur.log.Error("Failed to add points", zap.Error(err), zap.String("user_id", id.String()), zap.Int("delta", delta))
		return 0, fmt.Errorf("add %d points to user %s: %w", delta, id, err)
	}

	return balance, nil
}

func (ur *userRepository) SetReferralCode(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	result, err := ur.db.Exec(ctx,
		`UPDATE users SET referral_code = $2, updated_at = NOW() WHERE id = $1 AND referral_code IS NULL`,
		id, code,
	)
	if isUniqueViolation(err) {
		return false, fmt.Errorf("referral code %s: %w", code, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to set referral code", zap.Error(err), zap.String("user_id", id.String()))
		return false, fmt.Errorf("set referral code for user %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}
