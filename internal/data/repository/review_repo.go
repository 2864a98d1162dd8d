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

type ReviewRepository interface {
	// Create returns ErrDuplicate when the booking already has a review.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, booking_id, rating, title, comment, service_name, booking_date,
	verified, status, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var r entity.Review
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.BookingID,
		&r.Rating,
		&r.Title,
		&r.Comment,
		&r.ServiceName,
		&r.BookingDate,
		&r.Verified,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (rr *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := rr.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.BookingID,
		review.Rating,
		review.Title,
		review.Comment,
		review.ServiceName,
		review.BookingDate,
		review.Verified,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create review for booking %s: %w", review.BookingID, ErrDuplicate)
	}
	if err != nil {
		rr.log.Error("Failed to create review", zap.Error(err), zap.String("booking_id", review.BookingID))
		return fmt.Errorf("create review for booking %s: %w", review.BookingID, err)
	}

	return nil
}

func (rr *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, err := scanReview(rr.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		rr.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review %s: %w", id, err)
	}
	return review, nil
}

func (rr *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := rr.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		rr.log.Error("Failed to find user reviews", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find reviews for user %s: %w", userID, err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (rr *reviewRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := rr.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews for user %s: %w", userID, err)
	}
	return count, nil
}

func (rr *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, title = $3, comment = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := rr.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Title,
		review.Comment,
		review.UpdatedAt,
	)
	if err != nil {
		rr.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID)
	}

	return nil
}

func (rr *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := rr.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		rr.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("delete review %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id)
	}

	return nil
}
