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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// FindAll lists bookings newest first; an empty status means any.
	FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, status entity.BookingStatus) (int64, error)
	FindReviewable(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// UpdateStatus moves a booking from status from to status to. It reports
	// false when the booking is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to entity.BookingStatus) (bool, error)
	// AttachReview links a review to a completed, unreviewed booking. It
	// reports false when the booking already has a review or is not completed.
	AttachReview(ctx context.Context, id string, reviewID uuid.UUID) (bool, error)
	DetachReview(ctx context.Context, id string, reviewID uuid.UUID) error
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, service_id, service_name, booking_date, booking_time, duration,
	price, customer_name, customer_email, customer_phone, notes, status, channel,
	payment_status, payment_method, review_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ServiceID,
		&b.ServiceName,
		&b.Date,
		&b.Time,
		&b.Duration,
		&b.Price,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Notes,
		&b.Status,
		&b.Channel,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.ReviewID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.UserID,
		b.ServiceID,
		b.ServiceName,
		b.Date,
		b.Time,
		b.Duration,
		b.Price,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.Notes,
		b.Status,
		b.Channel,
		b.PaymentStatus,
		b.PaymentMethod,
		b.ReviewID,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking", zap.Error(err), zap.String("booking_id", b.ID))
		return fmt.Errorf("create booking %s: %w", b.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id))
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	return b, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	bookings, err := r.list(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	bookings, err := r.list(ctx, query, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err), zap.String("status", string(status)))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context, status entity.BookingStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE ($1 = '' OR status = $1)`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) FindReviewable(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND status = 'completed' AND review_id IS NULL
		ORDER BY created_at DESC`

	bookings, err := r.list(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find reviewable bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find reviewable bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND status = 'completed'`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed bookings for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to entity.BookingStatus) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status to %s: %w", id, to, err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) AttachReview(ctx context.Context, id string, reviewID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE bookings SET review_id = $2, updated_at = NOW()
		WHERE id = $1 AND review_id IS NULL AND status = 'completed'`,
		id, reviewID,
	)
	if err != nil {
		r.log.Error("Failed to attach review", zap.Error(err), zap.String("booking_id", id))
		return false, fmt.Errorf("attach review to booking %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) DetachReview(ctx context.Context, id string, reviewID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE bookings SET review_id = NULL, updated_at = NOW() WHERE id = $1 AND review_id = $2`,
		id, reviewID,
	)
	if err != nil {
		r.log.Error("Failed to detach review", zap.Error(err), zap.String("booking_id", id))
		return fmt.Errorf("detach review from booking %s: %w", id, err)
	}
	return nil
}
