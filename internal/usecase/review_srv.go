package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errAlreadyReviewed = newError(ErrConflict, "booking already reviewed")

type ReviewService interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.CreateReviewResponse, error)
	GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo     *repository.Repository
	notifier NotificationService
	log      *zap.Logger
}

func NewReviewService(repo *repository.Repository, notifier NotificationService, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "review")),
	}
}

func reviewReference(bookingID string) string {
	return "review:" + bookingID
}

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.CreateReviewResponse, error) {
	if verr := validate(req); verr != nil {
		s.log.Warn("Create review validation failed", zap.Any("errors", verr.Fields))
		return nil, verr
	}

	booking, err := s.repo.Booking.FindByID(ctx, req.BookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, persistenceError("failed to get booking", err)
	}
	if booking == nil || !booking.IsOwnedBy(userID) {
		return nil, newError(ErrNotFound, "booking not found")
	}
	if booking.Status != entity.BookingStatusCompleted {
		return nil, invalid("bookingId", "booking must be completed")
	}
	if booking.ReviewID != nil {
		return nil, errAlreadyReviewed
	}

	now := time.Now()
	review := &entity.Review{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		BookingID:    booking.ID,
		Rating:       req.Rating,
		Title:        strings.TrimSpace(req.Title),
		Comment:      strings.TrimSpace(req.Comment),
		ServiceName:  booking.ServiceName,
		BookingDate:  booking.Date,
		Verified:     true,
		Status:       entity.ReviewStatusApproved,
	}

	var awarded, balance int
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Review.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return errAlreadyReviewed
			}
			return err
		}

		attached, err := tx.Booking.AttachReview(ctx, booking.ID, review.ID)
		if err != nil {
			return err
		}
		if !attached {
			return errAlreadyReviewed
		}

		// A booking earns review points once, even if its review is
		// deleted and written again.
		rewarded, err := tx.Loyalty.HasReference(ctx, userID, reviewReference(booking.ID))
		if err != nil {
			return err
		}

		if rewarded {
			user, err := tx.User.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if user != nil {
				balance = user.LoyaltyPoints
			}
			return nil
		}

		balance, err = creditPoints(ctx, tx, userID, entity.TransactionEarned,
			entity.ReviewRewardPoints, "Review submitted", reviewReference(booking.ID))
		if err != nil {
			return err
		}
		awarded = entity.ReviewRewardPoints
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		s.log.Error("Failed to create review", zap.Error(err), zap.String("booking_id", booking.ID))
		return nil, persistenceError("failed to create review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("booking_id", booking.ID),
		zap.Int("points", awarded))

	s.notifier.ReviewCreated(review, awarded)

	return &response.CreateReviewResponse{
		Review:        response.ReviewToResponse(review),
		PointsAwarded: awarded,
		LoyaltyPoints: balance,
	}, nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	reviews, err := s.repo.Review.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistenceError("failed to get reviews", err)
	}

	total, err := s.repo.Review.CountByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to count reviews", err)
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), req.Page, req.PerPage, total), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if verr := validate(req); verr != nil {
		return nil, verr
	}

	review, err := s.findOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Title = strings.TrimSpace(req.Title)
	review.Comment = strings.TrimSpace(req.Comment)
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, persistenceError("failed to update review", err)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.findOwned(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Review.Delete(ctx, review.ID); err != nil {
			return err
		}
		return tx.Booking.DetachReview(ctx, review.BookingID, review.ID)
	})
	if err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return persistenceError("failed to delete review", err)
	}

	s.log.Info("Review deleted", zap.String("review_id", reviewID.String()), zap.String("booking_id", review.BookingID))
	return nil
}

func (s *reviewService) findOwned(ctx context.Context, userID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, persistenceError("failed to get review", err)
	}
	if review == nil || review.UserID != userID {
		return nil, newError(ErrNotFound, "review not found")
	}
	return review, nil
}
