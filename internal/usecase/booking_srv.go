package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/dto/response"
	"cleaning-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BookingSubmittedMessage     = "Booking submitted successfully! You will receive a confirmation email shortly."
	ChatBookingProcessedMessage = "WhatsApp booking processed successfully"
	BookingFailedMessage        = "Failed to process booking"
)

// statusUpdateAttempts bounds compare-and-swap retries when a booking
// changes between read and write.
const statusUpdateAttempts = 3

type BookingService interface {
	// SubmitBooking stores a website booking. userID is set when the
	// submitter has a session.
	SubmitBooking(ctx context.Context, userID *uuid.UUID, req *request.BookingRequest) (*response.BookingSubmitResponse, error)
	SubmitChatBooking(ctx context.Context, req *request.ChatBookingRequest) (*response.BookingSubmitResponse, error)

	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetReviewableBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error)
	GetUserBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)

	GetAllBookings(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	referrals ReferralService
	notifier  NotificationService
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(repo *repository.Repository, referrals ReferralService, notifier NotificationService, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		referrals: referrals,
		notifier:  notifier,
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

func (s *bookingService) SubmitBooking(ctx context.Context, userID *uuid.UUID, req *request.BookingRequest) (*response.BookingSubmitResponse, error) {
	if verr := validate(req); verr != nil {
		s.log.Warn("Booking validation failed", zap.String("field", verr.Field), zap.String("message", verr.Message))
		return nil, verr
	}

	now := s.now()
	booking := &entity.Booking{
		ID:            utils.GenerateBookingID(now),
		UserID:        userID,
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Price:         req.Price,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         trimmedOrNil(req.Notes),
		Status:        entity.BookingStatusPending,
		Channel:       entity.BookingChannel(req.Channel),
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethodOffline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.create(ctx, booking); err != nil {
		return nil, err
	}

	return &response.BookingSubmitResponse{
		Success:   true,
		BookingID: booking.ID,
		Message:   BookingSubmittedMessage,
	}, nil
}

func (s *bookingService) SubmitChatBooking(ctx context.Context, req *request.ChatBookingRequest) (*response.BookingSubmitResponse, error) {
	if verr := validate(req); verr != nil {
		s.log.Warn("Chat booking validation failed", zap.String("field", verr.Field))
		return nil, verr
	}

	status, payment := entity.BookingStatusPending, entity.PaymentStatusPending
	if req.PaymentStatus == string(entity.PaymentStatusPaid) {
		status, payment = entity.BookingStatusConfirmed, entity.PaymentStatusPaid
	}

	now := s.now()
	booking := &entity.Booking{
		ID:            utils.GenerateBookingID(now),
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Price:         req.Price,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         trimmedOrNil(req.Notes),
		Status:        status,
		Channel:       entity.ChannelWhatsApp,
		PaymentStatus: payment,
		PaymentMethod: entity.PaymentMethodOffline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.create(ctx, booking); err != nil {
		return nil, err
	}

	return &response.BookingSubmitResponse{
		Success:   true,
		BookingID: booking.ID,
		Message:   ChatBookingProcessedMessage,
	}, nil
}

// create persists the booking and hands it to notification dispatch. A
// notification failure never fails the booking.
func (s *bookingService) create(ctx context.Context, booking *entity.Booking) error {
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to save booking", zap.Error(err), zap.String("booking_id", booking.ID))
		return persistenceError(BookingFailedMessage, err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("channel", string(booking.Channel)),
		zap.String("status", string(booking.Status)))

	s.notifier.BookingCreated(booking)
	return nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistenceError("failed to get bookings", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to count bookings", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetReviewableBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindReviewable(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to get bookings", err)
	}
	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GetUserBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	for attempt := 0; attempt < statusUpdateAttempts; attempt++ {
		booking, err := s.findOwned(ctx, userID, bookingID)
		if err != nil {
			return nil, err
		}

		switch booking.Status {
		case entity.BookingStatusCancelled:
			resp := response.BookingToResponse(booking)
			return &resp, nil
		case entity.BookingStatusCompleted:
			return nil, invalid("status", "completed bookings cannot be cancelled")
		}

		ok, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, booking.Status, entity.BookingStatusCancelled)
		if err != nil {
			s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
			return nil, persistenceError("failed to cancel booking", err)
		}
		if !ok {
			continue
		}

		booking.Status = entity.BookingStatusCancelled
		booking.UpdatedAt = s.now()

		s.log.Info("Booking cancelled", zap.String("booking_id", bookingID), zap.String("user_id", userID.String()))
		s.notifier.BookingStatusChanged(booking)

		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	return nil, newError(ErrConflict, "booking was modified concurrently, please retry")
}

func (s *bookingService) GetAllBookings(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if status != "" && !entity.ValidBookingStatus(status) {
		return nil, invalid("status", "status must be one of: pending, confirmed, completed, cancelled")
	}
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	filter := entity.BookingStatus(status)

	bookings, err := s.repo.Booking.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, persistenceError("failed to get bookings", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, persistenceError("failed to count bookings", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if verr := validate(req); verr != nil {
		return nil, verr
	}
	next := entity.BookingStatus(req.Status)

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == next {
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	if !booking.CanTransitionTo(next) {
		return nil, invalid("status", fmt.Sprintf("cannot change status from %s to %s", booking.Status, next))
	}

	ok, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, booking.Status, next)
	if err != nil {
		s.log.Error("Failed to update booking status", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, persistenceError("failed to update booking", err)
	}
	if !ok {
		return nil, newError(ErrConflict, "booking was modified concurrently, please retry")
	}

	previous := booking.Status
	booking.Status = next
	booking.UpdatedAt = s.now()

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)))

	s.notifier.BookingStatusChanged(booking)

	if next == entity.BookingStatusCompleted && booking.UserID != nil {
		if err := s.referrals.CompleteOnFirstBooking(ctx, *booking.UserID); err != nil {
			s.log.Error("Referral completion failed",
				zap.Error(err),
				zap.String("booking_id", bookingID),
				zap.String("user_id", booking.UserID.String()))
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) find(ctx context.Context, bookingID string) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, persistenceError("failed to get booking", err)
	}
	if booking == nil {
		return nil, newError(ErrNotFound, "booking not found")
	}
	return booking, nil
}

// findOwned hides bookings of other users behind not found.
func (s *bookingService) findOwned(ctx context.Context, userID uuid.UUID, bookingID string) (*entity.Booking, error) {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsOwnedBy(userID) {
		return nil, newError(ErrNotFound, "booking not found")
	}
	return booking, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
