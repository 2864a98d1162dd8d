package usecase

import (
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Booking      BookingService
	Review       ReviewService
	Loyalty      LoyaltyService
	Referral     ReferralService
	Notification NotificationService
}

func NewService(repo *repository.Repository, notifier NotificationService, config *utils.Config, log *zap.Logger) *Service {
	referral := NewReferralService(repo, notifier, log)

	return &Service{
		Auth:         NewAuthService(repo, referral, notifier, config, log),
		User:         NewUserService(repo, log),
		Booking:      NewBookingService(repo, referral, notifier, log),
		Review:       NewReviewService(repo, notifier, log),
		Loyalty:      NewLoyaltyService(repo, log),
		Referral:     referral,
		Notification: notifier,
	}
}
