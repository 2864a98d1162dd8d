package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/dto/response"
	"cleaning-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referralCodeAttempts = 5

type ReferralService interface {
	// ResolveCode returns the owner of code or a ValidationError.
	ResolveCode(ctx context.Context, code string) (*entity.User, error)
	RecordSignup(ctx context.Context, tx *repository.Repository, referrer, referred *entity.User) error
	GetOrCreateCode(ctx context.Context, userID uuid.UUID) (*response.ReferralCodeResponse, error)
	ListReferrals(ctx context.Context, userID uuid.UUID) (*response.ReferralSummaryResponse, error)
	// CompleteOnFirstBooking credits the referrer once the referred user has
	// exactly one completed booking.
	CompleteOnFirstBooking(ctx context.Context, referredUserID uuid.UUID) error
}

type referralService struct {
	repo     *repository.Repository
	notifier NotificationService
	log      *zap.Logger
	newCode  func() string
}

func NewReferralService(repo *repository.Repository, notifier NotificationService, log *zap.Logger) ReferralService {
	return &referralService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "referral")),
		newCode: func() string {
			return utils.GenerateReferralCode(entity.ReferralCodePrefix)
		},
	}
}

func (s *referralService) ResolveCode(ctx context.Context, code string) (*entity.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	referrer, err := s.repo.User.FindByReferralCode(ctx, code)
	if err != nil {
		s.log.Error("Failed to resolve referral code", zap.Error(err), zap.String("code", code))
		return nil, persistenceError("failed to check referral code", err)
	}
	if referrer == nil {
		return nil, invalid("referralCode", "referralCode is invalid")
	}
	return referrer, nil
}

// RecordSignup writes the pending referral through tx so it commits with the
// new account.
func (s *referralService) RecordSignup(ctx context.Context, tx *repository.Repository, referrer, referred *entity.User) error {
	if referrer.ID == referred.ID {
		return invalid("referralCode", "cannot refer yourself")
	}

	referral := &entity.Referral{
		BaseSimple:     entity.NewBaseSimple(time.Now()),
		ReferrerID:     referrer.ID,
		ReferredUserID: referred.ID,
		ReferredEmail:  referred.Email,
		Status:         entity.ReferralStatusPending,
	}

	if err := tx.Referral.Create(ctx, referral); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return newError(ErrConflict, "user already referred")
		}
		return persistenceError("failed to record referral", err)
	}

	s.log.Info("Referral recorded",
		zap.String("referrer_id", referrer.ID.String()),
		zap.String("referred_user_id", referred.ID.String()))
	return nil
}

func (s *referralService) GetOrCreateCode(ctx context.Context, userID uuid.UUID) (*response.ReferralCodeResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to find user", err)
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}
	if user.ReferralCode != nil {
		return &response.ReferralCodeResponse{Code: *user.ReferralCode}, nil
	}

	for attempt := 1; attempt <= referralCodeAttempts; attempt++ {
		code := s.newCode()

		stored, err := s.repo.User.SetReferralCode(ctx, userID, code)
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Debug("Referral code collision", zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, persistenceError("failed to store referral code", err)
		}

		if !stored {
			// Another request assigned a code first; return that one.
			user, err = s.repo.User.FindByID(ctx, userID)
			if err != nil {
				return nil, persistenceError("failed to find user", err)
			}
			if user == nil || user.ReferralCode == nil {
				return nil, newError(ErrNotFound, "user not found")
			}
			return &response.ReferralCodeResponse{Code: *user.ReferralCode}, nil
		}

		s.log.Info("Referral code created", zap.String("user_id", userID.String()))
		return &response.ReferralCodeResponse{Code: code}, nil
	}

	return nil, persistenceError("failed to generate referral code",
		fmt.Errorf("%d collisions", referralCodeAttempts))
}

func (s *referralService) ListReferrals(ctx context.Context, userID uuid.UUID) (*response.ReferralSummaryResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to find user", err)
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	referrals, err := s.repo.Referral.FindByReferrer(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to get referrals", err)
	}

	summary := &response.ReferralSummaryResponse{
		Code:           user.ReferralCode,
		Referrals:      response.ReferralsToResponse(referrals),
		TotalReferrals: len(referrals),
	}
	for _, r := range referrals {
		if r.Status == entity.ReferralStatusCompleted {
			summary.CompletedReferrals++
			summary.PointsEarned += r.PointsAwarded
		}
	}

	return summary, nil
}

func (s *referralService) CompleteOnFirstBooking(ctx context.Context, referredUserID uuid.UUID) error {
	completed, err := s.repo.Booking.CountCompletedByUser(ctx, referredUserID)
	if err != nil {
		return persistenceError("failed to count bookings", err)
	}
	if completed != 1 {
		return nil
	}

	referral, err := s.repo.Referral.FindPendingByReferredUser(ctx, referredUserID)
	if err != nil {
		return persistenceError("failed to find referral", err)
	}
	if referral == nil {
		return nil
	}

	credited := false
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Referral.Complete(ctx, referral.ID, entity.ReferralBonusPoints)
		if err != nil || !ok {
			return err
		}

		_, err = creditPoints(ctx, tx, referral.ReferrerID, entity.TransactionEarned,
			entity.ReferralBonusPoints,
			"Referral bonus: "+referral.ReferredEmail,
			"referral:"+referral.ID.String())
		if err != nil {
			return err
		}

		credited = true
		return nil
	})
	if err != nil {
		s.log.Error("Failed to complete referral", zap.Error(err), zap.String("referral_id", referral.ID.String()))
		return persistenceError("failed to complete referral", err)
	}

	if credited {
		now := time.Now()
		referral.Status = entity.ReferralStatusCompleted
		referral.PointsAwarded = entity.ReferralBonusPoints
		referral.CompletedAt = &now

		s.log.Info("Referral completed",
			zap.String("referral_id", referral.ID.String()),
			zap.String("referrer_id", referral.ReferrerID.String()))
		s.notifier.ReferralCompleted(referral)
	}
	return nil
}
