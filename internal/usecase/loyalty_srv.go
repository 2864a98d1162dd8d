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

const (
	recentTransactionsLimit = 10
	maxTransactionsLimit    = 100
)

type LoyaltyService interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*response.LoyaltySummaryResponse, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]response.TransactionResponse, error)
	GetRewards(ctx context.Context) ([]response.RewardResponse, error)
	RedeemReward(ctx context.Context, userID, rewardID uuid.UUID) (*response.RedeemResponse, error)

	GetAllRewards(ctx context.Context) ([]response.RewardResponse, error)
	CreateReward(ctx context.Context, req *request.CreateRewardRequest) (*response.RewardResponse, error)
	SetRewardActive(ctx context.Context, rewardID uuid.UUID, req *request.SetRewardActiveRequest) error
}

type loyaltyService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewLoyaltyService(repo *repository.Repository, log *zap.Logger) LoyaltyService {
	return &loyaltyService{
		repo: repo,
		log:  log.With(zap.String("service", "loyalty")),
	}
}

func (s *loyaltyService) GetSummary(ctx context.Context, userID uuid.UUID) (*response.LoyaltySummaryResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to get loyalty summary", err)
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	txs, err := s.repo.Loyalty.FindTransactionsByUser(ctx, userID, recentTransactionsLimit)
	if err != nil {
		return nil, persistenceError("failed to get loyalty transactions", err)
	}

	tier := user.Tier()
	summary := &response.LoyaltySummaryResponse{
		Points:             user.LoyaltyPoints,
		Tier:               tier,
		Benefits:           tier.Benefits(),
		Tiers:              entity.TierThresholds,
		RecentTransactions: response.TransactionsToResponse(txs),
	}
	if next, remaining, ok := entity.NextTier(user.LoyaltyPoints); ok {
		summary.NextTier = &next
		summary.PointsToNextTier = remaining
	}

	return summary, nil
}

func (s *loyaltyService) GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]response.TransactionResponse, error) {
	if limit < 1 || limit > maxTransactionsLimit {
		limit = maxTransactionsLimit
	}

	txs, err := s.repo.Loyalty.FindTransactionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, persistenceError("failed to get loyalty transactions", err)
	}
	return response.TransactionsToResponse(txs), nil
}

func (s *loyaltyService) GetRewards(ctx context.Context) ([]response.RewardResponse, error) {
	rewards, err := s.repo.Reward.FindActive(ctx)
	if err != nil {
		return nil, persistenceError("failed to get rewards", err)
	}
	return response.RewardsToResponse(rewards), nil
}

func (s *loyaltyService) GetAllRewards(ctx context.Context) ([]response.RewardResponse, error) {
	rewards, err := s.repo.Reward.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("failed to get rewards", err)
	}
	return response.RewardsToResponse(rewards), nil
}

func (s *loyaltyService) RedeemReward(ctx context.Context, userID, rewardID uuid.UUID) (*response.RedeemResponse, error) {
	reward, err := s.repo.Reward.FindByID(ctx, rewardID)
	if err != nil {
		return nil, persistenceError("failed to get reward", err)
	}
	if reward == nil || !reward.Active {
		return nil, newError(ErrNotFound, "reward not found")
	}

	var balance int
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		balance, err = creditPoints(ctx, tx, userID, entity.TransactionRedeemed,
			-reward.PointsRequired, "Redeemed: "+reward.Name, "reward:"+reward.ID.String())
		return err
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		s.log.Error("Failed to redeem reward", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("reward_id", rewardID.String()))
		return nil, persistenceError("failed to redeem reward", err)
	}

	s.log.Info("Reward redeemed",
		zap.String("user_id", userID.String()),
		zap.String("reward", reward.Name),
		zap.Int("points", reward.PointsRequired))

	return &response.RedeemResponse{
		Reward:        response.RewardToResponse(reward),
		PointsSpent:   reward.PointsRequired,
		LoyaltyPoints: balance,
		Tier:          entity.TierOf(balance),
	}, nil
}

func (s *loyaltyService) CreateReward(ctx context.Context, req *request.CreateRewardRequest) (*response.RewardResponse, error) {
	if verr := validate(req); verr != nil {
		return nil, verr
	}

	reward := &entity.LoyaltyReward{
		BaseSimple:     entity.NewBaseSimple(time.Now()),
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		PointsRequired: req.PointsRequired,
		Active:         true,
	}

	if err := s.repo.Reward.Create(ctx, reward); err != nil {
		return nil, persistenceError("failed to create reward", err)
	}

	resp := response.RewardToResponse(reward)
	return &resp, nil
}

func (s *loyaltyService) SetRewardActive(ctx context.Context, rewardID uuid.UUID, req *request.SetRewardActiveRequest) error {
	if verr := validate(req); verr != nil {
		return verr
	}

	reward, err := s.repo.Reward.FindByID(ctx, rewardID)
	if err != nil {
		return persistenceError("failed to get reward", err)
	}
	if reward == nil {
		return newError(ErrNotFound, "reward not found")
	}

	if err := s.repo.Reward.SetActive(ctx, rewardID, *req.Active); err != nil {
		return persistenceError("failed to update reward", err)
	}
	return nil
}
