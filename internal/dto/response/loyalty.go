package response

import (
	"time"

	"cleaning-hub/internal/data/entity"
)

type LoyaltySummaryResponse struct {
	Points             int                    `json:"points"`
	Tier               entity.LoyaltyTier     `json:"tier"`
	Benefits           string                 `json:"benefits"`
	NextTier           *entity.LoyaltyTier    `json:"nextTier,omitempty"`
	PointsToNextTier   int                    `json:"pointsToNextTier"`
	Tiers              []entity.TierThreshold `json:"tiers"`
	RecentTransactions []TransactionResponse  `json:"recentTransactions"`
}

type TransactionResponse struct {
	ID          string                 `json:"id"`
	Type        entity.TransactionType `json:"type"`
	Points      int                    `json:"points"`
	Description string                 `json:"description"`
	ReferenceID *string                `json:"referenceId,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

type RewardResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	PointsRequired int       `json:"pointsRequired"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

type RedeemResponse struct {
	Reward        RewardResponse     `json:"reward"`
	PointsSpent   int                `json:"pointsSpent"`
	LoyaltyPoints int                `json:"loyaltyPoints"`
	Tier          entity.LoyaltyTier `json:"tier"`
}

func TransactionsToResponse(txs []*entity.LoyaltyTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionResponse{
			ID:          t.ID.String(),
			Type:        t.Type,
			Points:      t.Points,
			Description: t.Description,
			ReferenceID: t.ReferenceID,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out
}

func RewardToResponse(r *entity.LoyaltyReward) RewardResponse {
	return RewardResponse{
		ID:             r.ID.String(),
		Name:           r.Name,
		Description:    r.Description,
		PointsRequired: r.PointsRequired,
		Active:         r.Active,
		CreatedAt:      r.CreatedAt,
	}
}

func RewardsToResponse(rewards []*entity.LoyaltyReward) []RewardResponse {
	out := make([]RewardResponse, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, RewardToResponse(r))
	}
	return out
}
