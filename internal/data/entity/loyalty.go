package entity

import (
	"github.com/google/uuid"
)

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

// TierThreshold is the minimum point balance for a tier.
type TierThreshold struct {
	Tier   LoyaltyTier `json:"tier"`
	Points int         `json:"points"`
}

// TierThresholds is ordered ascending; thresholds are distinct.
var TierThresholds = []TierThreshold{
	{Tier: TierBronze, Points: 0},
	{Tier: TierSilver, Points: 500},
	{Tier: TierGold, Points: 1500},
	{Tier: TierPlatinum, Points: 4000},
}

var tierBenefits = map[LoyaltyTier]string{
	TierBronze:   "Welcome bonus: 50 points | 1x multiplier | Basic rewards",
	TierSilver:   "1.25x multiplier | Priority booking | 5% discount | Birthday bonus: 100 points",
	TierGold:     "1.5x multiplier | 10% discount | Free add-on monthly | Birthday bonus: 200 points | Exclusive offers",
	TierPlatinum: "2x multiplier | 15% discount | Free premium quarterly | Birthday bonus: 500 points | VIP support | Early access",
}

// TierOf returns the highest tier whose threshold is <= points.
func TierOf(points int) LoyaltyTier {
	tier := TierBronze
	for _, t := range TierThresholds {
		if points < t.Points {
			break
		}
		tier = t.Tier
	}
	return tier
}

// NextTier returns the tier after the one points falls into and how many
// points are still missing. ok is false at the top tier. Negative balances
// count as zero, matching TierOf.
func NextTier(points int) (next LoyaltyTier, remaining int, ok bool) {
	points = max(points, 0)
	for _, t := range TierThresholds {
		if points < t.Points {
			return t.Tier, t.Points - points, true
		}
	}
	return "", 0, false
}

func (t LoyaltyTier) Benefits() string {
	return tierBenefits[t]
}

type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
)

const ReviewRewardPoints = 50

// LoyaltyTransaction is an append-only ledger row. Points are signed:
// positive for earned, negative for redeemed.
type LoyaltyTransaction struct {
	BaseSimple
	UserID      uuid.UUID       `db:"user_id"`
	Type        TransactionType `db:"type"`
	Points      int             `db:"points"`
	Description string          `db:"description"`
	ReferenceID *string         `db:"reference_id"`
}

type LoyaltyReward struct {
	BaseSimple
	Name           string `db:"name"`
	Description    string `db:"description"`
	PointsRequired int    `db:"points_required"`
	Active         bool   `db:"active"`
}
