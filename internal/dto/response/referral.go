package response

import (
	"time"

	"cleaning-hub/internal/data/entity"
)

type ReferralCodeResponse struct {
	Code string `json:"code"`
}

type ReferralResponse struct {
	ID            string                `json:"id"`
	ReferredEmail string                `json:"referredEmail"`
	Status        entity.ReferralStatus `json:"status"`
	PointsAwarded int                   `json:"pointsAwarded"`
	CreatedAt     time.Time             `json:"createdAt"`
	CompletedAt   *time.Time            `json:"completedAt,omitempty"`
}

type ReferralSummaryResponse struct {
	Code               *string            `json:"code,omitempty"`
	Referrals          []ReferralResponse `json:"referrals"`
	TotalReferrals     int                `json:"totalReferrals"`
	CompletedReferrals int                `json:"completedReferrals"`
	PointsEarned       int                `json:"pointsEarned"`
}

func ReferralsToResponse(referrals []*entity.Referral) []ReferralResponse {
	out := make([]ReferralResponse, 0, len(referrals))
	for _, r := range referrals {
		out = append(out, ReferralResponse{
			ID:            r.ID.String(),
			ReferredEmail: r.ReferredEmail,
			Status:        r.Status,
			PointsAwarded: r.PointsAwarded,
			CreatedAt:     r.CreatedAt,
			CompletedAt:   r.CompletedAt,
		})
	}
	return out
}
