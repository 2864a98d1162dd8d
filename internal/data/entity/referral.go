package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
)

const (
	ReferralCodePrefix  = "CHUB"
	ReferralBonusPoints = 200
)

type Referral struct {
	BaseSimple
	ReferrerID     uuid.UUID      `db:"referrer_id"`
	ReferredUserID uuid.UUID      `db:"referred_user_id"`
	ReferredEmail  string         `db:"referred_email"`
	Status         ReferralStatus `db:"status"`
	PointsAwarded  int            `db:"points_awarded"`
	CompletedAt    *time.Time     `db:"completed_at"`
}
