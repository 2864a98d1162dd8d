package response

import (
	"time"

	"cleaning-hub/internal/data/entity"
)

type UserResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         *string            `json:"phone,omitempty"`
	Role          entity.UserRole    `json:"role"`
	EmailVerified bool               `json:"emailVerified"`
	LoyaltyPoints int                `json:"loyaltyPoints"`
	Tier          entity.LoyaltyTier `json:"tier"`
	ReferralCode  *string            `json:"referralCode,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		LoyaltyPoints: user.LoyaltyPoints,
		Tier:          user.Tier(),
		ReferralCode:  user.ReferralCode,
		CreatedAt:     user.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToResponse(u))
	}
	return out
}
