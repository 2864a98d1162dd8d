package response

import (
	"time"

	"cleaning-hub/internal/data/entity"
)

type AuthResponse struct {
	UserID        string          `json:"userId"`
	Token         string          `json:"token,omitempty"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          entity.UserRole `json:"role"`
	EmailVerified bool            `json:"emailVerified"`
}

func AuthToResponse(user *entity.User, token string, expiresAt time.Time) AuthResponse {
	resp := AuthResponse{
		UserID:        user.ID.String(),
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}

	if token != "" {
		resp.Token = token
		resp.ExpiresAt = &expiresAt
	}

	return resp
}
