package response

import (
	"time"

	"cleaning-hub/internal/data/entity"
)

type ReviewResponse struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"bookingId"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title"`
	Comment     string    `json:"comment"`
	ServiceName string    `json:"serviceName"`
	BookingDate string    `json:"bookingDate"`
	Verified    bool      `json:"verified"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateReviewResponse struct {
	Review        ReviewResponse `json:"review"`
	PointsAwarded int            `json:"pointsAwarded"`
	LoyaltyPoints int            `json:"loyaltyPoints"`
}

func ReviewToResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID.String(),
		BookingID:   r.BookingID,
		Rating:      r.Rating,
		Title:       r.Title,
		Comment:     r.Comment,
		ServiceName: r.ServiceName,
		BookingDate: r.BookingDate,
		Verified:    r.Verified,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewToResponse(r))
	}
	return out
}
