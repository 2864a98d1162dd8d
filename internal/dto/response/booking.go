package response

import (
	"time"

	"cleaning-hub/internal/data/entity"
)

// BookingSubmitResponse is the body of the public booking endpoints.
type BookingSubmitResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Message   string `json:"message"`
}

type BookingResponse struct {
	ID            string                `json:"id"`
	UserID        *string               `json:"userId,omitempty"`
	ServiceID     string                `json:"serviceId"`
	ServiceName   string                `json:"serviceName"`
	Date          string                `json:"date"`
	Time          string                `json:"time"`
	Duration      int                   `json:"duration"`
	Price         float64               `json:"price"`
	CustomerName  string                `json:"customerName"`
	CustomerEmail string                `json:"customerEmail"`
	CustomerPhone string                `json:"customerPhone"`
	Notes         *string               `json:"notes,omitempty"`
	Status        entity.BookingStatus  `json:"status"`
	Channel       entity.BookingChannel `json:"channel"`
	PaymentStatus entity.PaymentStatus  `json:"paymentStatus"`
	PaymentMethod string                `json:"paymentMethod"`
	ReviewID      *string               `json:"reviewId,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		ServiceID:     b.ServiceID,
		ServiceName:   b.ServiceName,
		Date:          b.Date,
		Time:          b.Time,
		Duration:      b.Duration,
		Price:         b.Price,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
		Status:        b.Status,
		Channel:       b.Channel,
		PaymentStatus: b.PaymentStatus,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.UserID != nil {
		id := b.UserID.String()
		resp.UserID = &id
	}
	if b.ReviewID != nil {
		id := b.ReviewID.String()
		resp.ReviewID = &id
	}
	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
