package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type BookingChannel string

const (
	ChannelWebsite  BookingChannel = "website"
	ChannelWhatsApp BookingChannel = "whatsapp"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

const PaymentMethodOffline = "offline"

// Booking ids are strings of the form booking_<unixMillis>_<suffix>.
type Booking struct {
	ID            string         `db:"id"`
	UserID        *uuid.UUID     `db:"user_id"`
	ServiceID     string         `db:"service_id"`
	ServiceName   string         `db:"service_name"`
	Date          string         `db:"booking_date"`
	Time          string         `db:"booking_time"`
	Duration      int            `db:"duration"`
	Price         float64        `db:"price"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	CustomerPhone string         `db:"customer_phone"`
	Notes         *string        `db:"notes"`
	Status        BookingStatus  `db:"status"`
	Channel       BookingChannel `db:"channel"`
	PaymentStatus PaymentStatus  `db:"payment_status"`
	PaymentMethod string         `db:"payment_method"`
	ReviewID      *uuid.UUID     `db:"review_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionTo reports whether the booking may move to next.
// Completed and cancelled are terminal.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range bookingTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID != nil && *b.UserID == userID
}

func ValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}
