package entity

import (
	"github.com/google/uuid"
)

const ReviewStatusApproved = "approved"

type Review struct {
	BaseNoDelete
	UserID      uuid.UUID `db:"user_id"`
	BookingID   string    `db:"booking_id"`
	Rating      int       `db:"rating"` // 1-5
	Title       string    `db:"title"`
	Comment     string    `db:"comment"`
	ServiceName string    `db:"service_name"`
	BookingDate string    `db:"booking_date"`
	Verified    bool      `db:"verified"`
	Status      string    `db:"status"`
}
