package request

// BookingRequest is the public booking payload. Field order is the order in
// which missing fields are reported.
type BookingRequest struct {
	ServiceID     string  `json:"serviceId" validate:"required"`
	ServiceName   string  `json:"serviceName" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	Time          string  `json:"time" validate:"required"`
	Duration      int     `json:"duration" validate:"required,gt=0"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	CustomerName  string  `json:"customerName" validate:"required"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	CustomerPhone string  `json:"customerPhone" validate:"required"`
	Channel       string  `json:"channel" validate:"required,oneof=website whatsapp"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ChatBookingRequest arrives from the chat bot webhook. The channel is
// implied and the customer may not have given an email.
type ChatBookingRequest struct {
	ServiceID     string  `json:"serviceId" validate:"required"`
	ServiceName   string  `json:"serviceName" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	Time          string  `json:"time" validate:"required"`
	Duration      int     `json:"duration" validate:"required,gt=0"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	CustomerName  string  `json:"customerName" validate:"required"`
	CustomerEmail string  `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone string  `json:"customerPhone" validate:"required"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PaymentStatus string  `json:"paymentStatus,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}
