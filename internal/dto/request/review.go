package request

type CreateReviewRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Title     string `json:"title" validate:"required,max=100"`
	Comment   string `json:"comment" validate:"required,min=10,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"required,max=100"`
	Comment string `json:"comment" validate:"required,min=10,max=1000"`
}
