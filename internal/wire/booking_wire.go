package wire

import (
	"cleaning-hub/internal/adaptor"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wirePublicBooking mounts the booking form endpoint. The API-wide CORS
// policy skips it; it answers its own preflight.
func wirePublicBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	infra *Infra,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicCORS)
		r.Use(middleware.OptionalSession(repo.Session, config.JWT.Secret, log))
		if infra.Cache != nil {
			r.Use(middleware.RateLimit(infra.Cache, config.RateLimit.Requests, config.RateLimit.Window, log))
			r.Use(middleware.Idempotency(infra.Cache, idempotencyTTL, log))
		}

		r.Post(publicBookingPath, bookingHandler.SubmitBooking)
		r.Options(publicBookingPath, middleware.Preflight)
	})
}

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== WEBHOOKS ====================
	r.Post("/api/webhooks/whatsapp-booking", bookingHandler.ChatBookingWebhook)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/user/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))

		r.Get("/", bookingHandler.GetUserBookings)
		r.Get("/reviewable", bookingHandler.GetReviewableBookings)
		r.Get("/{id}", bookingHandler.GetUserBooking)
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/", bookingHandler.GetAllBookings) // GET /api/admin/bookings?status=pending
		r.Get("/{id}", bookingHandler.GetBookingByID)
		r.Put("/{id}/status", bookingHandler.UpdateBookingStatus)
	})
}
