package wire

import (
	"cleaning-hub/internal/adaptor"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))

		r.Post("/", reviewHandler.CreateReview)
		r.Get("/", reviewHandler.GetUserReviews)
		r.Put("/{id}", reviewHandler.UpdateReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)
	})
}
