package wire

import (
	"cleaning-hub/internal/adaptor"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireLoyalty(
	r chi.Router,
	loyaltyHandler *adaptor.LoyaltyHandler,
	referralHandler *adaptor.ReferralHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/loyalty/rewards", loyaltyHandler.GetRewards)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))

		r.Get("/api/loyalty", loyaltyHandler.GetSummary)
		r.Get("/api/loyalty/transactions", loyaltyHandler.GetTransactions)
		r.Post("/api/loyalty/rewards/{id}/redeem", loyaltyHandler.RedeemReward)

		r.Get("/api/referrals", referralHandler.ListReferrals)
		r.Get("/api/referrals/code", referralHandler.GetCode)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/rewards", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/", loyaltyHandler.GetAllRewards)
		r.Post("/", loyaltyHandler.CreateReward)
		r.Put("/{id}/active", loyaltyHandler.SetRewardActive)
	})
}
