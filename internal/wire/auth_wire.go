package wire

import (
	"cleaning-hub/internal/adaptor"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/send-otp", authHandler.SendOTP)
	r.Post("/api/verify-email", authHandler.VerifyEmail)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, config.JWT.Secret, log)).Post("/api/logout", authHandler.Logout)
}
