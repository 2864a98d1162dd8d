package wire

import (
	"cleaning-hub/internal/adaptor"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile routes and admin user management
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Route("/api/users/profile", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, config.JWT.Secret, log))

		r.Get("/", userHandler.GetProfile)
		r.Put("/", userHandler.UpdateProfile)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, config.JWT.Secret, log),
		middleware.Admin(repo.User, log),
	).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)       // GET /api/admin/users?page=1&perPage=10
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{user-id}
	})
}
