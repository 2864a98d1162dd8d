package wire

import (
	"context"
	"net/http"
	"time"

	"cleaning-hub/internal/adaptor"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/cache"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	publicBookingPath = "/api/process-booking"
	idempotencyTTL    = 24 * time.Hour
)

// Infra holds the optional collaborators built in main. Cache may be nil, in
// which case rate limiting and idempotency replay are disabled.
type Infra struct {
	Cache    *cache.Client
	Notifier usecase.NotificationService
}

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router.
func Wiring(repo *repository.Repository, infra *Infra, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, infra.Notifier, config, logger)

	checks := []adaptor.HealthCheck{{Name: "database", Check: repo.Ping}}
	if infra.Cache != nil {
		checks = append(checks, adaptor.HealthCheck{Name: "redis", Check: infra.Cache.Ping})
	}
	handler := adaptor.NewHandler(service, checks, config, logger)

	return &App{
		Router:  setupRouter(handler, repo, infra, config, logger),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	infra *Infra,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORSExcept(publicBookingPath))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	wirePublicBooking(r, handler.Booking, repo, infra, config, logger)

	wireAuth(r, handler.Auth, repo, config, logger)
	wireUser(r, handler.User, repo, config, logger)
	wireBooking(r, handler.Booking, repo, config, logger)
	wireReview(r, handler.Review, repo, config, logger)
	wireLoyalty(r, handler.Loyalty, handler.Referral, repo, config, logger)

	r.Get("/health", handler.Health.Health)

	return r
}

// Shutdown waits for in-flight notifications, bounded by ctx.
func (a *App) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.Service.Notification.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
