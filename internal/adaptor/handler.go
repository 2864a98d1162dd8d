package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
	Loyalty  *LoyaltyHandler
	Referral *ReferralHandler
	Health   *HealthHandler
}

func NewHandler(service *usecase.Service, checks []HealthCheck, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, config, log),
		User:     NewUserHandler(service.User, log),
		Booking:  NewBookingHandler(service.Booking, config.Webhook.Secret, log),
		Review:   NewReviewHandler(service.Review, log),
		Loyalty:  NewLoyaltyHandler(service.Loyalty, log),
		Referral: NewReferralHandler(service.Referral, log),
		Health:   NewHealthHandler(checks, log),
	}
}

// handleServiceError maps usecase error kinds to status codes. Persistence
// failures are logged with their cause; clients only see the public message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	msg := usecase.PublicMessage(err)

	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.String("field", verr.Field), zap.String("message", verr.Message))
		utils.ResponseBadRequest(w, msg, verr.Fields)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, msg, nil)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, msg)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, msg)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, msg)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, msg)

	case errors.Is(err, usecase.ErrPersistence):
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, msg)

	default:
		log.Error(operation+" failed - unexpected error", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("perPage"), 10),
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

func uuidParam(w http.ResponseWriter, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, map[string]string{name: name + " must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}
