package adaptor

import (
	"net/http"

	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

type ReferralHandler struct {
	service usecase.ReferralService
	log     *zap.Logger
}

func NewReferralHandler(service usecase.ReferralService, log *zap.Logger) *ReferralHandler {
	return &ReferralHandler{
		service: service,
		log:     log.With(zap.String("handler", "referral")),
	}
}

// GetCode handles GET /api/referrals/code
func (h *ReferralHandler) GetCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	code, err := h.service.GetOrCreateCode(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get referral code")
		return
	}

	utils.ResponseSuccess(w, "Referral code retrieved successfully", code)
}

// ListReferrals handles GET /api/referrals
func (h *ReferralHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.ListReferrals(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list referrals")
		return
	}

	utils.ResponseSuccess(w, "Referrals retrieved successfully", summary)
}
