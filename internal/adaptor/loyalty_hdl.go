package adaptor

import (
	"net/http"

	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoyaltyHandler struct {
	service usecase.LoyaltyService
	log     *zap.Logger
}

func NewLoyaltyHandler(service usecase.LoyaltyService, log *zap.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		log:     log.With(zap.String("handler", "loyalty")),
	}
}

// GetSummary handles GET /api/loyalty
func (h *LoyaltyHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get loyalty summary")
		return
	}

	utils.ResponseSuccess(w, "Loyalty summary retrieved successfully", summary)
}

// GetTransactions handles GET /api/loyalty/transactions?limit=
func (h *LoyaltyHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)
	txs, err := h.service.GetTransactions(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, h.log, err, "get loyalty transactions")
		return
	}

	utils.ResponseSuccess(w, "Transactions retrieved successfully", txs)
}

// GetRewards handles GET /api/loyalty/rewards
func (h *LoyaltyHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.service.GetRewards(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get rewards")
		return
	}

	utils.ResponseSuccess(w, "Rewards retrieved successfully", rewards)
}

// RedeemReward handles POST /api/loyalty/rewards/{id}/redeem
func (h *LoyaltyHandler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	rewardID, ok := uuidParam(w, chi.URLParam(r, "id"), "id")
	if !ok {
		return
	}

	resp, err := h.service.RedeemReward(r.Context(), userID, rewardID)
	if err != nil {
		handleServiceError(w, h.log, err, "redeem reward")
		return
	}

	utils.ResponseSuccess(w, "Reward redeemed successfully", resp)
}

// GetAllRewards handles GET /api/admin/rewards
func (h *LoyaltyHandler) GetAllRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.service.GetAllRewards(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get all rewards")
		return
	}

	utils.ResponseSuccess(w, "Rewards retrieved successfully", rewards)
}

// CreateReward handles POST /api/admin/rewards
func (h *LoyaltyHandler) CreateReward(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRewardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reward, err := h.service.CreateReward(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reward")
		return
	}

	utils.ResponseCreated(w, "Reward created successfully", reward)
}

// SetRewardActive handles PUT /api/admin/rewards/{id}/active
func (h *LoyaltyHandler) SetRewardActive(w http.ResponseWriter, r *http.Request) {
	rewardID, ok := uuidParam(w, chi.URLParam(r, "id"), "id")
	if !ok {
		return
	}

	var req request.SetRewardActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SetRewardActive(r.Context(), rewardID, &req); err != nil {
		handleServiceError(w, h.log, err, "set reward active")
		return
	}

	utils.ResponseSuccess(w, "Reward updated successfully", nil)
}
