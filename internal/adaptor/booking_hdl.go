package adaptor

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/dto/response"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookSecretHeader authenticates the chat bot webhook.
const WebhookSecretHeader = "X-Webhook-Secret"

type BookingHandler struct {
	service       usecase.BookingService
	webhookSecret string
	log           *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, webhookSecret string, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:       service,
		webhookSecret: webhookSecret,
		log:           log.With(zap.String("handler", "booking")),
	}
}

// writeSubmitError answers the public booking endpoints with
// {success:false, message}: 400 for bad input, 500 for everything else.
func (h *BookingHandler) writeSubmitError(w http.ResponseWriter, err error, operation string) {
	if errors.Is(err, usecase.ErrValidation) {
		h.log.Warn(operation+" rejected", zap.String("message", usecase.PublicMessage(err)))
		utils.WriteJSON(w, http.StatusBadRequest, response.BookingSubmitResponse{Message: usecase.PublicMessage(err)})
		return
	}

	h.log.Error(operation+" failed", zap.Error(err))
	utils.WriteJSON(w, http.StatusInternalServerError, response.BookingSubmitResponse{Message: usecase.BookingFailedMessage})
}

// SubmitBooking handles POST /api/process-booking
func (h *BookingHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	var req request.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, response.BookingSubmitResponse{Message: "Invalid request body"})
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	resp, err := h.service.SubmitBooking(r.Context(), userID, &req)
	if err != nil {
		h.writeSubmitError(w, err, "submit booking")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// ChatBookingWebhook handles POST /api/webhooks/whatsapp-booking
func (h *BookingHandler) ChatBookingWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" {
		got := r.Header.Get(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			h.log.Warn("Webhook secret mismatch", zap.String("remote_addr", r.RemoteAddr))
			utils.WriteJSON(w, http.StatusUnauthorized, response.BookingSubmitResponse{Message: "Invalid webhook secret"})
			return
		}
	}

	var req request.ChatBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, response.BookingSubmitResponse{Message: "Invalid request body"})
		return
	}

	resp, err := h.service.SubmitChatBooking(r.Context(), &req)
	if err != nil {
		h.writeSubmitError(w, err, "chat booking")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetUserBookings handles GET /api/user/bookings
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// GetReviewableBookings handles GET /api/user/bookings/reviewable
func (h *BookingHandler) GetReviewableBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetReviewableBookings(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get reviewable bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// GetUserBooking handles GET /api/user/bookings/{id}
func (h *BookingHandler) GetUserBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetUserBooking(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}

// CancelBooking handles PUT /api/user/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled successfully", booking)
}

// GetAllBookings handles GET /api/admin/bookings?status=
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetAllBookings(r.Context(), r.URL.Query().Get("status"), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get all bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// GetBookingByID handles GET /api/admin/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBookingByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}

// UpdateBookingStatus handles PUT /api/admin/bookings/{id}/status
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated successfully", booking)
}
