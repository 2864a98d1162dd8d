package adaptor

import (
	"net/http"
	"time"

	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/dto/response"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/middleware"
	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	secure  bool
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		secure:  !config.App.Debug,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	return usecase.ClientInfo{UserAgent: r.UserAgent(), IPAddress: r.RemoteAddr}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, resp *response.AuthResponse) {
	if resp.Token == "" || resp.ExpiresAt == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  *resp.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	h.setSessionCookie(w, resp)
	utils.ResponseCreated(w, "Registration successful. Check your email for the verification code.", resp)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	h.setSessionCookie(w, resp)
	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// SendOTP handles POST /api/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SendOTP(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "send OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent successfully", nil)
}

// VerifyEmail handles POST /api/verify-email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.VerifyEmail(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "verify email")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", nil)
}
