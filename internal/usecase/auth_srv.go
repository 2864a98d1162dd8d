package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/dto/response"
	"cleaning-hub/pkg/auth"
	"cleaning-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo describes the caller of a login or registration.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionToken uuid.UUID) error
	SendOTP(ctx context.Context, req *request.SendOTPRequest) error
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
}

type authService struct {
	repo      *repository.Repository
	referrals ReferralService
	notifier  NotificationService
	config    *utils.Config
	log       *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	referrals ReferralService,
	notifier NotificationService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		referrals: referrals,
		notifier:  notifier,
		config:    config,
		log:       log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	if verr := validate(req); verr != nil {
		s.log.Warn("Register validation failed", zap.Any("errors", verr.Fields))
		return nil, verr
	}
	req.Email = normalizeEmail(req.Email)

	// Resolve the referral code before anything is written so a bad code
	// leaves no account behind.
	var referrer *entity.User
	if req.ReferralCode != nil && strings.TrimSpace(*req.ReferralCode) != "" {
		var err error
		referrer, err = s.referrals.ResolveCode(ctx, *req.ReferralCode)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, persistenceError("failed to check email", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "email already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, persistenceError("failed to process password", err)
	}

	user := &entity.User{
		Base:         entity.NewBase(time.Now()),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	// The account, its referral and its first session commit together.
	var (
		token     string
		expiresAt time.Time
	)
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return newError(ErrConflict, "email already registered")
			}
			return err
		}

		if referrer != nil {
			if err := s.referrals.RecordSignup(ctx, tx, referrer, user); err != nil {
				return err
			}
		}

		var sessionErr error
		token, expiresAt, sessionErr = s.createSession(ctx, tx, user, client)
		return sessionErr
	})
	if err != nil {
		var kinded *Error
		var verr *ValidationError
		if errors.As(err, &kinded) || errors.As(err, &verr) {
			return nil, err
		}
		s.log.Error("Failed to create account", zap.Error(err), zap.String("email", req.Email))
		return nil, persistenceError("failed to create account", err)
	}

	if err := s.issueOTP(ctx, user, entity.OTPTypeEmailVerification); err != nil {
		s.log.Warn("Failed to issue verification OTP", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("referred", referrer != nil))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	if verr := validate(req); verr != nil {
		return nil, verr
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err))
		return nil, persistenceError("failed to find user", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, newError(ErrUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, newError(ErrForbidden, "account is deactivated")
	}

	token, expiresAt, err := s.createSession(ctx, s.repo, user, client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, persistenceError("failed to create session", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, sessionToken); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return persistenceError("failed to logout", err)
	}
	return nil
}

func (s *authService) SendOTP(ctx context.Context, req *request.SendOTPRequest) error {
	if verr := validate(req); verr != nil {
		return verr
	}

	req.Email = normalizeEmail(req.Email)
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for OTP", zap.Error(err), zap.String("email", req.Email))
		return persistenceError("failed to find user", err)
	}
	if user == nil {
		return newError(ErrNotFound, "user not found")
	}

	otpType := entity.OTPType(req.Type)
	if otpType == entity.OTPTypeEmailVerification && user.EmailVerified {
		return newError(ErrConflict, "email already verified")
	}

	if err := s.issueOTP(ctx, user, otpType); err != nil {
		return persistenceError("failed to generate OTP", err)
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if verr := validate(req); verr != nil {
		return verr
	}

	req.Email = normalizeEmail(req.Email)
	otp, err := s.repo.OTP.FindValidOTP(ctx, req.Email, req.OTP, entity.OTPTypeEmailVerification)
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", req.Email))
		return persistenceError("failed to verify OTP", err)
	}
	if otp == nil {
		return invalid("otp", "invalid or expired OTP")
	}

	consumed, err := s.repo.OTP.Consume(ctx, otp.ID)
	if err != nil {
		return persistenceError("failed to verify OTP", err)
	}
	if !consumed {
		return invalid("otp", "invalid or expired OTP")
	}

	user, err := s.repo.User.FindByID(ctx, otp.UserID)
	if err != nil {
		return persistenceError("failed to find user", err)
	}
	if user == nil {
		return newError(ErrNotFound, "user not found")
	}

	user.EmailVerified = true
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user verification", zap.Error(err), zap.String("user_id", user.ID.String()))
		return persistenceError("failed to verify email", err)
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) createSession(ctx context.Context, repo *repository.Repository, user *entity.User, client ClientInfo) (string, time.Time, error) {
	now := time.Now()
	ttl := s.config.JWT.TTL()

	session := &entity.Session{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  now.Add(ttl),
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}

	if err := repo.Session.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	signed, err := auth.NewSessionToken(user.ID, session.Token, string(user.Role), s.config.JWT.Secret, now, ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, session.ExpiresAt, nil
}

func (s *authService) issueOTP(ctx context.Context, user *entity.User, otpType entity.OTPType) error {
	expiresIn := time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute
	now := time.Now()

	otp := &entity.OTP{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     user.ID,
		Email:      user.Email,
		Code:       utils.GenerateOTP(s.config.OTP.Length),
		Type:       otpType,
		ExpiresAt:  now.Add(expiresIn),
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return err
	}

	s.log.Debug("OTP generated",
		zap.String("user_id", user.ID.String()),
		zap.String("otp_type", string(otpType)),
		zap.Time("expires_at", otp.ExpiresAt))

	s.notifier.VerificationCode(user.Email, user.Name, otp.Code, expiresIn)
	return nil
}
