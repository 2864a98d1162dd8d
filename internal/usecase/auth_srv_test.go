package usecase

import (
	"context"
	"errors"
	"testing"

	"cleaning-hub/internal/dto/request"
	"cleaning-hub/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(email string) *request.RegisterRequest {
	return &request.RegisterRequest{Name: "Jane Doe", Email: email, Password: "secret123"}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{UserAgent: "test"})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.False(t, registered.EmailVerified)

	claims, err := auth.ParseSessionToken(registered.Token, f.config.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, claims.Subject)
	assert.Equal(t, "customer", claims.Role)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	loggedIn, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Email: "jane@example.com", Password: "secret123"}, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, loggedIn.UserID)

	claims, err = auth.ParseSessionToken(loggedIn.Token, f.config.JWT.Secret)
	require.NoError(t, err)
	require.NoError(t, f.svc.Auth.Logout(ctx, claims.SessionID))
	assert.NotNil(t, f.store.sessions[claims.SessionID].RevokedAt)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{})
	require.NoError(t, err)

	_, err = f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.store.users, 1)
}

func TestRegister_UnknownReferralCodeWritesNothing(t *testing.T) {
	f := newFixture()
	req := registerRequest("jane@example.com")
	code := "CHUBNOPE00"
	req.ReferralCode = &code

	_, err := f.svc.Auth.Register(context.Background(), req, ClientInfo{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "referralCode is invalid", PublicMessage(err))
	assert.Empty(t, f.store.users)
	assert.Empty(t, f.store.referrals)
}

func TestRegister_ReferralFailureRollsBack(t *testing.T) {
	f := newFixture()
	referrer := f.store.addUser("ref@example.com", 0)
	code := "CHUBREF123"
	f.store.users[referrer.ID].ReferralCode = &code
	f.store.referralErr = errors.New("insert referral: connection reset")

	req := registerRequest("jane@example.com")
	req.ReferralCode = &code
	_, err := f.svc.Auth.Register(context.Background(), req, ClientInfo{})

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, f.store.findUserByEmail("jane@example.com"))
	assert.Empty(t, f.store.referrals)
	assert.Empty(t, f.store.sessions)
	assert.Empty(t, f.notifier.codes)
}

func TestRegister_SessionFailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.sessionErr = errors.New("insert session: connection reset")

	_, err := f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, f.store.findUserByEmail("jane@example.com"))

	f.store.sessionErr = nil
	registered, err := f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
}

func TestRegister_EmailIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.svc.Auth.Register(ctx, registerRequest(" Jane@Example.COM "), ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", f.store.findUserByEmail("jane@example.com").Email)

	_, err = f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{})
	assert.ErrorIs(t, err, ErrConflict)

	loggedIn, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Email: "JANE@example.com", Password: "secret123"}, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, loggedIn.UserID)
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.svc.Auth.Register(ctx, registerRequest("jane@example.com"), ClientInfo{})
	require.NoError(t, err)

	code := f.notifier.codes["jane@example.com"]
	require.Len(t, code, 6)

	err = f.svc.Auth.VerifyEmail(ctx, &request.VerifyEmailRequest{Email: "jane@example.com", OTP: "000000x"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.Auth.VerifyEmail(ctx, &request.VerifyEmailRequest{Email: "jane@example.com", OTP: code}))

	user, err := f.svc.User.GetProfile(ctx, mustUUID(t, registered.UserID))
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)

	err = f.svc.Auth.VerifyEmail(ctx, &request.VerifyEmailRequest{Email: "jane@example.com", OTP: code})
	assert.ErrorIs(t, err, ErrValidation)

	err = f.svc.Auth.SendOTP(ctx, &request.SendOTPRequest{Email: "jane@example.com", Type: "email_verification"})
	assert.ErrorIs(t, err, ErrConflict)
}
