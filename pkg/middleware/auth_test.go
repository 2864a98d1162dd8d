package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/pkg/auth"
	"cleaning-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type stubSessions struct {
	sessions map[uuid.UUID]*entity.Session
}

func (s *stubSessions) Create(_ context.Context, session *entity.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *stubSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return nil, nil
	}
	return sess, nil
}

func (s *stubSessions) Revoke(_ context.Context, token uuid.UUID) error {
	now := time.Now()
	if sess, ok := s.sessions[token]; ok {
		sess.RevokedAt = &now
	}
	return nil
}

func (s *stubSessions) RevokeAllUserSessions(context.Context, uuid.UUID) error { return nil }

type stubUsers struct {
	users map[uuid.UUID]*entity.User
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func (s *stubUsers) Create(context.Context, *entity.User) error                       { return nil }
func (s *stubUsers) FindByEmail(context.Context, string) (*entity.User, error)        { return nil, nil }
func (s *stubUsers) FindByReferralCode(context.Context, string) (*entity.User, error) { return nil, nil }
func (s *stubUsers) FindAll(context.Context, int, int) ([]*entity.User, error)        { return nil, nil }
func (s *stubUsers) CountAll(context.Context) (int64, error)                          { return 0, nil }
func (s *stubUsers) Update(context.Context, *entity.User) error                       { return nil }
func (s *stubUsers) Delete(context.Context, uuid.UUID) error                          { return nil }
func (s *stubUsers) AddPoints(context.Context, uuid.UUID, int) (int, error)           { return 0, nil }
func (s *stubUsers) SetReferralCode(context.Context, uuid.UUID, string) (bool, error) { return false, nil }

func newSession(t *testing.T, store *stubSessions, userID uuid.UUID, role string) string {
	t.Helper()
	token := uuid.New()
	store.sessions[token] = &entity.Session{UserID: userID, Token: token, ExpiresAt: time.Now().Add(time.Hour)}

	signed, err := auth.NewSessionToken(userID, token, role, testSecret, time.Now(), time.Hour)
	require.NoError(t, err)
	return signed
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(userID.String()))
}

func TestAuthSession(t *testing.T) {
	store := &stubSessions{sessions: map[uuid.UUID]*entity.Session{}}
	userID := uuid.New()
	signed := newSession(t, store, userID, "customer")

	revoked := newSession(t, store, userID, "customer")
	claims, err := auth.ParseSessionToken(revoked, testSecret)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), claims.SessionID))

	handler := AuthSession(store, testSecret, zap.NewNop())(http.HandlerFunc(echoUser))

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: signed}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+signed) }, http.StatusUnauthorized},
		{"tampered", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signed+"x") }, http.StatusUnauthorized},
		{"revoked session", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+revoked) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestOptionalSession(t *testing.T) {
	store := &stubSessions{sessions: map[uuid.UUID]*entity.Session{}}
	userID := uuid.New()
	signed := newSession(t, store, userID, "customer")

	handler := OptionalSession(store, testSecret, zap.NewNop())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodPost, "/api/process-booking", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "anonymous", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/process-booking", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/process-booking", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestAdminRechecksRole(t *testing.T) {
	store := &stubSessions{sessions: map[uuid.UUID]*entity.Session{}}
	adminID, demotedID := uuid.New(), uuid.New()
	users := &stubUsers{users: map[uuid.UUID]*entity.User{
		adminID:   {Base: entity.Base{ID: adminID}, Role: entity.RoleAdmin},
		demotedID: {Base: entity.Base{ID: demotedID}, Role: entity.RoleCustomer},
	}}

	// The demoted user's token still claims admin.
	adminToken := newSession(t, store, adminID, "admin")
	demotedToken := newSession(t, store, demotedID, "admin")

	handler := AuthSession(store, testSecret, zap.NewNop())(
		Admin(users, zap.NewNop())(http.HandlerFunc(echoUser)),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+demotedToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthSessionSetsRole(t *testing.T) {
	store := &stubSessions{sessions: map[uuid.UUID]*entity.Session{}}
	signed := newSession(t, store, uuid.New(), "admin")

	var role string
	handler := AuthSession(store, testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ = utils.GetRoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loyalty", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "admin", role)
}
